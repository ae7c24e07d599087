package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Browse the catalog",
	Long: `List catalog targets, optionally filtered by type and magnitude, or run
a cone search with --near "RA DEC" and --radius.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		limit, _ := flags.GetInt("limit")
		near, _ := flags.GetStringSlice("near")
		if len(near) > 0 {
			return runNear(cmd, near, limit)
		}

		filter := catalog.Filter{Limit: limit}
		filter.Types, _ = flags.GetStringSlice("type")
		if flags.Changed("max-mag") {
			v, _ := flags.GetFloat64("max-mag")
			filter.MaxMagnitude = &v
		}
		targets, err := current.catalog.List(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if flagJSON {
			return current.printJSON(targets)
		}
		for _, t := range targets {
			printTarget(t, "")
		}
		return nil
	},
}

func init() {
	targetsCmd.Flags().StringSlice("type", nil, "Only these object types (repeatable, substring match)")
	targetsCmd.Flags().Float64("max-mag", 0, "Faintest magnitude to include")
	targetsCmd.Flags().Int("limit", 0, "Maximum number of rows")
	targetsCmd.Flags().StringSlice("near", nil, "Cone search centre as RA,DEC")
	targetsCmd.Flags().Float64("radius", 5, "Cone search radius in degrees")

	rootCmd.AddCommand(targetsCmd)
}

func runNear(cmd *cobra.Command, near []string, limit int) error {
	if len(near) != 2 {
		return fmt.Errorf("--near wants RA,DEC")
	}
	ra, ok := astro.ParseRA(near[0])
	if !ok {
		return fmt.Errorf("invalid right ascension %q", near[0])
	}
	dec, ok := astro.ParseDec(near[1])
	if !ok {
		return fmt.Errorf("invalid declination %q", near[1])
	}
	radius, _ := cmd.Flags().GetFloat64("radius")
	matches, err := current.catalog.Near(cmd.Context(), ra, dec, radius, limit)
	if err != nil {
		return err
	}
	if flagJSON {
		return current.printJSON(matches)
	}
	for _, m := range matches {
		printTarget(m.Target, fmt.Sprintf("%5.2f°", m.Separation))
	}
	return nil
}

func printTarget(t catalog.Target, suffix string) {
	mag := "  -  "
	if t.Magnitude != nil {
		mag = fmt.Sprintf("%5.1f", *t.Magnitude)
	}
	id := color.New(color.FgCyan).Sprintf("%-10s", t.ID)
	fmt.Fprintf(current.out, "%s %-28s %-20s %s  %s %s  %s\n",
		id, t.Name, t.Type, mag, astro.FormatRA(t.RA), astro.FormatDec(t.Dec), suffix)
}
