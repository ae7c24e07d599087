package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yanqian/skyplan/internal/domain/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank tonight's best targets for the site",
	Long: `Rank catalog targets by tonight's visibility window, peak altitude,
Moon interference and, when given, cloud cover and seeing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := recommend.Request{Observer: current.observer, Now: current.at}
		flags := cmd.Flags()
		req.Recommender, _ = flags.GetString("recommender")
		req.Types, _ = flags.GetStringSlice("type")
		if flags.Changed("min-alt") {
			v, _ := flags.GetFloat64("min-alt")
			req.MinAltitude = &v
		}
		if flags.Changed("max") {
			v, _ := flags.GetInt("max")
			req.MaxTargets = &v
		}
		if flags.Changed("cloud") {
			v, _ := flags.GetFloat64("cloud")
			req.CloudCover = &v
		}
		if flags.Changed("seeing") {
			v, _ := flags.GetFloat64("seeing")
			req.Seeing = &v
		}

		resp, err := current.recommend.Recommend(cmd.Context(), req)
		if err != nil {
			return err
		}
		if flagJSON {
			return current.printJSON(resp)
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		fmt.Fprintf(current.out, "%s for %s to %s, Moon %s %.0f%%\n",
			bold("Tonight"), clock(resp.Night.Start), clock(resp.Night.End), resp.Moon.PhaseName, resp.Moon.Illumination*100)
		if len(resp.Targets) == 0 {
			color.New(color.FgYellow).Fprintln(current.out, "No targets clear the horizon long enough tonight")
			return nil
		}
		for i, rt := range resp.Targets {
			fmt.Fprintf(current.out, "%2d. %s %-24s %-18s %3d  %4.1fh  peak %4.1f°\n",
				i+1, scoreColor(rt.Score).Sprint("●"), rt.Target.Name, rt.Target.Type,
				rt.Score, rt.Window.DurationHours, rt.Window.PeakAltitude)
			if len(rt.Reasons) > 0 {
				fmt.Fprintf(current.out, "    %s\n", faint(strings.Join(rt.Reasons, "; ")))
			}
		}
		fmt.Fprintf(current.out, "%s\n", faint(fmt.Sprintf("%d candidates, %d below horizon, %d short windows", resp.Stats.Candidates, resp.Stats.BelowHorizon, resp.Stats.ShortWindow)))
		return nil
	},
}

var recommendersCmd = &cobra.Command{
	Use:   "recommenders",
	Short: "List the registered recommendation strategies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := current.recommend.Recommenders()
		if flagJSON {
			return current.printJSON(names)
		}
		for _, n := range names {
			fmt.Fprintln(current.out, n)
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().String("recommender", "", "Strategy name (default visibility)")
	recommendCmd.Flags().StringSlice("type", nil, "Only these object types (repeatable, substring match)")
	recommendCmd.Flags().Float64("min-alt", recommend.DefaultMinAltitude, "Minimum altitude in degrees")
	recommendCmd.Flags().Int("max", recommend.DefaultMaxTargets, "Maximum number of targets")
	recommendCmd.Flags().Float64("cloud", 0, "Cloud cover percentage 0-100")
	recommendCmd.Flags().Float64("seeing", 0, "Seeing in arcseconds")

	rootCmd.AddCommand(recommendCmd, recommendersCmd)
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen)
	case score >= 60:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
