package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yanqian/skyplan/internal/domain/planner"
	"github.com/yanqian/skyplan/internal/domain/recommend"
)

var positionCmd = &cobra.Command{
	Use:     "position [target-id]",
	Aliases: []string{"altaz"},
	Short:   "Show where a target is in the sky",
	Long: `Show the altitude and azimuth of a catalog target, or of an ad-hoc
position given with --ra and --dec, at --time (default now).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := targetRef(cmd, args)
		if err != nil {
			return err
		}
		resp, err := current.planner.Position(cmd.Context(), planner.PositionRequest{
			Observer: current.observer,
			Target:   ref,
			Time:     current.at,
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return current.printJSON(resp)
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Fprintf(current.out, "%s (%s)\n", bold(resp.Target.Name), resp.Target.Type)
		fmt.Fprintf(current.out, "  RA %s  Dec %s\n", resp.RAText, resp.DecText)
		fmt.Fprintf(current.out, "  %s\n", resp.Time.Format(time.RFC3339))
		fmt.Fprintf(current.out, "  Altitude %6.2f°  Azimuth %6.2f° %s\n", resp.Position.Altitude, resp.Position.Azimuth, resp.Compass)
		if resp.AboveHorizon {
			color.New(color.FgGreen).Fprintf(current.out, "  Above horizon (floor %.1f°)\n", resp.HorizonAltitude)
		} else {
			color.New(color.FgRed).Fprintf(current.out, "  Below horizon (floor %.1f°)\n", resp.HorizonAltitude)
		}
		return nil
	},
}

var windowCmd = &cobra.Command{
	Use:   "window [target-id]",
	Short: "Show tonight's visibility window for a target",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := targetRef(cmd, args)
		if err != nil {
			return err
		}
		req := planner.WindowRequest{Observer: current.observer, Target: ref, Now: current.at}
		if cmd.Flags().Changed("min-alt") {
			minAlt, _ := cmd.Flags().GetFloat64("min-alt")
			req.MinAltitude = &minAlt
		}
		resp, err := current.planner.Window(cmd.Context(), req)
		if err != nil {
			return err
		}
		if flagJSON {
			return current.printJSON(resp)
		}

		bold := color.New(color.Bold).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintf(current.out, "%s above %.0f° tonight (%s to %s)\n",
			bold(resp.Target.Name), resp.MinAltitude, clock(resp.Night.Start), clock(resp.Night.End))
		if !resp.Window.Visible() {
			color.New(color.FgRed).Fprintln(current.out, "  Not visible tonight")
			return nil
		}
		fmt.Fprintf(current.out, "  From    %s\n", cyan(clock(*resp.Window.Start)))
		fmt.Fprintf(current.out, "  Until   %s\n", cyan(clock(*resp.Window.End)))
		fmt.Fprintf(current.out, "  Hours   %.1f\n", resp.Window.DurationHours)
		if resp.Window.OptimalTime != nil {
			fmt.Fprintf(current.out, "  Best    %s at %.1f°\n", clock(*resp.Window.OptimalTime), resp.Window.PeakAltitude)
		}
		if resp.Window.RisesBeforeScan {
			fmt.Fprintln(current.out, "  Already up at dusk")
		}
		if resp.Window.SetsAfterScan {
			fmt.Fprintln(current.out, "  Still up at dawn")
		}
		return nil
	},
}

var seriesCmd = &cobra.Command{
	Use:   "series [target-id]",
	Short: "Print tonight's altitude chart for a target",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := targetRef(cmd, args)
		if err != nil {
			return err
		}
		resp, err := current.planner.Series(cmd.Context(), planner.SeriesRequest{
			Observer: current.observer,
			Target:   ref,
			Now:      current.at,
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return current.printJSON(resp)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(current.out, "%s\n", color.New(color.Bold).Sprint(resp.Target.Name))
		for i, pt := range resp.Series.Points {
			bar := altitudeBar(pt.RawAltitude)
			if pt.IsIdeal {
				bar = green(bar)
			}
			fmt.Fprintf(current.out, "  %s %6.1f° %-3s floor %4.1f° %s\n",
				clock(pt.Time), pt.RawAltitude, pt.Compass, resp.Series.HorizonFloor[i], bar)
		}
		return nil
	},
}

var moonCmd = &cobra.Command{
	Use:   "moon",
	Short: "Show the Moon's phase and position",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := current.planner.Moon(cmd.Context(), planner.SkyRequest{Observer: current.observer, Time: current.at})
		if err != nil {
			return err
		}
		if flagJSON {
			return current.printJSON(resp)
		}
		m := resp.Moon
		fmt.Fprintf(current.out, "%s, %.0f%% illuminated, %.1f days old\n",
			color.New(color.Bold).Sprint(m.PhaseName), m.Illumination*100, m.Age)
		fmt.Fprintf(current.out, "  Altitude %6.2f°  Azimuth %6.2f° %s\n", m.Position.Altitude, m.Position.Azimuth, resp.Compass)
		fmt.Fprintf(current.out, "  Rise %s  Set %s\n", optionalClock(m.Rise), optionalClock(m.Set))
		return nil
	},
}

var sunCmd = &cobra.Command{
	Use:   "sun",
	Short: "Show twilight times and the dark interval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := current.planner.Sun(cmd.Context(), planner.SkyRequest{Observer: current.observer, Time: current.at})
		if err != nil {
			return err
		}
		if flagJSON {
			return current.printJSON(resp)
		}
		e := resp.Events
		fmt.Fprintf(current.out, "Sun altitude %.1f°\n", resp.Sun.Altitude)
		rows := []struct {
			label      string
			dusk, dawn *time.Time
		}{
			{"Sunset/rise", e.Sunset, e.Sunrise},
			{"Civil", e.CivilDusk, e.CivilDawn},
			{"Nautical", e.NauticalDusk, e.NauticalDawn},
			{"Astronomical", e.AstronomicalDusk, e.AstronomicalDawn},
		}
		for _, r := range rows {
			fmt.Fprintf(current.out, "  %-13s %s  %s\n", r.label, optionalClock(r.dusk), optionalClock(r.dawn))
		}
		if resp.DarkFrom != nil && resp.DarkTo != nil {
			color.New(color.FgCyan).Fprintf(current.out, "  Dark from %s to %s\n", clock(*resp.DarkFrom), clock(*resp.DarkTo))
		} else {
			color.New(color.FgYellow).Fprintln(current.out, "  No astronomical darkness tonight")
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{positionCmd, windowCmd, seriesCmd} {
		c.Flags().String("ra", "", "Ad-hoc right ascension, decimal hours or sexagesimal")
		c.Flags().String("dec", "", "Ad-hoc declination, decimal degrees or sexagesimal")
		c.Flags().String("name", "", "Label for an ad-hoc target")
	}
	windowCmd.Flags().Float64("min-alt", recommend.DefaultMinAltitude, "Minimum altitude in degrees")

	rootCmd.AddCommand(positionCmd, windowCmd, seriesCmd, moonCmd, sunCmd)
}

// targetRef builds a planner reference from a positional ID or --ra/--dec.
func targetRef(cmd *cobra.Command, args []string) (planner.TargetRef, error) {
	ra, _ := cmd.Flags().GetString("ra")
	dec, _ := cmd.Flags().GetString("dec")
	name, _ := cmd.Flags().GetString("name")
	ref := planner.TargetRef{Name: name, RA: ra, Dec: dec}
	if len(args) == 1 {
		ref.ID = args[0]
	}
	if ref.ID == "" && (ra == "" || dec == "") {
		return ref, fmt.Errorf("give a target id or both --ra and --dec")
	}
	return ref, nil
}

func clock(t time.Time) string {
	return t.Format("Mon 15:04 MST")
}

func optionalClock(t *time.Time) string {
	if t == nil {
		return "--"
	}
	return clock(*t)
}

// altitudeBar renders one character per five degrees above the horizon.
func altitudeBar(alt float64) string {
	if alt <= 0 {
		return ""
	}
	return strings.Repeat("#", int(alt/5)+1)
}
