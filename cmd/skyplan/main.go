// Command skyplan answers sky questions from the terminal using the built-in
// catalog: where a target is, when it is up tonight, and what to point at.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	"github.com/yanqian/skyplan/internal/domain/planner"
	"github.com/yanqian/skyplan/internal/domain/recommend"
	"github.com/yanqian/skyplan/internal/infra/catalogrepo"
	"github.com/yanqian/skyplan/internal/infra/observerrepo"
	"github.com/yanqian/skyplan/pkg/logger"
)

var (
	flagLat         string
	flagLon         string
	flagTimezone    string
	flagHorizonFile string
	flagCatalogFile string
	flagTime        string
	flagJSON        bool
	flagVerbose     bool
)

// app holds the services a command runs against. It is built once per
// invocation in the root pre-run hook.
type app struct {
	catalog   catalog.Service
	planner   planner.Service
	recommend recommend.Service
	observer  observer.Ref
	at        *time.Time
	out       io.Writer
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "skyplan",
	Short: "Plan tonight's deep-sky observing",
	Long: `skyplan computes target positions, visibility windows and ranked
recommendations for an observing site.

The site comes from --lat/--lon (or SKYPLAN_LAT/SKYPLAN_LON), optionally with
--tz and a --horizon file of "azimuth altitude" lines.

Examples:
  skyplan position M42 --lat 41.88 --lon -87.63 --tz America/Chicago
  skyplan window M31 --lat 41.88 --lon -87.63
  skyplan recommend --lat -24.6 --lon -70.4 --cloud 20 --max 10`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagLat, "lat", "", "Observer latitude in degrees, north positive (env SKYPLAN_LAT)")
	flags.StringVar(&flagLon, "lon", "", "Observer longitude in degrees, east positive (env SKYPLAN_LON)")
	flags.StringVar(&flagTimezone, "tz", "", "Observer IANA timezone (env SKYPLAN_TZ)")
	flags.StringVar(&flagHorizonFile, "horizon", "", "Horizon profile file with one \"azimuth altitude\" pair per line")
	flags.StringVar(&flagCatalogFile, "catalog", "", "Extra catalog CSV merged over the built-in catalog")
	flags.StringVar(&flagTime, "time", "", "Evaluate at this RFC3339 instant instead of now")
	flags.BoolVar(&flagJSON, "json", false, "Print machine readable JSON")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "Log diagnostics to stderr")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, out io.Writer) (*app, error) {
	level := "error"
	if flagVerbose {
		level = "debug"
	}
	log := logger.NewWithWriter(os.Stderr, level)

	repo := catalogrepo.NewBuiltinRepository()
	catalogSvc := catalog.NewService(repo, log)
	if flagCatalogFile != "" {
		if err := importCatalog(ctx, catalogSvc, flagCatalogFile, log); err != nil {
			return nil, err
		}
	}

	ref, err := observerFromFlags()
	if err != nil {
		return nil, err
	}
	at, err := parseTimeFlag(flagTime)
	if err != nil {
		return nil, err
	}

	observerSvc := observer.NewService(observerrepo.NewMemoryRepository(), nil, log)
	registry := recommend.NewRegistry(recommend.NewVisibilityRecommender(nil, 0, log))
	recCfg := recommend.Config{
		DefaultRecommender: recommend.DefaultRecommender,
		MinAltitude:        recommend.DefaultMinAltitude,
		MaxTargets:         recommend.DefaultMaxTargets,
		Parallelism:        8,
	}
	return &app{
		catalog:   catalogSvc,
		planner:   planner.NewService(planner.Config{MinAltitude: recommend.DefaultMinAltitude}, repo, observerSvc, log),
		recommend: recommend.NewService(recCfg, repo, observerSvc, registry, log),
		observer:  ref,
		at:        at,
		out:       out,
	}, nil
}

func importCatalog(ctx context.Context, svc catalog.Service, path string, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	result, err := svc.Import(ctx, f)
	if err != nil {
		return err
	}
	log.Debug("catalog merged", "path", path, "stored", result.Stored, "skipped", result.Skipped)
	return nil
}

func observerFromFlags() (observer.Ref, error) {
	ref := observer.Ref{Name: "cli", Timezone: firstNonEmpty(flagTimezone, os.Getenv("SKYPLAN_TZ"))}
	if raw := firstNonEmpty(flagLat, os.Getenv("SKYPLAN_LAT")); raw != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return ref, fmt.Errorf("invalid latitude %q", raw)
		}
		ref.Latitude = &v
	}
	if raw := firstNonEmpty(flagLon, os.Getenv("SKYPLAN_LON")); raw != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return ref, fmt.Errorf("invalid longitude %q", raw)
		}
		ref.Longitude = &v
	}
	if flagHorizonFile != "" {
		f, err := os.Open(flagHorizonFile)
		if err != nil {
			return ref, fmt.Errorf("open horizon: %w", err)
		}
		defer f.Close()
		ref.Horizon = astro.ParseHorizonProfile(f)
	}
	return ref, nil
}

func parseTimeFlag(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --time %q: want RFC3339", raw)
	}
	return &t, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
