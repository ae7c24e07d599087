package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/planner"
	"github.com/yanqian/skyplan/internal/domain/recommend"
)

var chicago = []string{"--lat", "41.8781", "--lon", "-87.6298", "--tz", "America/Chicago"}

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SKYPLAN_LAT", "")
	t.Setenv("SKYPLAN_LON", "")
	t.Setenv("SKYPLAN_TZ", "")
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestPositionJSON(t *testing.T) {
	args := append([]string{"position", "M42", "--time", "2024-01-16T04:00:00Z", "--json"}, chicago...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	var resp planner.PositionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "M42", resp.Target.ID)
	require.Greater(t, resp.Position.Altitude, 30.0)
	require.True(t, resp.AboveHorizon)
}

func TestPositionAdHocTarget(t *testing.T) {
	args := append([]string{"altaz", "--ra", "05 35 17.3", "--dec", "-05 23 28", "--name", "Orion", "--time", "2024-01-16T04:00:00Z"}, chicago...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "Orion")
	require.Contains(t, out, "Above horizon")
}

func TestPositionRequiresTarget(t *testing.T) {
	_, err := execute(t, append([]string{"position"}, chicago...)...)
	require.ErrorContains(t, err, "--ra and --dec")
}

func TestPositionRequiresObserver(t *testing.T) {
	_, err := execute(t, "position", "M42")
	require.ErrorContains(t, err, "latitude")
}

func TestObserverFromEnvironment(t *testing.T) {
	resetFlags(rootCmd)
	t.Setenv("SKYPLAN_LAT", "-24.6")
	t.Setenv("SKYPLAN_LON", "-70.4")
	ref, err := observerFromFlags()
	require.NoError(t, err)
	require.InDelta(t, -24.6, *ref.Latitude, 1e-9)
	require.InDelta(t, -70.4, *ref.Longitude, 1e-9)

	t.Setenv("SKYPLAN_LAT", "north")
	_, err = observerFromFlags()
	require.Error(t, err)
}

func TestWindowText(t *testing.T) {
	args := append([]string{"window", "M42", "--time", "2024-01-16T12:00:00-06:00"}, chicago...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "From")
	require.Contains(t, out, "Hours")
}

func TestSeriesCoversNight(t *testing.T) {
	args := append([]string{"series", "M31", "--time", "2024-10-01T12:00:00-05:00", "--json"}, chicago...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	var resp planner.SeriesResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Series.Points, 57)
	require.NotNil(t, resp.Peak)
}

func TestSunAndMoon(t *testing.T) {
	out, err := execute(t, append([]string{"sun", "--time", "2024-01-16T12:00:00-06:00"}, chicago...)...)
	require.NoError(t, err)
	require.Contains(t, out, "Astronomical")
	require.Contains(t, out, "Dark from")

	out, err = execute(t, append([]string{"moon", "--time", "2024-01-16T12:00:00-06:00"}, chicago...)...)
	require.NoError(t, err)
	require.Contains(t, out, "illuminated")
}

func TestRecommendJSON(t *testing.T) {
	args := append([]string{"recommend", "--time", "2024-01-16T12:00:00-06:00", "--max", "3", "--cloud", "10", "--json"}, chicago...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	var resp recommend.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, recommend.DefaultRecommender, resp.Recommender)
	require.NotEmpty(t, resp.Targets)
	require.LessOrEqual(t, len(resp.Targets), 3)
	for i := 1; i < len(resp.Targets); i++ {
		require.GreaterOrEqual(t, resp.Targets[i-1].Score, resp.Targets[i].Score)
	}
}

func TestRecommendWithoutTimezoneUsesLongitudeZone(t *testing.T) {
	out, err := execute(t, "recommend", "--lat", "-24.6", "--lon", "-70.4", "--time", "2024-06-15T02:00:00Z", "--json")
	require.NoError(t, err)

	var resp recommend.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "2024-06-14T18:00:00-05:00", resp.Night.Start.Format(time.RFC3339))
}

func TestRecommendRejectsBadWeather(t *testing.T) {
	args := append([]string{"recommend", "--cloud", "150"}, chicago...)
	_, err := execute(t, args...)
	require.Error(t, err)
}

func TestTargetsFilterAndNear(t *testing.T) {
	out, err := execute(t, "targets", "--type", "Galaxy", "--json")
	require.NoError(t, err)
	var targets []catalog.Target
	require.NoError(t, json.Unmarshal([]byte(out), &targets))
	require.NotEmpty(t, targets)
	for _, tg := range targets {
		require.Contains(t, tg.Type, "Galaxy")
	}

	out, err = execute(t, "targets", "--near", "05 35 17.3,-05 23 28", "--radius", "1", "--json")
	require.NoError(t, err)
	var matches []catalog.Match
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.NotEmpty(t, matches)
	require.Equal(t, "M42", matches[0].Target.ID)

	_, err = execute(t, "targets", "--near", "5.5")
	require.Error(t, err)
}

func TestCatalogFileMergesIntoBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.csv")
	doc := "id,name,ra,dec,type,mag\nsh2-155,Sh2-155,22 56 48,+62 37 00,,7.7\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "targets", "--catalog", path, "--type", "Emission")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "sh2-155"), out)
}

func TestRecommendersList(t *testing.T) {
	out, err := execute(t, "recommenders")
	require.NoError(t, err)
	require.Equal(t, "visibility\n", out)
}
