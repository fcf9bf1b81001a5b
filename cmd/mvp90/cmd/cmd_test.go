package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebenmerlin/MVP90/internal/domain/insight"
	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	insightservice "github.com/thebenmerlin/MVP90/internal/service/insight"
	"github.com/thebenmerlin/MVP90/internal/service/signals"
)

type fakeSignals struct {
	list []startup.Signal
}

func (f *fakeSignals) ListSignals(_ context.Context) []startup.Signal {
	out := make([]startup.Signal, len(f.list))
	copy(out, f.list)
	return out
}

func (f *fakeSignals) GetSignal(_ context.Context, id int) (startup.Signal, error) {
	for _, s := range f.list {
		if s.ID == id {
			return s, nil
		}
	}
	return startup.Signal{}, startup.ErrEntityNotFound
}

func (f *fakeSignals) Metric(_ context.Context, id int, name string) (metric.Metric, bool, error) {
	if _, err := f.GetSignal(context.Background(), id); err != nil {
		return metric.Metric{}, false, err
	}
	if name != metric.GitHubStarsCount {
		return metric.Metric{}, false, nil
	}
	return metric.Metric{
		Name:       name,
		Value:      4321,
		Source:     "GitHub API",
		Provenance: metric.ProvenanceLive,
	}, true, nil
}

func (f *fakeSignals) CacheStatus() signals.CacheStatus {
	return signals.CacheStatus{Cached: 1, Total: 2, Hits: 3, Misses: 4}
}

func setupApp(t *testing.T) {
	t.Helper()

	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	catalog, err := insightservice.Load(insightservice.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	a := &app{
		signals: &fakeSignals{list: []startup.Signal{
			{ID: 1, Name: "NeuroLink AI", Industry: "AI/ML", Region: "India", NoveltyScore: 9, IndiaMarketFit: 6, EstimatedBuildCost: 150000, ActionTag: startup.ActionBuild},
			{ID: 2, Name: "GreenChain", Industry: "Climate", Region: "Europe", NoveltyScore: 6, IndiaMarketFit: 8, EstimatedBuildCost: 45000, ActionTag: startup.ActionScout},
		}},
		catalog:      catalog,
		integrations: map[string]bool{"github": true, "producthunt": false, "website": false},
	}

	prev := newApp
	newApp = func() (*app, error) { return a, nil }
	t.Cleanup(func() { newApp = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	asJSON, verbose, cfgFile = false, false, ""
	signalsFlags.industry, signalsFlags.region, signalsFlags.source = "", "", ""
	signalsFlags.actionTag, signalsFlags.sortBy = "", ""
	signalsFlags.minNovelty = 0
	metricFlags.entity = 0
	breakdownFlags.score = insight.DefaultScoreName

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestFormatBuildCost(t *testing.T) {
	assert.Equal(t, "$0", formatBuildCost(0))
	assert.Equal(t, "$950", formatBuildCost(950))
	assert.Equal(t, "$45,000", formatBuildCost(45000))
	assert.Equal(t, "$1,250,000", formatBuildCost(1250000))
	assert.Equal(t, "-$2,500", formatBuildCost(-2500))
}

func TestSignalsCommand(t *testing.T) {
	setupApp(t)

	out, err := run(t, "signals")
	require.NoError(t, err)
	assert.Contains(t, out, "NeuroLink AI")
	assert.Contains(t, out, "$150,000")
	assert.Contains(t, out, "2 signals")

	out, err = run(t, "signals", "--industry", "Climate")
	require.NoError(t, err)
	assert.NotContains(t, out, "NeuroLink AI")
	assert.Contains(t, out, "1 signals")

	out, err = run(t, "signals", "--sort", "indiaMarketFit", "--json")
	require.NoError(t, err)
	var list []startup.Signal
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].ID)
}

func TestSignalsCommand_BadFlags(t *testing.T) {
	setupApp(t)

	_, err := run(t, "signals", "--sort", "name")
	assert.ErrorIs(t, err, signals.ErrInvalidSort)

	_, err = run(t, "signals", "--action", "Hold")
	assert.ErrorContains(t, err, "invalid action tag")
}

func TestSignalCommand(t *testing.T) {
	setupApp(t)

	out, err := run(t, "signal", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 GreenChain")
	assert.Contains(t, out, "$45,000")

	_, err = run(t, "signal", "99")
	assert.ErrorIs(t, err, startup.ErrEntityNotFound)

	_, err = run(t, "signal", "abc")
	assert.ErrorContains(t, err, "invalid id")
}

func TestMetricCommand(t *testing.T) {
	setupApp(t)

	out, err := run(t, "metric", metric.GitHubActivityLevel)
	require.NoError(t, err)
	assert.Contains(t, out, "847 commits")

	out, err = run(t, "metric", metric.GitHubStarsCount, "--entity", "1", "--json")
	require.NoError(t, err)
	var m metric.Metric
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.EqualValues(t, 4321, m.Value)
	assert.NotEmpty(t, m.Description)

	_, err = run(t, "metric", "unknown_metric")
	assert.ErrorIs(t, err, metric.ErrMetricNotFound)
}

func TestBreakdownCommand(t *testing.T) {
	setupApp(t)

	out, err := run(t, "breakdown", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "NeuroLink AI: mvp90_overall_score = 8.70 / 10 (p92)")
	assert.Contains(t, out, "Novelty Score")

	out, err = run(t, "breakdown", "7", "--score", "originality_score", "--json")
	require.NoError(t, err)
	var b insight.ScoreBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, 7, b.EntityID)
	assert.Equal(t, "originality_score", b.ScoreName)
	assert.Len(t, b.Components, 3)
}

func TestStatusCommand(t *testing.T) {
	setupApp(t)

	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Regexp(t, `github\s+enabled`, out)
	assert.Regexp(t, `producthunt\s+disabled`, out)
	assert.Contains(t, out, "Cache: 1/2 cached, 3 hits, 4 misses")
}

func TestRootCommand_MissingEnvFile(t *testing.T) {
	setupApp(t)

	_, err := run(t, "status", "--config", t.TempDir()+"/missing.env")
	assert.ErrorContains(t, err, "missing.env")
}
