package signals

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
)

// =============================================================================
// Test doubles
// =============================================================================

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// minRandomizer always picks the low end of a range
type minRandomizer struct{}

func (minRandomizer) IntN(int) int { return 0 }

// maxRandomizer always picks the high end of a range
type maxRandomizer struct{}

func (maxRandomizer) IntN(n int) int { return n - 1 }

// stepRandomizer returns 0, 1, 2, ... modulo n
type stepRandomizer struct {
	mu   sync.Mutex
	next int
}

func (r *stepRandomizer) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.next % n
	r.next++
	return v
}

// countingSource counts Fetch calls and optionally blocks until released
type countingSource struct {
	StaticSource
	calls   atomic.Int32
	release chan struct{}
}

func (s *countingSource) Fetch(ctx context.Context, e startup.Entity) Result {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	return s.StaticSource.Fetch(ctx, e)
}

type panicSource struct{ StaticSource }

func (panicSource) Fetch(context.Context, startup.Entity) Result {
	panic("upstream exploded")
}

type disabledSource struct {
	StaticSource
	called atomic.Bool
}

func (d *disabledSource) Enabled() bool { return false }

func (d *disabledSource) Fetch(ctx context.Context, e startup.Entity) Result {
	d.called.Store(true)
	return d.StaticSource.Fetch(ctx, e)
}

type recordingTracker struct {
	mu    sync.Mutex
	names []string
}

func (t *recordingTracker) UpdateStartupMetric(_ context.Context, _ int, name string, _ interface{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names = append(t.names, name)
	return true
}

func testEntities(t *testing.T) []startup.Entity {
	t.Helper()
	entities, err := LoadEntities("")
	require.NoError(t, err)
	return entities
}

func newTestService(t *testing.T, sources []Source, opts ...Option) (*Service, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewService(Config{TTL: DefaultTTL, Entities: testEntities(t)}, sources, NewCache(), opts...), clock
}

// =============================================================================
// Tests
// =============================================================================

func TestService_PlaceholdersWhenNoSources(t *testing.T) {
	svc, _ := newTestService(t, nil, WithRandomizer(minRandomizer{}))

	sig, err := svc.GetSignal(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "NeuroLink AI", sig.Name)
	assert.Equal(t, 6, sig.NoveltyScore)
	assert.Equal(t, 1, sig.CloneabilityScore)
	assert.Equal(t, 6, sig.IndiaMarketFit) // from catalog
	assert.Equal(t, 100, sig.TractionSignals.GitHubStars)
	assert.Equal(t, 500, sig.TractionSignals.TwitterFollowers)
	assert.Equal(t, 3, sig.TractionSignals.SubstackPosts)
	assert.Equal(t, 0, sig.TractionSignals.ProductHuntVotes)
	assert.Equal(t, "1 min ago", sig.LastUpdated)
	assert.False(t, sig.RealTimeData)
	assert.Equal(t, "octocat", sig.GitHubUsername)
}

func TestService_PlaceholderUpperBounds(t *testing.T) {
	svc, _ := newTestService(t, nil, WithRandomizer(maxRandomizer{}))

	sig, err := svc.GetSignal(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 9, sig.NoveltyScore)
	assert.Equal(t, 8, sig.CloneabilityScore)
	assert.Equal(t, 2000, sig.TractionSignals.GitHubStars)
	assert.Equal(t, 10000, sig.TractionSignals.TwitterFollowers)
	assert.Equal(t, 20, sig.TractionSignals.SubstackPosts)
	assert.Equal(t, "60 min ago", sig.LastUpdated)
}

func TestService_IdempotentWithinTTL(t *testing.T) {
	svc, clock := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.GetSignal(ctx, 3)
	require.NoError(t, err)

	clock.Advance(DefaultTTL - time.Second)

	second, err := svc.GetSignal(ctx, 3)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("signal changed within TTL (-first +second):\n%s", diff)
	}

	status := svc.CacheStatus()
	assert.Equal(t, 1, status.Cached)
	assert.Equal(t, 5, status.Total)
	assert.Equal(t, int64(1), status.Hits)
	assert.Equal(t, int64(1), status.Misses)
}

func TestService_RecomputesAfterExpiry(t *testing.T) {
	src := &countingSource{StaticSource: StaticSource{Label: "gh"}}
	svc, clock := newTestService(t, []Source{src}, WithRandomizer(&stepRandomizer{}))
	ctx := context.Background()

	first, err := svc.GetSignal(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.calls.Load())

	clock.Advance(DefaultTTL)
	assert.Equal(t, 0, svc.CacheStatus().Cached)

	second, err := svc.GetSignal(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())

	assert.True(t, first.RealTimeData)
	assert.True(t, second.RealTimeData)
	assert.NotEqual(t, first.TractionSignals.TwitterFollowers, second.TractionSignals.TwitterFollowers)
}

func TestService_LiveEnrichment(t *testing.T) {
	now := newFakeClock().Now()
	src := &StaticSource{
		Label: SourceGitHub,
		Enrichment: Enrichment{
			Novelty:      intPtr(3),
			Cloneability: intPtr(12), // clamped
			GitHubStars:  intPtr(4242),
			Metrics: []metric.Metric{
				{Name: metric.GitHubActivityLevel, Value: 77, Type: metric.TypeNumber, Timestamp: now, Source: "GitHub API", Provenance: metric.ProvenanceLive},
			},
		},
	}
	tracker := &recordingTracker{}
	svc, _ := newTestService(t, []Source{src}, WithRandomizer(minRandomizer{}), WithTracker(tracker))
	ctx := context.Background()

	sig, err := svc.GetSignal(ctx, 1)
	require.NoError(t, err)

	assert.True(t, sig.RealTimeData)
	assert.Equal(t, "just now", sig.LastUpdated)
	assert.Equal(t, 3, sig.NoveltyScore)
	assert.Equal(t, startup.MaxScore, sig.CloneabilityScore)
	assert.Equal(t, 4242, sig.TractionSignals.GitHubStars)

	m, found, err := svc.Metric(ctx, 1, metric.GitHubActivityLevel)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 77, m.Value)

	_, found, err = svc.Metric(ctx, 1, metric.ProductHuntUpvotes)
	require.NoError(t, err)
	assert.False(t, found)

	assert.ElementsMatch(t, []string{"novelty_score", "cloneability_score", metric.GitHubActivityLevel}, tracker.names)
}

func TestService_MergePrecedence(t *testing.T) {
	github := &StaticSource{Label: SourceGitHub, Enrichment: Enrichment{Novelty: intPtr(2)}}
	ph := &StaticSource{Label: SourceProductHunt, Enrichment: Enrichment{Novelty: intPtr(9), ProductHuntVotes: intPtr(321)}}

	t.Run("first source wins", func(t *testing.T) {
		svc, _ := newTestService(t, []Source{github, ph}, WithRandomizer(minRandomizer{}))

		sig, err := svc.GetSignal(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 2, sig.NoveltyScore)
		assert.Equal(t, 321, sig.TractionSignals.ProductHuntVotes)
	})

	t.Run("later source fills a failed one", func(t *testing.T) {
		broken := &StaticSource{Label: SourceGitHub, Err: errors.New("502")}
		svc, _ := newTestService(t, []Source{broken, ph}, WithRandomizer(minRandomizer{}))

		sig, err := svc.GetSignal(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 9, sig.NoveltyScore)
		assert.Equal(t, 1, sig.CloneabilityScore) // placeholder
		assert.True(t, sig.RealTimeData)
	})

	t.Run("all sources failed", func(t *testing.T) {
		broken := &StaticSource{Label: SourceGitHub, Err: errors.New("timeout")}
		svc, _ := newTestService(t, []Source{broken}, WithRandomizer(minRandomizer{}))

		sig, err := svc.GetSignal(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, sig.RealTimeData)
		assert.Equal(t, 6, sig.NoveltyScore)
	})
}

func TestService_SkipsDisabledAndInapplicableSources(t *testing.T) {
	disabled := &disabledSource{StaticSource: StaticSource{Enrichment: Enrichment{Novelty: intPtr(1)}}}
	onlyTwo := &StaticSource{Only: map[int]bool{2: true}, Enrichment: Enrichment{Novelty: intPtr(4)}}

	svc, _ := newTestService(t, []Source{disabled, onlyTwo}, WithRandomizer(minRandomizer{}))
	ctx := context.Background()

	one, err := svc.GetSignal(ctx, 1)
	require.NoError(t, err)
	assert.False(t, one.RealTimeData)
	assert.Equal(t, 6, one.NoveltyScore)

	two, err := svc.GetSignal(ctx, 2)
	require.NoError(t, err)
	assert.True(t, two.RealTimeData)
	assert.Equal(t, 4, two.NoveltyScore)

	assert.False(t, disabled.called.Load())
}

func TestService_PanicFallsBack(t *testing.T) {
	svc, _ := newTestService(t, []Source{&panicSource{}}, WithRandomizer(minRandomizer{}))

	sig, err := svc.GetSignal(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "NeuroLink AI", sig.Name)
	assert.Equal(t, 5, sig.NoveltyScore)
	assert.False(t, sig.RealTimeData)
	assert.Empty(t, sig.GitHubUsername)
	assert.Equal(t, "1 min ago", sig.LastUpdated)
}

func TestService_UnknownEntity(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.GetSignal(ctx, 99)
	assert.ErrorIs(t, err, startup.ErrEntityNotFound)

	_, err = svc.Refresh(ctx, 99)
	assert.ErrorIs(t, err, startup.ErrEntityNotFound)

	_, _, err = svc.Metric(ctx, 99, metric.GitHubStarsCount)
	assert.ErrorIs(t, err, startup.ErrEntityNotFound)
}

func TestService_ListSignals(t *testing.T) {
	svc, _ := newTestService(t, nil)

	list := svc.ListSignals(context.Background())
	require.Len(t, list, 5)

	wantNames := []string{"NeuroLink AI", "CropSense", "QuantumSecure", "MediChain", "EcoLogistics"}
	for i, s := range list {
		assert.Equal(t, wantNames[i], s.Name)
		assert.Equal(t, i+1, s.ID)
		assert.GreaterOrEqual(t, s.NoveltyScore, 6)
		assert.LessOrEqual(t, s.NoveltyScore, 9)
		assert.True(t, s.ActionTag.Valid())
	}

	assert.Equal(t, 5, svc.CacheStatus().Cached)
}

func TestService_RefreshAndClear(t *testing.T) {
	src := &countingSource{StaticSource: StaticSource{}}
	svc, _ := newTestService(t, []Source{src})
	ctx := context.Background()

	_, err := svc.GetSignal(ctx, 1)
	require.NoError(t, err)
	_, err = svc.GetSignal(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.calls.Load())

	_, err = svc.Refresh(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())

	svc.ClearCache()
	assert.Equal(t, 0, svc.CacheStatus().Cached)

	svc.RefreshAll(ctx)
	assert.EqualValues(t, 7, src.calls.Load())
	assert.Equal(t, 5, svc.CacheStatus().Cached)
}

func TestService_CoalescesConcurrentMisses(t *testing.T) {
	src := &countingSource{StaticSource: StaticSource{}, release: make(chan struct{})}
	svc, _ := newTestService(t, []Source{src})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetSignal(ctx, 4)
			assert.NoError(t, err)
		}()
	}

	// let the goroutines pile up behind the first fetch
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.EqualValues(t, 1, src.calls.Load())
}

func TestService_CanceledCallerStillCaches(t *testing.T) {
	src := &countingSource{StaticSource: StaticSource{Enrichment: Enrichment{Novelty: intPtr(7)}}}
	svc, _ := newTestService(t, []Source{src})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sig, err := svc.GetSignal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, sig.NoveltyScore)
	assert.Equal(t, 1, svc.CacheStatus().Cached)
}
