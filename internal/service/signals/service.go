package signals

import (
	"context"
	"fmt"
	"math/rand"
	"runtime/debug"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL cache lifetime of a composed signal
	DefaultTTL = 5 * time.Minute

	defaultConcurrency = 4
)

// Placeholder ranges (inclusive) used when no upstream supplied a value
var (
	noveltyRange         = [2]int{6, 9}
	panicNoveltyRange    = [2]int{5, 9}
	cloneabilityRange    = [2]int{1, 8}
	indiaMarketFitRange  = [2]int{5, 9}
	githubStarsRange     = [2]int{100, 2000}
	twitterFollowerRange = [2]int{500, 10000}
	substackPostRange    = [2]int{3, 20}
	minutesAgoRange      = [2]int{1, 60}
)

// Randomizer source of placeholder values
type Randomizer interface {
	IntN(n int) int
}

type defaultRandomizer struct{}

func (defaultRandomizer) IntN(n int) int { return rand.Intn(n) }

// Tracker persists live metric values. Failures are handled by the tracker.
type Tracker interface {
	UpdateStartupMetric(ctx context.Context, startupID int, name string, value interface{}) bool
}

// Config service settings
type Config struct {
	TTL      time.Duration
	Entities []startup.Entity

	// Concurrency bounds entity fan-out in ListSignals
	Concurrency int
}

// Option customizes a Service
type Option func(*Service)

// WithClock injects the time source
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.now = clock }
}

// WithRandomizer injects the placeholder generator
func WithRandomizer(r Randomizer) Option {
	return func(s *Service) { s.rnd = r }
}

// WithTracker persists live novelty, cloneability and activity
func WithTracker(t Tracker) Option {
	return func(s *Service) { s.tracker = t }
}

// Service composes StartupSignals from the catalog, upstream sources and placeholders
type Service struct {
	ttl         time.Duration
	concurrency int
	entities    []startup.Entity
	byID        map[int]startup.Entity

	sources []Source
	cache   *Cache
	group   singleflight.Group

	now     func() time.Time
	rnd     Randomizer
	tracker Tracker
}

// NewService creates the aggregation service. Source order is merge precedence.
func NewService(cfg Config, sources []Source, cache *Cache, opts ...Option) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cache == nil {
		cache = NewCache()
	}

	s := &Service{
		ttl:         cfg.TTL,
		concurrency: cfg.Concurrency,
		entities:    cfg.Entities,
		byID:        make(map[int]startup.Entity, len(cfg.Entities)),
		sources:     sources,
		cache:       cache,
		now:         time.Now,
		rnd:         defaultRandomizer{},
	}
	for _, e := range cfg.Entities {
		s.byID[e.ID] = e
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ==============================================================================
// Public API
// ==============================================================================

// Entities returns the tracked entities in catalog order
func (s *Service) Entities() []startup.Entity {
	out := make([]startup.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Entity returns the static config of one tracked startup
func (s *Service) Entity(id int) (startup.Entity, error) {
	e, ok := s.byID[id]
	if !ok {
		return startup.Entity{}, fmt.Errorf("entity %d: %w", id, startup.ErrEntityNotFound)
	}
	return e, nil
}

// ListSignals returns one signal per tracked entity, in catalog order
func (s *Service) ListSignals(ctx context.Context) []startup.Signal {
	out := make([]startup.Signal, len(s.entities))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, e := range s.entities {
		i, e := i, e
		g.Go(func() error {
			out[i] = s.snapshot(ctx, e).Signal
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// GetSignal returns the signal for id
func (s *Service) GetSignal(ctx context.Context, id int) (startup.Signal, error) {
	e, err := s.Entity(id)
	if err != nil {
		return startup.Signal{}, err
	}
	return s.snapshot(ctx, e).Signal, nil
}

// Refresh evicts id and recomputes it
func (s *Service) Refresh(ctx context.Context, id int) (startup.Signal, error) {
	e, err := s.Entity(id)
	if err != nil {
		return startup.Signal{}, err
	}

	s.cache.Delete(id)
	return s.snapshot(ctx, e).Signal, nil
}

// RefreshAll evicts and recomputes every entity
func (s *Service) RefreshAll(ctx context.Context) []startup.Signal {
	for _, e := range s.entities {
		s.cache.Delete(e.ID)
	}
	return s.ListSignals(ctx)
}

// ClearCache drops every cached snapshot
func (s *Service) ClearCache() {
	s.cache.Clear()
	log.Info().Msg("Signal cache cleared")
}

// CacheStatus reports cache occupancy and counters
func (s *Service) CacheStatus() CacheStatus {
	return s.cache.Status(s.now(), len(s.entities))
}

// Metric returns the live metric derived for entity id, if any source produced it
func (s *Service) Metric(ctx context.Context, id int, name string) (metric.Metric, bool, error) {
	e, err := s.Entity(id)
	if err != nil {
		return metric.Metric{}, false, err
	}

	m, ok := s.snapshot(ctx, e).Metrics[name]
	return m, ok, nil
}

// ==============================================================================
// Pipeline
// ==============================================================================

// snapshot cache lookup, then a coalesced compute on miss
func (s *Service) snapshot(ctx context.Context, e startup.Entity) Snapshot {
	if snap, ok := s.cache.Get(e.ID, s.now()); ok {
		return snap
	}

	// the shared compute must not die with the first caller's request
	shared := context.WithoutCancel(ctx)

	v, _, _ := s.group.Do(strconv.Itoa(e.ID), func() (interface{}, error) {
		// a flight that finished between our miss and Do already filled it
		if snap, ok := s.cache.peek(e.ID, s.now()); ok {
			return snap, nil
		}
		snap := s.compute(shared, e)
		s.cache.Set(e.ID, snap, s.now().Add(s.ttl))
		return snap, nil
	})

	return v.(Snapshot).clone()
}

// compute fans out to the sources and merges their results.
// It always returns a full signal.
func (s *Service) compute(ctx context.Context, e startup.Entity) (snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Int("entity_id", e.ID).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Signal enrichment panicked, using fallback")
			snap = s.fallback(e)
		}
	}()

	results, panicked := s.fetchAll(ctx, e)
	if panicked {
		return s.fallback(e)
	}

	return s.merge(ctx, e, results)
}

// fetchAll runs every enabled, applicable source concurrently
func (s *Service) fetchAll(ctx context.Context, e startup.Entity) ([]Result, bool) {
	var applicable []Source
	for _, src := range s.sources {
		if src.Enabled() && src.Applies(e) {
			applicable = append(applicable, src)
		}
	}

	results := make([]Result, len(applicable))
	var panicked atomic.Bool

	g := new(errgroup.Group)
	for i, src := range applicable {
		i, src := i, src
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					panicked.Store(true)
					log.Error().
						Int("entity_id", e.ID).
						Str("source", src.Name()).
						Interface("panic", r).
						Msg("Source panicked")
					results[i] = failed(src.Name(), errSourcePanicked)
				}
			}()

			results[i] = src.Fetch(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	return results, panicked.Load()
}

// merge applies precedence (source order) per field, then fills placeholders
func (s *Service) merge(ctx context.Context, e startup.Entity, results []Result) Snapshot {
	var (
		novelty, cloneability, stars, votes *int
		live                                bool
	)
	metrics := make(map[string]metric.Metric)

	for _, r := range results {
		if r.Failed() {
			log.Warn().
				Err(r.Err).
				Int("entity_id", e.ID).
				Str("source", r.Source).
				Msg("Upstream unavailable, using placeholder")
			continue
		}
		live = true

		en := r.Enrichment
		novelty = firstSet(novelty, en.Novelty)
		cloneability = firstSet(cloneability, en.Cloneability)
		stars = firstSet(stars, en.GitHubStars)
		votes = firstSet(votes, en.ProductHuntVotes)

		for _, m := range en.Metrics {
			if _, exists := metrics[m.Name]; !exists {
				metrics[m.Name] = m
			}
		}
	}

	sig := e.BaseSignal()
	sig.NoveltyScore = startup.ClampScore(s.valueOr(novelty, noveltyRange))
	sig.CloneabilityScore = startup.ClampScore(s.valueOr(cloneability, cloneabilityRange))
	sig.IndiaMarketFit = s.indiaMarketFit(e)
	sig.TractionSignals = startup.TractionSignals{
		GitHubStars:      nonNegative(s.valueOr(stars, githubStarsRange)),
		TwitterFollowers: s.between(twitterFollowerRange),
		SubstackPosts:    s.between(substackPostRange),
	}
	if votes != nil {
		sig.TractionSignals.ProductHuntVotes = nonNegative(*votes)
	}
	sig.RealTimeData = live
	if live {
		sig.LastUpdated = "just now"
	} else {
		sig.LastUpdated = s.minutesAgo()
	}

	if live && s.tracker != nil {
		s.persist(ctx, sig, metrics)
	}

	return Snapshot{Signal: sig, Metrics: metrics}
}

// fallback signal used when enrichment panicked
func (s *Service) fallback(e startup.Entity) Snapshot {
	sig := e.BaseSignal()
	sig.GitHubUsername = ""
	sig.ProductHuntSlug = ""
	sig.WebsiteURL = ""

	sig.NoveltyScore = s.between(panicNoveltyRange)
	sig.CloneabilityScore = s.between(cloneabilityRange)
	sig.IndiaMarketFit = s.indiaMarketFit(e)
	sig.TractionSignals = startup.TractionSignals{
		GitHubStars:      s.between(githubStarsRange),
		TwitterFollowers: s.between(twitterFollowerRange),
		SubstackPosts:    s.between(substackPostRange),
	}
	sig.LastUpdated = s.minutesAgo()

	return Snapshot{Signal: sig, Metrics: map[string]metric.Metric{}}
}

// persist live values through the tracker
func (s *Service) persist(ctx context.Context, sig startup.Signal, metrics map[string]metric.Metric) {
	s.tracker.UpdateStartupMetric(ctx, sig.ID, "novelty_score", sig.NoveltyScore)
	s.tracker.UpdateStartupMetric(ctx, sig.ID, "cloneability_score", sig.CloneabilityScore)
	if m, ok := metrics[metric.GitHubActivityLevel]; ok {
		s.tracker.UpdateStartupMetric(ctx, sig.ID, metric.GitHubActivityLevel, m.Value)
	}
}

func (s *Service) indiaMarketFit(e startup.Entity) int {
	if e.IndiaMarketFit > 0 {
		return startup.ClampScore(e.IndiaMarketFit)
	}
	return s.between(indiaMarketFitRange)
}

func (s *Service) valueOr(v *int, r [2]int) int {
	if v != nil {
		return *v
	}
	return s.between(r)
}

// between uniform integer in [r[0], r[1]]
func (s *Service) between(r [2]int) int {
	return r[0] + s.rnd.IntN(r[1]-r[0]+1)
}

func (s *Service) minutesAgo() string {
	return fmt.Sprintf("%d min ago", s.between(minutesAgoRange))
}

func firstSet(cur, next *int) *int {
	if cur != nil {
		return cur
	}
	return next
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
