package signals

import (
	"context"
	"errors"

	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
)

// Source enriches a tracked startup from one upstream
type Source interface {
	// Name short label used in logs and metric sources
	Name() string

	// Enabled reports whether the upstream credential is configured
	Enabled() bool

	// Applies reports whether the entity carries an identity for this upstream
	Applies(e startup.Entity) bool

	// Fetch never panics on upstream errors; failures come back in Result.Err
	Fetch(ctx context.Context, e startup.Entity) Result
}

// Enrichment values a source could derive. Nil fields were not derived.
type Enrichment struct {
	Novelty          *int
	Cloneability     *int
	GitHubStars      *int
	ProductHuntVotes *int

	// Metrics derived live for this entity, keyed by canonical name on merge
	Metrics []metric.Metric
}

// Result outcome of one Fetch
type Result struct {
	Source     string
	Enrichment Enrichment
	Err        error
}

// Failed reports whether the fetch produced nothing usable
func (r Result) Failed() bool {
	return r.Err != nil
}

// errSourcePanicked marks a Fetch that panicked
var errSourcePanicked = errors.New("source panicked")

// ok wraps an enrichment as a successful result
func ok(source string, en Enrichment) Result {
	return Result{Source: source, Enrichment: en}
}

// failed wraps an error as a failed result
func failed(source string, err error) Result {
	return Result{Source: source, Err: err}
}

func intPtr(v int) *int {
	return &v
}

// =============================================================================
// StaticSource
// =============================================================================

// StaticSource returns a fixed result for every entity. Used for demos and tests.
type StaticSource struct {
	Label      string
	Enrichment Enrichment
	Err        error

	// Only limits the source to these entity ids (nil = all)
	Only map[int]bool
}

// Name implements Source
func (s *StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Enabled implements Source
func (s *StaticSource) Enabled() bool { return true }

// Applies implements Source
func (s *StaticSource) Applies(e startup.Entity) bool {
	return s.Only == nil || s.Only[e.ID]
}

// Fetch implements Source
func (s *StaticSource) Fetch(_ context.Context, _ startup.Entity) Result {
	if s.Err != nil {
		return failed(s.Name(), s.Err)
	}
	return ok(s.Name(), s.Enrichment)
}
