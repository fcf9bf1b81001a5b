package insight

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/thebenmerlin/MVP90/internal/domain/insight"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

const (
	metricsFile    = "catalog/metrics.yaml"
	signalMetaFile = "catalog/signal_meta.yaml"
	breakdownsFile = "catalog/breakdowns.yaml"
)

// Randomizer source of synthesized breakdown values
type Randomizer interface {
	IntN(n int) int
}

type defaultRandomizer struct{}

func (defaultRandomizer) IntN(n int) int { return rand.Intn(n) }

// MetaStore persisted signal metadata. A nil document means none is stored.
type MetaStore interface {
	GetSignalMetadata(ctx context.Context, signalID int) json.RawMessage
}

// Option customizes a Catalog
type Option func(*Catalog)

// WithClock injects the time source
func WithClock(clock func() time.Time) Option {
	return func(c *Catalog) { c.now = clock }
}

// WithRandomizer injects the fallback breakdown generator
func WithRandomizer(r Randomizer) Option {
	return func(c *Catalog) { c.rnd = r }
}

// WithMetaStore makes stored signal metadata take precedence over the catalog
func WithMetaStore(s MetaStore) Option {
	return func(c *Catalog) { c.store = s }
}

// WithEntityNames names fallback breakdowns after tracked entities
func WithEntityNames(names map[int]string) Option {
	return func(c *Catalog) { c.entityNames = names }
}

// Catalog serves the metric, signal metadata and score breakdown catalogs
type Catalog struct {
	metrics    *metricSet
	meta       map[int]metaEntry
	metaIDs    []int
	breakdowns map[string]insight.ScoreBreakdown

	entityNames map[int]string
	store       MetaStore
	now         func() time.Time
	rnd         Randomizer
}

// Load reads the embedded catalogs
func Load(opts ...Option) (*Catalog, error) {
	read := func(name string) ([]byte, error) {
		data, err := catalogFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}

	metricsData, err := read(metricsFile)
	if err != nil {
		return nil, err
	}
	metaData, err := read(signalMetaFile)
	if err != nil {
		return nil, err
	}
	breakdownData, err := read(breakdownsFile)
	if err != nil {
		return nil, err
	}

	return Parse(metricsData, metaData, breakdownData, opts...)
}

// Parse builds a Catalog from raw YAML documents
func Parse(metricsData, metaData, breakdownData []byte, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		now: time.Now,
		rnd: defaultRandomizer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	if c.metrics, err = parseMetrics(metricsData); err != nil {
		return nil, err
	}
	if c.meta, c.metaIDs, err = parseSignalMeta(metaData); err != nil {
		return nil, err
	}
	if c.breakdowns, err = parseBreakdowns(breakdownData); err != nil {
		return nil, err
	}

	return c, nil
}
