package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebenmerlin/MVP90/internal/domain/insight"
	"gopkg.in/yaml.v3"
)

type sourceEntry struct {
	SourceName string        `yaml:"source_name"`
	SourceID   string        `yaml:"source_id"`
	RawSnippet string        `yaml:"raw_snippet"`
	CrawlAge   time.Duration `yaml:"crawl_age"`
	Confidence float64       `yaml:"confidence"`
}

type chainEntry struct {
	Status    string        `yaml:"status"`
	Age       time.Duration `yaml:"age"`
	Processor string        `yaml:"processor"`
}

// metaEntry signal metadata with timestamps expressed as ages
type metaEntry struct {
	ID                int                      `yaml:"id"`
	EntityName        string                   `yaml:"entity_name"`
	IngestionAge      time.Duration            `yaml:"ingestion_age"`
	SourceMetadata    []sourceEntry            `yaml:"source_metadata"`
	SignalChain       []chainEntry             `yaml:"signal_chain"`
	Tags              []string                 `yaml:"tags"`
	MLClassifications []insight.Classification `yaml:"ml_classifications"`
	AssociatedLinks   []string                 `yaml:"associated_links"`
	QualityScore      float64                  `yaml:"quality_score"`
	ProcessingNotes   string                   `yaml:"processing_notes"`
}

func parseSignalMeta(data []byte) (map[int]metaEntry, []int, error) {
	var entries []metaEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("parse signal meta catalog: %w", err)
	}

	byID := make(map[int]metaEntry, len(entries))
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		if _, dup := byID[e.ID]; dup {
			return nil, nil, fmt.Errorf("signal meta catalog: duplicate id %d", e.ID)
		}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	sort.Ints(ids)

	return byID, ids, nil
}

// resolve turns ages into timestamps relative to now
func (e metaEntry) resolve(now time.Time) insight.SignalMeta {
	m := insight.SignalMeta{
		ID:                 e.ID,
		EntityName:         e.EntityName,
		IngestionTimestamp: now.Add(-e.IngestionAge),
		SourceMetadata:     make([]insight.SourceMetadata, len(e.SourceMetadata)),
		SignalChain:        make([]insight.ChainStep, len(e.SignalChain)),
		Tags:               append([]string(nil), e.Tags...),
		MLClassifications:  append([]insight.Classification(nil), e.MLClassifications...),
		AssociatedLinks:    append([]string(nil), e.AssociatedLinks...),
		QualityScore:       e.QualityScore,
		ProcessingNotes:    e.ProcessingNotes,
	}
	for i, s := range e.SourceMetadata {
		m.SourceMetadata[i] = insight.SourceMetadata{
			SourceName: s.SourceName,
			SourceID:   s.SourceID,
			RawSnippet: s.RawSnippet,
			CrawlTS:    now.Add(-s.CrawlAge),
			Confidence: s.Confidence,
		}
	}
	for i, c := range e.SignalChain {
		m.SignalChain[i] = insight.ChainStep{
			Status:    c.Status,
			Timestamp: now.Add(-c.Age),
			Processor: c.Processor,
		}
	}
	return m
}

// SignalMeta returns provenance for a signal. Stored metadata wins over the catalog.
func (c *Catalog) SignalMeta(ctx context.Context, id int) (insight.SignalMeta, error) {
	if c.store != nil {
		if doc := c.store.GetSignalMetadata(ctx, id); doc != nil {
			var stored insight.SignalMeta
			err := json.Unmarshal(doc, &stored)
			if err == nil {
				stored.ID = id
				return stored, nil
			}
			log.Warn().Err(err).Int("signal_id", id).Msg("Stored signal metadata is malformed, using catalog")
		}
	}

	e, ok := c.meta[id]
	if !ok {
		return insight.SignalMeta{}, fmt.Errorf("signal %d: %w", id, insight.ErrSignalMetaNotFound)
	}
	return e.resolve(c.now()), nil
}

// SignalMetaIDs returns the ids with catalog metadata, ascending
func (c *Catalog) SignalMetaIDs() []int {
	out := make([]int, len(c.metaIDs))
	copy(out, c.metaIDs)
	return out
}
