package insight

import "time"

// =============================================================================
// Score Breakdown
// =============================================================================

// DefaultScoreName is used when no score is requested
const DefaultScoreName = "mvp90_overall_score"

// ScoreBreakdown explains how a score was composed
type ScoreBreakdown struct {
	EntityID              int          `json:"entity_id" yaml:"entity_id"`
	EntityName            string       `json:"entity_name" yaml:"entity_name"`
	ScoreName             string       `json:"score_name" yaml:"score_name"`
	Value                 float64      `json:"value" yaml:"value"`
	MaxValue              float64      `json:"max_value" yaml:"max_value"`
	Percentile            int          `json:"percentile" yaml:"percentile"`
	Formula               string       `json:"formula" yaml:"formula"`
	Components            []Component  `json:"components" yaml:"components"`
	Comparables           []Comparable `json:"comparables" yaml:"comparables"`
	Insights              []string     `json:"insights" yaml:"insights"`
	CategoryMedian        float64      `json:"category_median" yaml:"category_median"`
	CategoryTopPercentile float64      `json:"category_top_percentile" yaml:"category_top_percentile"`
	LastUpdated           time.Time    `json:"last_updated" yaml:"-"`
}

// Component weighted input of a score
type Component struct {
	Name         string  `json:"name" yaml:"name"`
	Value        float64 `json:"value" yaml:"value"`
	Weight       float64 `json:"weight" yaml:"weight"` // 0-1
	Contribution float64 `json:"contribution" yaml:"contribution"`
	Source       string  `json:"source" yaml:"source"`
}

// Comparable a reference entity scored on the same scale
type Comparable struct {
	Name     string  `json:"name" yaml:"name"`
	Score    float64 `json:"score" yaml:"score"`
	Industry string  `json:"industry" yaml:"industry"`
	Stage    string  `json:"stage" yaml:"stage"`
	Note     string  `json:"note" yaml:"note"`
}

// WeightSum returns the sum of component weights
func (b *ScoreBreakdown) WeightSum() float64 {
	sum := 0.0
	for _, c := range b.Components {
		sum += c.Weight
	}
	return sum
}

// ContributionSum returns the sum of component contributions
func (b *ScoreBreakdown) ContributionSum() float64 {
	sum := 0.0
	for _, c := range b.Components {
		sum += c.Contribution
	}
	return sum
}

// =============================================================================
// Signal Metadata
// =============================================================================

// SignalMeta provenance of a tracked signal
type SignalMeta struct {
	ID                 int              `json:"id"`
	EntityName         string           `json:"entity_name"`
	SourceMetadata     []SourceMetadata `json:"source_metadata"`
	IngestionTimestamp time.Time        `json:"ingestion_timestamp"`
	SignalChain        []ChainStep      `json:"signal_chain"`
	Tags               []string         `json:"tags"`
	MLClassifications  []Classification `json:"ml_classifications"`
	AssociatedLinks    []string         `json:"associated_links"`
	QualityScore       float64          `json:"quality_score"`
	ProcessingNotes    string           `json:"processing_notes"`
}

// SourceMetadata a single crawled source
type SourceMetadata struct {
	SourceName string    `json:"source_name"`
	SourceID   string    `json:"source_id"`
	RawSnippet string    `json:"raw_snippet"`
	CrawlTS    time.Time `json:"crawl_ts"`
	Confidence float64   `json:"confidence"`
}

// ChainStep a processing stage the signal passed through
type ChainStep struct {
	Status    string    `json:"status"` // scraped, enriched, scored
	Timestamp time.Time `json:"timestamp"`
	Processor string    `json:"processor"`
}

// Classification a model-assigned label
type Classification struct {
	Category   string  `json:"category" yaml:"category"`
	Value      string  `json:"value" yaml:"value"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}
