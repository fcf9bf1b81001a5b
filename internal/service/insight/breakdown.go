package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/thebenmerlin/MVP90/internal/domain/insight"
	"gopkg.in/yaml.v3"
)

const weightTolerance = 0.01

// Fallback ranges (inclusive) on a 0-100 scale, rescaled to max_value
var (
	primaryRange     = [2]int{70, 99}
	secondaryRange   = [2]int{60, 89}
	tertiaryRange    = [2]int{50, 89}
	percentileRange  = [2]int{50, 99}
	medianRange      = [2]int{50, 69}
	topRange         = [2]int{80, 94}
	comparableARange = [2]int{70, 89}
	comparableBRange = [2]int{60, 79}
)

func breakdownKey(entityID int, scoreName string) string {
	return fmt.Sprintf("%d_%s", entityID, scoreName)
}

func parseBreakdowns(data []byte) (map[string]insight.ScoreBreakdown, error) {
	var entries []insight.ScoreBreakdown
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse breakdown catalog: %w", err)
	}

	out := make(map[string]insight.ScoreBreakdown, len(entries))
	for _, b := range entries {
		key := breakdownKey(b.EntityID, b.ScoreName)
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("breakdown catalog: duplicate key %s", key)
		}

		// sample data; flagged, never recomputed
		if sum := b.WeightSum(); math.Abs(sum-1) > weightTolerance {
			log.Warn().
				Str("key", key).
				Float64("weight_sum", sum).
				Msg("Breakdown weights do not sum to 1")
		}
		out[key] = b
	}
	return out, nil
}

// Breakdown explains scoreName for an entity. Unknown combinations get a
// synthesized breakdown whose contributions sum to its value.
func (c *Catalog) Breakdown(entityID int, scoreName string) insight.ScoreBreakdown {
	if scoreName == "" {
		scoreName = insight.DefaultScoreName
	}

	b, ok := c.breakdowns[breakdownKey(entityID, scoreName)]
	if !ok {
		return c.fallbackBreakdown(entityID, scoreName)
	}

	b.Components = append([]insight.Component(nil), b.Components...)
	b.Comparables = append([]insight.Comparable(nil), b.Comparables...)
	b.Insights = append([]string(nil), b.Insights...)
	b.LastUpdated = c.now()
	return b
}

func (c *Catalog) fallbackBreakdown(entityID int, scoreName string) insight.ScoreBreakdown {
	maxValue := 10.0
	if strings.Contains(scoreName, "score") && !strings.Contains(scoreName, "overall") {
		maxValue = 100
	}
	scale := decimal.NewFromFloat(maxValue).Div(decimal.NewFromInt(100))

	scaled := func(r [2]int) decimal.Decimal {
		return decimal.NewFromInt(int64(c.between(r))).Mul(scale).Round(2)
	}

	specs := []struct {
		name   string
		weight string
		rng    [2]int
		source string
	}{
		{"Primary Factor", "0.40", primaryRange, "Primary analysis pipeline"},
		{"Secondary Factor", "0.35", secondaryRange, "Secondary analysis pipeline"},
		{"Tertiary Factor", "0.25", tertiaryRange, "Tertiary analysis pipeline"},
	}

	total := decimal.Zero
	components := make([]insight.Component, len(specs))
	for i, s := range specs {
		value := scaled(s.rng)
		weight := decimal.RequireFromString(s.weight)
		contribution := value.Mul(weight).Round(2)
		total = total.Add(contribution)

		components[i] = insight.Component{
			Name:         s.name,
			Value:        toFloat(value),
			Weight:       toFloat(weight),
			Contribution: toFloat(contribution),
			Source:       s.source,
		}
	}

	name, ok := c.entityNames[entityID]
	if !ok {
		name = fmt.Sprintf("Entity %d", entityID)
	}

	return insight.ScoreBreakdown{
		EntityID:   entityID,
		EntityName: name,
		ScoreName:  scoreName,
		Value:      toFloat(total.Round(2)),
		MaxValue:   maxValue,
		Percentile: c.between(percentileRange),
		Formula:    "Composite scoring algorithm with multiple weighted factors",
		Components: components,
		Comparables: []insight.Comparable{
			{
				Name:     "Comparable A",
				Score:    toFloat(scaled(comparableARange)),
				Industry: "Similar",
				Stage:    "Series A",
				Note:     "Similar business model and market",
			},
			{
				Name:     "Comparable B",
				Score:    toFloat(scaled(comparableBRange)),
				Industry: "Adjacent",
				Stage:    "Seed",
				Note:     "Adjacent market with similar approach",
			},
		},
		Insights: []string{
			"Score calculated using proprietary algorithm",
			"Multiple factors contribute to overall assessment",
			"Comparative analysis against industry benchmarks",
		},
		CategoryMedian:        toFloat(scaled(medianRange)),
		CategoryTopPercentile: toFloat(scaled(topRange)),
		LastUpdated:           c.now(),
	}
}

// between uniform integer in [r[0], r[1]]
func (c *Catalog) between(r [2]int) int {
	return r[0] + c.rnd.IntN(r[1]-r[0]+1)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
