package signals

import (
	"errors"
	"sort"

	"github.com/thebenmerlin/MVP90/internal/domain/startup"
)

// Sort keys (descending)
const (
	SortNovelty        = "noveltyScore"
	SortIndiaMarketFit = "indiaMarketFit"
	SortBuildCost      = "estimatedBuildCost"
)

// ErrInvalidSort the sort key is not one of the supported fields
var ErrInvalidSort = errors.New("invalid sort key")

// Filter narrows a signal feed. Empty fields match everything.
type Filter struct {
	Industry   string
	Region     string
	Source     string
	ActionTag  startup.ActionTag
	MinNovelty int
}

// Match reports whether s passes every set criterion
func (f Filter) Match(s startup.Signal) bool {
	return (f.Industry == "" || s.Industry == f.Industry) &&
		(f.Region == "" || s.Region == f.Region) &&
		(f.Source == "" || s.Source == f.Source) &&
		(f.ActionTag == "" || s.ActionTag == f.ActionTag) &&
		s.NoveltyScore >= f.MinNovelty
}

// Apply returns the matching signals, order preserved
func (f Filter) Apply(in []startup.Signal) []startup.Signal {
	out := make([]startup.Signal, 0, len(in))
	for _, s := range in {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// SortSignals orders signals by key, highest first. Ties keep their order.
// An empty key leaves the slice untouched.
func SortSignals(signals []startup.Signal, key string) error {
	var value func(startup.Signal) int64
	switch key {
	case "":
		return nil
	case SortNovelty:
		value = func(s startup.Signal) int64 { return int64(s.NoveltyScore) }
	case SortIndiaMarketFit:
		value = func(s startup.Signal) int64 { return int64(s.IndiaMarketFit) }
	case SortBuildCost:
		value = func(s startup.Signal) int64 { return s.EstimatedBuildCost }
	default:
		return ErrInvalidSort
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return value(signals[i]) > value(signals[j])
	})
	return nil
}
