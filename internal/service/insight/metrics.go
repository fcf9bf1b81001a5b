package insight

import (
	"fmt"
	"sort"
	"time"

	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"gopkg.in/yaml.v3"
)

type metricEntry struct {
	Name        string        `yaml:"metric"`
	Value       interface{}   `yaml:"value"`
	Type        metric.Type   `yaml:"type"`
	Unit        string        `yaml:"unit"`
	Range       string        `yaml:"range"`
	Description string        `yaml:"description"`
	Source      string        `yaml:"source"`
	Age         time.Duration `yaml:"age"` // timestamp metrics only
}

type metricSet struct {
	byName map[string]metricEntry
	names  []string
	groups []metric.Group
}

func parseMetrics(data []byte) (*metricSet, error) {
	var doc struct {
		Groups  []metric.Group `yaml:"groups"`
		Metrics []metricEntry  `yaml:"metrics"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metrics catalog: %w", err)
	}
	if len(doc.Metrics) == 0 {
		return nil, fmt.Errorf("metrics catalog is empty")
	}

	set := &metricSet{
		byName: make(map[string]metricEntry, len(doc.Metrics)),
		groups: doc.Groups,
	}
	for _, m := range doc.Metrics {
		if m.Name == "" {
			return nil, fmt.Errorf("metrics catalog: entry without name")
		}
		if _, dup := set.byName[m.Name]; dup {
			return nil, fmt.Errorf("metrics catalog: duplicate metric %q", m.Name)
		}
		if m.Type == metric.TypeTimestamp && m.Age <= 0 {
			return nil, fmt.Errorf("metrics catalog: timestamp metric %q needs an age", m.Name)
		}
		set.byName[m.Name] = m
		set.names = append(set.names, m.Name)
	}
	sort.Strings(set.names)

	for _, g := range doc.Groups {
		for _, name := range g.Metrics {
			if _, ok := set.byName[name]; !ok {
				return nil, fmt.Errorf("metrics catalog: group %q references unknown metric %q", g.Name, name)
			}
		}
	}

	return set, nil
}

// Metric returns the catalog value of name stamped with the current time
func (c *Catalog) Metric(name string) (metric.Metric, error) {
	e, ok := c.metrics.byName[name]
	if !ok {
		return metric.Metric{}, fmt.Errorf("%q: %w", name, metric.ErrMetricNotFound)
	}

	now := c.now()
	m := metric.Metric{
		Name:        e.Name,
		Value:       cloneValue(e.Value),
		Type:        e.Type,
		Unit:        e.Unit,
		Range:       e.Range,
		Description: e.Description,
		Timestamp:   now,
		Source:      e.Source,
		Provenance:  metric.ProvenanceMock,
	}
	if e.Type == metric.TypeTimestamp {
		m.Value = now.Add(-e.Age)
	}
	return m, nil
}

// MetricNames returns the canonical metric names, sorted
func (c *Catalog) MetricNames() []string {
	out := make([]string, len(c.metrics.names))
	copy(out, c.metrics.names)
	return out
}

// MetricGroups returns the display grouping
func (c *Catalog) MetricGroups() []metric.Group {
	out := make([]metric.Group, len(c.metrics.groups))
	for i, g := range c.metrics.groups {
		out[i] = metric.Group{Name: g.Name, Metrics: append([]string(nil), g.Metrics...)}
	}
	return out
}

// Overlay fills presentation fields a live metric left empty
func (c *Catalog) Overlay(live metric.Metric) metric.Metric {
	e, ok := c.metrics.byName[live.Name]
	if !ok {
		return live
	}

	if live.Type == "" {
		live.Type = e.Type
	}
	if live.Unit == "" {
		live.Unit = e.Unit
	}
	if live.Range == "" {
		live.Range = e.Range
	}
	if live.Description == "" {
		live.Description = e.Description
	}
	return live
}

// cloneValue copies object values so callers cannot mutate the catalog
func cloneValue(v interface{}) interface{} {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	out := make(map[string]interface{}, len(obj))
	for k, val := range obj {
		out[k] = val
	}
	return out
}
