package metric

import "errors"

var (
	// ErrMetricNotFound the metric name has no canonical entry
	ErrMetricNotFound = errors.New("metric not found")
)
