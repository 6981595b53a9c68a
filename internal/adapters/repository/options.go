package repository

import (
	"time"

	"github.com/okian/leadboard/internal/domain/model"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMetricsUpdateInterval sets how often the lead count gauge is refreshed.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithDashboardMetrics replaces the dashboard snapshot served by Metrics.
func WithDashboardMetrics(m model.DashboardMetrics) Option {
	return func(s *MemoryStore) {
		s.metrics = m.Clone()
	}
}
