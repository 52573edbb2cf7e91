package pipeline

import (
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWindow sets the trailing window used for rolling means.
func WithWindow(n int) Option {
	return func(p *Pipeline) {
		p.window = n
	}
}

// WithFillMetrics overrides the metrics that get forward-filled.
func WithFillMetrics(ms ...dataset.Metric) Option {
	return func(p *Pipeline) {
		p.fill = ms
	}
}

// WithRollingMetrics overrides the metrics that get a rolling mean.
func WithRollingMetrics(ms ...dataset.Metric) Option {
	return func(p *Pipeline) {
		p.rolling = ms
	}
}

// WithLogger sets the logger used for run summaries.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}
