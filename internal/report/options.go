package report

import (
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/adapters/source"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLoader overrides the dataset loader, mainly for tests.
func WithLoader(l source.Loader) Option {
	return func(r *Runner) {
		r.loader = l
	}
}

// WithLogger sets the runner's logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}
