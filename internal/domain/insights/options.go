package insights

import "github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"

// Option configures a Builder.
type Option func(*Builder)

// WithTopN sets how many entities each ranking carries.
func WithTopN(n int) Option {
	return func(b *Builder) {
		b.topN = n
	}
}

// WithGrowthSpan sets how many trailing observations the growth comparison
// looks back over.
func WithGrowthSpan(n int) Option {
	return func(b *Builder) {
		b.growthSpan = n
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		b.log = l
	}
}
