package render

import "github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the renderer's logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		r.log = l
	}
}
