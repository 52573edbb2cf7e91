// Package render produces the one-shot report artifacts: PNG charts, the
// latest-snapshot XLSX workbook and the plain-text summary.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

// Renderer writes report artifacts under a single output directory.
type Renderer struct {
	outDir string
	log    logger.Logger
}

// New creates a Renderer, creating the output directory if needed.
func New(outDir string, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		outDir: outDir,
		log:    logger.Named("render"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return r, nil
}

func (r *Renderer) path(filename string) string {
	return filepath.Join(r.outDir, filename)
}
