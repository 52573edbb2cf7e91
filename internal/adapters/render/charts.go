package render

import (
	"context"
	"errors"
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

// ErrNoData is returned when nothing in the dataset can be plotted.
var ErrNoData = errors.New("no plottable values")

const (
	chartWidth  = 1280
	chartHeight = 720
)

// TimeSeriesChart plots one line per entity for a metric and writes the PNG
// into the output directory. Unknown values leave gaps in the X range
// rather than plotting as zero.
func (r *Renderer) TimeSeriesChart(ctx context.Context, ds *dataset.Dataset, m dataset.Metric, title, filename string) (string, error) {
	var seriesList []chart.Series
	for _, entity := range ds.PerEntity() {
		ts := chart.TimeSeries{Name: entity.Location}
		for _, row := range entity.Rows {
			v := row.Get(m)
			if !v.Known {
				continue
			}
			ts.XValues = append(ts.XValues, row.Date)
			ts.YValues = append(ts.YValues, v.Val)
		}
		if len(ts.XValues) >= 2 {
			seriesList = append(seriesList, ts)
		}
	}
	if len(seriesList) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoData, m)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Date"},
		YAxis:  chart.YAxis{Name: string(m)},
		Series: seriesList,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return r.writePNG(ctx, filename, func(f *os.File) error {
		return graph.Render(chart.PNG, f)
	})
}

// SnapshotBar plots the latest value of a metric per entity as a bar chart.
// Entities with an unknown value are omitted.
func (r *Renderer) SnapshotBar(ctx context.Context, latest []dataset.Observation, m dataset.Metric, title, filename string) (string, error) {
	var bars []chart.Value
	for i := range latest {
		v := latest[i].Get(m)
		if !v.Known {
			continue
		}
		bars = append(bars, chart.Value{Label: latest[i].Location, Value: v.Val})
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoData, m)
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     bars,
	}

	return r.writePNG(ctx, filename, func(f *os.File) error {
		return graph.Render(chart.PNG, f)
	})
}

func (r *Renderer) writePNG(ctx context.Context, filename string, render func(*os.File) error) (string, error) {
	path := r.path(filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := render(f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}

	r.log.Info(ctx, "chart written", logger.String("path", path))
	return path, nil
}
