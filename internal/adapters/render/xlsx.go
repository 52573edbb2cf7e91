package render

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

const snapshotSheet = "Sheet1"

// SnapshotXLSX writes the latest-snapshot rows to an XLSX workbook, one row
// per entity with the given metrics as columns. Unknown values leave the
// cell empty.
func (r *Renderer) SnapshotXLSX(ctx context.Context, latest []dataset.Observation, columns []dataset.Metric, filename string) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header := []string{"location", "date"}
	for _, m := range columns {
		header = append(header, string(m))
	}
	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(snapshotSheet, cell, name); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
	}

	for rowIdx := range latest {
		row := &latest[rowIdx]
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		_ = f.SetCellValue(snapshotSheet, cell, row.Location)
		cell, _ = excelize.CoordinatesToCellName(2, rowIdx+2)
		_ = f.SetCellValue(snapshotSheet, cell, row.Date.Format(dataset.DateLayout))

		for colIdx, m := range columns {
			v := row.Get(m)
			if !v.Known {
				continue
			}
			cell, _ = excelize.CoordinatesToCellName(colIdx+3, rowIdx+2)
			_ = f.SetCellValue(snapshotSheet, cell, v.Val)
		}
	}

	path := r.path(filename)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	r.log.Info(ctx, "snapshot workbook written",
		logger.String("path", path),
		logger.Int("rows", len(latest)),
	)
	return path, nil
}
