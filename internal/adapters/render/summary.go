package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/insights"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

const notAvailable = "Data not available"

// WriteSummary renders the analysis report as a plain-text file.
func (r *Renderer) WriteSummary(ctx context.Context, report *insights.Report, schema dataset.Schema, filename string) (string, error) {
	var b strings.Builder

	b.WriteString("COVID-19 GLOBAL DATA ANALYSIS SUMMARY\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Date range: %s to %s\n",
		report.Totals.FirstDate.Format(dataset.DateLayout),
		report.Totals.LastDate.Format(dataset.DateLayout))
	fmt.Fprintf(&b, "Entities analyzed: %d\n\n", report.Totals.Entities)

	b.WriteString("GLOBAL TOTALS\n")
	fmt.Fprintf(&b, "  Total cases:  %s\n", formatCount(report.Totals.TotalCases))
	fmt.Fprintf(&b, "  Total deaths: %s\n", formatCount(report.Totals.TotalDeaths))
	if report.Totals.MeanDeathRate.Known {
		fmt.Fprintf(&b, "  Mean death rate: %s\n", formatPercent(report.Totals.MeanDeathRate))
	}
	if report.Totals.MeanVaccinationRate.Known {
		fmt.Fprintf(&b, "  Mean vaccination rate: %s\n", formatPercent(report.Totals.MeanVaccinationRate))
	}
	b.WriteString("\n")

	writeRanking(&b, "TOP COUNTRIES BY TOTAL CASES", report.TopCases, formatCount)
	writeRanking(&b, "HIGHEST DEATH RATE", report.TopDeathRate, formatPercent)
	writeRanking(&b, "VACCINATION LEADERS", report.TopVaccinationRate, formatPercent)

	if len(report.CaseGrowth) > 0 {
		fmt.Fprintf(&b, "CASE GROWTH (last %d observations)\n", insights.DefaultGrowthSpan)
		for _, g := range report.CaseGrowth {
			fmt.Fprintf(&b, "  %s: %s\n", g.Location, formatPercent(g.Rate))
		}
		b.WriteString("\n")
	}

	if !schema.Has(dataset.HospPatients) && !schema.Has(dataset.ICUPatients) {
		b.WriteString("Note: hospitalization and ICU columns were not present in the source.\n")
	}

	path := r.path(filename)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}

	r.log.Info(ctx, "summary written", logger.String("path", path))
	return path, nil
}

func writeRanking(b *strings.Builder, title string, entries []insights.Entry, format func(dataset.Float) string) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(title + "\n")
	for i, e := range entries {
		fmt.Fprintf(b, "  %d. %s: %s\n", i+1, e.Location, format(e.Value))
	}
	b.WriteString("\n")
}

func formatCount(v dataset.Float) string {
	if !v.Known {
		return notAvailable
	}
	return fmt.Sprintf("%.0f", v.Val)
}

func formatPercent(v dataset.Float) string {
	if !v.Known {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", v.Val)
}
