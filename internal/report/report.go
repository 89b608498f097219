// Package report renders correlation and statistics results as text. It is a
// pure sink: nothing here feeds back into the correlation core.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/firewatch-cli/internal/model"
	"github.com/sells-group/firewatch-cli/internal/stats"
)

const barWidth = 40

// Writer renders reports to an output stream with locale-aware number
// formatting.
type Writer struct {
	w io.Writer
	p *message.Printer
}

// NewWriter creates a report writer targeting w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, p: message.NewPrinter(language.English)}
}

// Matches lists each incident that an independent detection observed first.
func (r *Writer) Matches(matches []model.CorrelationMatch) {
	if len(matches) == 0 {
		fmt.Fprintln(r.w, "No fires were detected earlier by the satellite system.")
		return
	}

	r.p.Fprintf(r.w, "Fires first detected by the satellite system: %d\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(r.w, "- (%.4f, %.4f) official %s, detected %s (%s earlier)\n",
			m.Incident.Coord.Lon,
			m.Incident.Coord.Lat,
			m.Incident.DetectionTime.Format(time.RFC3339),
			m.Detection.DetectionTime.Format(time.RFC3339),
			m.Lead().Round(time.Minute),
		)
		r.p.Fprintf(r.w, "  incident size %.1f acres\n", m.Incident.SizeAcres)
	}
}

// Summary prints the statistics block, spelling out undefined values rather
// than rendering zeros.
func (r *Writer) Summary(s stats.Summary, largeThreshold float64) {
	if s.MostCommonHour != nil {
		fmt.Fprintf(r.w, "Most fires occur at UTC hour: %d\n", *s.MostCommonHour)
	} else {
		fmt.Fprintln(r.w, "No data available to determine the most common hour.")
	}

	r.p.Fprintf(r.w, "Fires larger than %.0f acres: %d\n", largeThreshold, s.LargeFireCount)

	if s.HourSizeCorr != nil {
		fmt.Fprintf(r.w, "Correlation between discovery hour and incident size: %.3f\n", *s.HourSizeCorr)
	} else {
		fmt.Fprintln(r.w, "Not enough data to compute correlation.")
	}
}

// HourHistogram prints a text histogram of discovery hours.
func (r *Writer) HourHistogram(points []model.PointIncident) {
	hist := stats.HourHistogram(points)
	maxCount := 0
	for _, c := range hist {
		if c > maxCount {
			maxCount = c
		}
	}

	fmt.Fprintln(r.w, "Discovery hour distribution (UTC):")
	for h, c := range hist {
		fmt.Fprintf(r.w, "%02d %s %d\n", h, bar(c, maxCount), c)
	}
}

// SizeHistogram prints a text histogram of incident sizes over
// logarithmic-ish acre buckets.
func (r *Writer) SizeHistogram(points []model.PointIncident) {
	edges := []float64{1, 10, 100, 1000, 10000}
	counts := make([]int, len(edges)+1)
	for i := range points {
		counts[bucket(points[i].SizeAcres, edges)]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	fmt.Fprintln(r.w, "Incident size distribution (acres):")
	for i, c := range counts {
		fmt.Fprintf(r.w, "%-12s %s %d\n", bucketLabel(i, edges), bar(c, maxCount), c)
	}
}

// bucket returns the index of the first edge the size falls under.
func bucket(size float64, edges []float64) int {
	i := sort.SearchFloat64s(edges, size)
	if i < len(edges) && size == edges[i] {
		return i + 1
	}
	return i
}

func bucketLabel(i int, edges []float64) string {
	switch {
	case i == 0:
		return fmt.Sprintf("< %g", edges[0])
	case i == len(edges):
		return fmt.Sprintf(">= %g", edges[len(edges)-1])
	default:
		return fmt.Sprintf("%g - %g", edges[i-1], edges[i])
	}
}

func bar(count, maxCount int) string {
	if maxCount == 0 || count == 0 {
		return ""
	}
	n := count * barWidth / maxCount
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}
