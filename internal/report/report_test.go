package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/firewatch-cli/internal/model"
	"github.com/sells-group/firewatch-cli/internal/stats"
)

func summaryOf(hour int, large int, corr float64) stats.Summary {
	return stats.Summary{MostCommonHour: &hour, LargeFireCount: large, HourSizeCorr: &corr}
}

func TestSummary_Defined(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWriter(&buf).Summary(summaryOf(5, 1234, -0.379), 1000)

	out := buf.String()
	assert.Contains(t, out, "Most fires occur at UTC hour: 5")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "-0.379")
}

func TestSummary_Undefined(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWriter(&buf).Summary(stats.Summary{}, 1000)

	out := buf.String()
	assert.Contains(t, out, "No data available to determine the most common hour.")
	assert.Contains(t, out, "Not enough data to compute correlation.")
	assert.NotContains(t, out, "0.000")
}

func TestMatches_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWriter(&buf).Matches(nil)
	assert.Contains(t, buf.String(), "No fires were detected earlier")
}

func TestMatches_RendersCoordinatesAndTimes(t *testing.T) {
	t.Parallel()

	inc := model.PointIncident{
		Coord:         model.Coordinate{Lon: -120.1234, Lat: 39.5678},
		DetectionTime: time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC),
		SizeAcres:     50,
	}
	det := model.PolygonDetection{
		Geometry:      geom.NewPolygon(geom.XY),
		DetectionTime: time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	NewWriter(&buf).Matches([]model.CorrelationMatch{{Incident: &inc, Detection: &det}})

	out := buf.String()
	assert.Contains(t, out, "-120.1234")
	assert.Contains(t, out, "39.5678")
	assert.Contains(t, out, "2024-07-04T12:00:00Z")
	assert.Contains(t, out, "2024-07-04T10:00:00Z")
	assert.Contains(t, out, "2h0m0s earlier")
	assert.Contains(t, out, "50.0 acres")
}

func TestHourHistogram_Renders24Rows(t *testing.T) {
	t.Parallel()

	points := []model.PointIncident{
		{DetectionTime: time.Date(2024, 7, 4, 5, 0, 0, 0, time.UTC), SizeAcres: 1},
		{DetectionTime: time.Date(2024, 7, 4, 5, 30, 0, 0, time.UTC), SizeAcres: 1},
	}

	var buf bytes.Buffer
	NewWriter(&buf).HourHistogram(points)

	out := buf.String()
	assert.Contains(t, out, "Discovery hour distribution (UTC):")
	assert.Equal(t, 25, strings.Count(out, "\n")) // header + 24 hour rows
	assert.Contains(t, out, "05 "+strings.Repeat("#", 40)+" 2")
}

func TestSizeHistogram_Buckets(t *testing.T) {
	t.Parallel()

	points := []model.PointIncident{
		{SizeAcres: 0.5},
		{SizeAcres: 5},
		{SizeAcres: 50},
		{SizeAcres: 5000},
		{SizeAcres: 50000},
	}

	var buf bytes.Buffer
	NewWriter(&buf).SizeHistogram(points)

	out := buf.String()
	assert.Contains(t, out, "Incident size distribution (acres):")
	assert.Contains(t, out, "< 1")
	assert.Contains(t, out, "1 - 10")
	assert.Contains(t, out, ">= 10000")
}

func TestBucket_EdgeGoesToUpperBucket(t *testing.T) {
	t.Parallel()

	edges := []float64{1, 10, 100, 1000, 10000}

	tests := []struct {
		size float64
		want int
	}{
		{0.2, 0},
		{1, 1},
		{9.9, 1},
		{10, 2},
		{10000, 5},
		{123456, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, bucket(tt.size, edges), "size %g", tt.size)
	}
}
