// Package stats computes descriptive statistics over parsed point incidents.
// All computations are pure; insufficient data yields nil fields, never a
// placeholder zero.
package stats

import (
	"math"

	"github.com/sells-group/firewatch-cli/internal/model"
)

// Summary holds the statistics rendered by the presentation layer.
// MostCommonHour is nil when there are no incidents; HourSizeCorr is nil
// when fewer than two incidents exist or either series has zero variance.
type Summary struct {
	MostCommonHour *int     `json:"most_common_hour,omitempty"`
	LargeFireCount int      `json:"large_fire_count"`
	HourSizeCorr   *float64 `json:"hour_size_corr,omitempty"`
}

// Compute summarizes the incident set: the most frequent UTC discovery hour
// (ties broken by the lowest hour), the count of incidents strictly larger
// than largeThreshold acres, and the Pearson correlation between discovery
// hour and incident size.
func Compute(points []model.PointIncident, largeThreshold float64) Summary {
	var s Summary

	hist := HourHistogram(points)
	if len(points) > 0 {
		best := 0
		for h := 1; h < 24; h++ {
			if hist[h] > hist[best] {
				best = h
			}
		}
		s.MostCommonHour = &best
	}

	for i := range points {
		if points[i].SizeAcres > largeThreshold {
			s.LargeFireCount++
		}
	}

	if r, ok := pearson(points); ok {
		s.HourSizeCorr = &r
	}
	return s
}

// HourHistogram counts incidents per UTC hour of day.
func HourHistogram(points []model.PointIncident) [24]int {
	var hist [24]int
	for i := range points {
		hist[points[i].Hour()]++
	}
	return hist
}

// pearson computes the linear correlation coefficient between discovery hour
// and incident size. Undefined for fewer than two incidents or when either
// series is constant.
func pearson(points []model.PointIncident) (float64, bool) {
	n := len(points)
	if n < 2 {
		return 0, false
	}

	var meanX, meanY float64
	for i := range points {
		meanX += float64(points[i].Hour())
		meanY += points[i].SizeAcres
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := range points {
		dx := float64(points[i].Hour()) - meanX
		dy := points[i].SizeAcres - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
