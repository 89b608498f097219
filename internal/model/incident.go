package model

import "time"

// Coordinate is an ordered longitude/latitude pair in degrees (geographic CRS).
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// PointIncident is a single officially reported fire: a geographic point with
// a discovery time and a size. Instances are built once by the feed parser
// and never mutated afterwards.
type PointIncident struct {
	Coord         Coordinate `json:"coord"`
	DetectionTime time.Time  `json:"detection_time"` // always UTC
	SizeAcres     float64    `json:"size_acres"`     // >= 0
}

// Hour returns the UTC hour of day (0-23) of the official discovery time.
func (p PointIncident) Hour() int {
	return p.DetectionTime.UTC().Hour()
}
