package model

import (
	"time"

	"github.com/twpayne/go-geom"
)

// PolygonDetection is a satellite-derived detection footprint: a polygon or
// multi-polygon boundary with the earliest time the footprint was observed.
// Geometry is validated by the feed parser; instances are immutable.
type PolygonDetection struct {
	Geometry      geom.T    `json:"-"`
	DetectionTime time.Time `json:"detection_time"` // always UTC
}
