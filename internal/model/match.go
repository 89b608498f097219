package model

import "time"

// CorrelationMatch pairs an official point incident with the polygon
// detection that contained it and observed the location first. Invariant:
// Detection.DetectionTime is strictly before Incident.DetectionTime.
// Produced only by the correlator and read-only downstream.
type CorrelationMatch struct {
	Incident  *PointIncident    `json:"incident"`
	Detection *PolygonDetection `json:"detection"`
}

// Lead returns how much earlier the satellite detection was than the
// official discovery time.
func (m CorrelationMatch) Lead() time.Duration {
	return m.Incident.DetectionTime.Sub(m.Detection.DetectionTime)
}
