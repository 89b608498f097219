package model

import "time"

// Run records the outcome of a single correlation run for later inspection.
type Run struct {
	ID             string    `json:"id"`
	Region         string    `json:"region"`
	IncidentCount  int       `json:"incident_count"`
	DetectionCount int       `json:"detection_count"`
	MatchCount     int       `json:"match_count"`
	Summary        string    `json:"summary,omitempty"` // JSON-encoded stats.Summary
	CreatedAt      time.Time `json:"created_at"`
}
