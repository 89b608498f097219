package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationMatch_Lead(t *testing.T) {
	t.Parallel()

	inc := PointIncident{DetectionTime: time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC)}
	det := PolygonDetection{DetectionTime: time.Date(2024, 7, 4, 10, 30, 0, 0, time.UTC)}

	m := CorrelationMatch{Incident: &inc, Detection: &det}
	assert.Equal(t, 90*time.Minute, m.Lead())
}
