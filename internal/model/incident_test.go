package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPointIncident_Hour(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"utc midnight", time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), 0},
		{"utc evening", time.Date(2024, 7, 4, 23, 59, 0, 0, time.UTC), 23},
		{"offset collapses to utc", time.Date(2024, 7, 4, 2, 0, 0, 0, time.FixedZone("CEST", 2*3600)), 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := PointIncident{DetectionTime: tt.at}
			assert.Equal(t, tt.want, p.Hour())
		})
	}
}
