package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.Feed.URL, "WFIGS_Incident_Locations")
	assert.Equal(t, "FireDiscoveryDateTime", cfg.Feed.DiscoveryKey)
	assert.Equal(t, "IncidentSize", cfg.Feed.SizeKey)
	assert.Equal(t, "oldest_detection", cfg.Feed.OldestDetectionKey)
	assert.Equal(t, 1.0, cfg.Query.MinSizeAcres)
	assert.Equal(t, 1000.0, cfg.Stats.LargeFireAcres)
	assert.Equal(t, 4, cfg.Correlate.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FIREWATCH_STATS_LARGE_FIRE_ACRES", "500")
	t.Setenv("FIREWATCH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 500.0, cfg.Stats.LargeFireAcres)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestQueryConfigWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to string
		wantErr  bool
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name: "datetime bounds",
			from: "2024-06-01 00:00:00",
			to:   "2024-09-30 23:59:59",
			wantFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 9, 30, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "date-only bounds",
			from: "2024-06-01",
			to:   "2024-09-30",
			wantFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
		},
		{name: "inverted window", from: "2024-09-30", to: "2024-06-01", wantErr: true},
		{name: "garbage from", from: "June 1st", to: "2024-09-30", wantErr: true},
		{name: "garbage to", from: "2024-06-01", to: "soon", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := QueryConfig{From: tt.from, To: tt.to}
			from, to, err := q.Window()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "shouting", Format: "json"}))
}
