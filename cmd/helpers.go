package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"golang.org/x/time/rate"

	"github.com/sells-group/firewatch-cli/internal/feed"
	"github.com/sells-group/firewatch-cli/pkg/arcgis"
)

// newParser builds a feed parser with the configured property keys.
func newParser() *feed.Parser {
	p := feed.NewParser()
	if cfg.Feed.DiscoveryKey != "" {
		p.DiscoveryKey = cfg.Feed.DiscoveryKey
	}
	if cfg.Feed.SizeKey != "" {
		p.SizeKey = cfg.Feed.SizeKey
	}
	if cfg.Feed.OldestDetectionKey != "" {
		p.OldestDetectionKey = cfg.Feed.OldestDetectionKey
	}
	return p
}

// newFeedClient builds the ArcGIS client from config.
func newFeedClient() *arcgis.Client {
	return arcgis.NewClient(cfg.Feed.URL, arcgis.Options{
		UserAgent:  cfg.Feed.UserAgent,
		Timeout:    time.Duration(cfg.Feed.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Feed.MaxRetries,
		RateLimit:  rate.Limit(cfg.Feed.RateLimit),
	})
}

// fetchIncidents queries the incident feed bounded by the region polygon and
// the configured window and minimum size.
func fetchIncidents(ctx context.Context, boundary *geom.Polygon) ([]byte, error) {
	rings, err := feed.EsriRings(boundary)
	if err != nil {
		return nil, err
	}

	from, to, err := cfg.Query.Window()
	if err != nil {
		return nil, err
	}

	return newFeedClient().QueryFeatures(ctx, arcgis.Query{
		Geometry: rings,
		Where:    arcgis.IncidentWhere(cfg.Query.MinSizeAcres, from, to),
	})
}

// loadOrFetchIncidents reads a local incident GeoJSON file when a path is
// given, otherwise queries the remote feed.
func loadOrFetchIncidents(ctx context.Context, localPath, bpolyPath string) ([]byte, error) {
	if localPath != "" {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, eris.Wrapf(err, "read incidents file %s", localPath)
		}
		return data, nil
	}

	boundary, err := feed.LoadBoundary(bpolyPath)
	if err != nil {
		return nil, err
	}
	return fetchIncidents(ctx, boundary)
}
