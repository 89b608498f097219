package feed

import (
	"encoding/json"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/firewatch-cli/internal/model"
)

// detectionTimeLayouts covers the ISO 8601 variants the feed emits:
// RFC 3339, space-separated date and time, and offsets without a colon.
var detectionTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05-0700",
}

func parseDetectionTime(s string) (time.Time, error) {
	var err error
	for _, layout := range detectionTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Detections parses a polygon-detection feature collection. Each accepted
// feature needs a polygon or multi-polygon geometry and an earliest-observed
// ISO 8601 timestamp with an explicit offset, which is converted to UTC.
// Features with any other geometry type or an unparseable timestamp are
// skipped with a warning.
func (p *Parser) Detections(data []byte) ([]model.PolygonDetection, Report, error) {
	raw, err := features(data)
	if err != nil {
		return nil, Report{}, err
	}

	log := zap.L().With(zap.String("component", "feed.detections"))
	records := make([]model.PolygonDetection, 0, len(raw))
	var rep Report

	for i, fr := range raw {
		var f geojson.Feature
		if err := json.Unmarshal(fr, &f); err != nil {
			rep.Skipped++
			log.Warn("skipping undecodable detection feature", zap.Int("index", i), zap.Error(err))
			continue
		}

		switch f.Geometry.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
		default:
			rep.Skipped++
			log.Warn("skipping detection without polygon geometry", zap.Int("index", i))
			continue
		}

		s, ok := f.Properties[p.OldestDetectionKey].(string)
		if !ok {
			rep.Skipped++
			log.Warn("skipping detection without timestamp",
				zap.Int("index", i),
				zap.String("key", p.OldestDetectionKey),
			)
			continue
		}
		ts, err := parseDetectionTime(s)
		if err != nil {
			rep.Skipped++
			log.Warn("skipping detection with unparseable timestamp",
				zap.Int("index", i),
				zap.String("value", s),
				zap.Error(err),
			)
			continue
		}

		records = append(records, model.PolygonDetection{
			Geometry:      f.Geometry,
			DetectionTime: ts.UTC(),
		})
		rep.Accepted++
	}

	log.Info("parsed detection records",
		zap.Int("accepted", rep.Accepted),
		zap.Int("skipped", rep.Skipped),
	)
	return records, rep, nil
}
