package feed

import (
	"encoding/json"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/firewatch-cli/internal/model"
)

// Incidents parses a point-incident feature collection. Each accepted
// feature needs a point geometry, a discovery timestamp in epoch
// milliseconds, and a non-negative size in acres. The discovery timestamp is
// normalized to a UTC instant. Features missing any required field are
// skipped with a warning.
func (p *Parser) Incidents(data []byte) ([]model.PointIncident, Report, error) {
	raw, err := features(data)
	if err != nil {
		return nil, Report{}, err
	}

	log := zap.L().With(zap.String("component", "feed.incidents"))
	records := make([]model.PointIncident, 0, len(raw))
	var rep Report

	for i, fr := range raw {
		var f geojson.Feature
		if err := json.Unmarshal(fr, &f); err != nil {
			rep.Skipped++
			log.Warn("skipping undecodable incident feature", zap.Int("index", i), zap.Error(err))
			continue
		}

		pt, ok := f.Geometry.(*geom.Point)
		if !ok || pt == nil {
			rep.Skipped++
			log.Warn("skipping incident without point geometry", zap.Int("index", i))
			continue
		}

		ts, ok := numeric(f.Properties[p.DiscoveryKey])
		if !ok {
			rep.Skipped++
			log.Warn("skipping incident without discovery timestamp",
				zap.Int("index", i),
				zap.String("key", p.DiscoveryKey),
			)
			continue
		}

		size, ok := numeric(f.Properties[p.SizeKey])
		if !ok || size < 0 {
			rep.Skipped++
			log.Warn("skipping incident without valid size",
				zap.Int("index", i),
				zap.String("key", p.SizeKey),
			)
			continue
		}

		records = append(records, model.PointIncident{
			Coord:         model.Coordinate{Lon: pt.X(), Lat: pt.Y()},
			DetectionTime: time.UnixMilli(int64(ts)).UTC(),
			SizeAcres:     size,
		})
		rep.Accepted++
	}

	log.Info("parsed incident records",
		zap.Int("accepted", rep.Accepted),
		zap.Int("skipped", rep.Skipped),
	)
	return records, rep, nil
}
