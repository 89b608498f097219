// Package correlate pairs official point incidents with the first satellite
// polygon detection that contains them and observed the location earlier.
package correlate

import (
	"context"
	"runtime"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/firewatch-cli/internal/model"
	"github.com/sells-group/firewatch-cli/internal/spatial"
)

// Correlate walks the incidents in input order. Each incident is matched to
// the first detection (in the detection set's order) that both contains its
// point and has a detection time strictly earlier than the incident's
// official discovery time; containing detections with an equal or later
// time are passed over and the scan continues. At most one match per
// incident. Output preserves incident input order.
func Correlate(points []model.PointIncident, index *spatial.Index) []model.CorrelationMatch {
	matches := make([]model.CorrelationMatch, 0)
	for i := range points {
		if m, ok := matchPoint(&points[i], index); ok {
			matches = append(matches, m)
		}
	}
	zap.L().Info("correlation complete",
		zap.Int("incidents", len(points)),
		zap.Int("detections", index.Len()),
		zap.Int("matches", len(matches)),
	)
	return matches
}

// matchPoint resolves a single incident against the detection index: the
// first detection that contains the point and observed it strictly earlier.
// Equal timestamps do not count as earlier.
func matchPoint(p *model.PointIncident, index *spatial.Index) (model.CorrelationMatch, bool) {
	det, ok := index.FirstFunc(p.Coord, func(d *model.PolygonDetection) bool {
		return d.DetectionTime.Before(p.DetectionTime)
	})
	if !ok {
		return model.CorrelationMatch{}, false
	}
	return model.CorrelationMatch{Incident: p, Detection: det}, true
}

// indexedMatch tags a match with its incident position so the parallel
// variant can restore input order after the merge.
type indexedMatch struct {
	pos   int
	match model.CorrelationMatch
}

// CorrelateParallel produces the same ordered match list as Correlate,
// fanning the incident loop across workers. The detection index is read-only
// during correlation, so the only synchronization is the final merge;
// results are re-sorted by incident position rather than completion order.
func CorrelateParallel(ctx context.Context, points []model.PointIncident, index *spatial.Index, workers int) ([]model.CorrelationMatch, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(points) {
		workers = len(points)
	}
	if workers <= 1 {
		return Correlate(points, index), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make(chan indexedMatch, len(points))

	chunk := (len(points) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(points))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return eris.Wrap(err, "correlate: worker cancelled")
				}
				if m, ok := matchPoint(&points[i], index); ok {
					results <- indexedMatch{pos: i, match: m}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	indexed := make([]indexedMatch, 0, len(results))
	for im := range results {
		indexed = append(indexed, im)
	}
	sort.Slice(indexed, func(i, j int) bool { return indexed[i].pos < indexed[j].pos })

	matches := make([]model.CorrelationMatch, len(indexed))
	for i, im := range indexed {
		matches[i] = im.match
	}

	zap.L().Info("correlation complete",
		zap.Int("incidents", len(points)),
		zap.Int("detections", index.Len()),
		zap.Int("matches", len(matches)),
		zap.Int("workers", workers),
	)
	return matches, nil
}
