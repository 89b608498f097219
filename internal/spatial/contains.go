// Package spatial answers boundary-inclusive point-in-polygon queries over
// parsed detection footprints.
package spatial

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"

	"github.com/sells-group/firewatch-cli/internal/model"
)

// Index holds a polygon-detection set in its original order with
// precomputed bounding boxes. The bounding boxes only prune containment
// tests; they never change which detection is returned first.
type Index struct {
	detections []model.PolygonDetection
	bounds     []*geom.Bounds
}

// NewIndex builds an Index over the detection set. The slice is borrowed
// read-only; iteration order is preserved.
func NewIndex(detections []model.PolygonDetection) *Index {
	ix := &Index{
		detections: detections,
		bounds:     make([]*geom.Bounds, len(detections)),
	}
	for i := range detections {
		if detections[i].Geometry != nil {
			ix.bounds[i] = detections[i].Geometry.Bounds()
		}
	}
	return ix
}

// Len returns the number of indexed detections.
func (ix *Index) Len() int { return len(ix.detections) }

// First returns the first detection, in the set's original order, whose
// geometry contains the coordinate (boundary inclusive). Pure and
// deterministic for a fixed detection order.
func (ix *Index) First(c model.Coordinate) (*model.PolygonDetection, bool) {
	return ix.FirstFunc(c, nil)
}

// FirstFunc returns the first detection, in the set's original order, whose
// geometry contains the coordinate (boundary inclusive) and that satisfies
// pred. Containing detections failing pred are passed over and the scan
// continues. A nil pred accepts every containing detection.
func (ix *Index) FirstFunc(c model.Coordinate, pred func(*model.PolygonDetection) bool) (*model.PolygonDetection, bool) {
	coord := geom.Coord{c.Lon, c.Lat}
	for i := range ix.detections {
		if ix.bounds[i] == nil || !ix.bounds[i].OverlapsPoint(geom.XY, coord) {
			continue
		}
		if !Contains(ix.detections[i].Geometry, coord) {
			continue
		}
		if pred != nil && !pred(&ix.detections[i]) {
			continue
		}
		return &ix.detections[i], true
	}
	return nil, false
}

// Contains reports whether the coordinate lies within or on the boundary of
// a polygon or multi-polygon geometry. Other geometry types never contain.
func Contains(g geom.T, coord geom.Coord) bool {
	switch t := g.(type) {
	case *geom.Polygon:
		return polygonContains(t, coord)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if polygonContains(t.Polygon(i), coord) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// polygonContains locates the coordinate against the shell ring first, then
// against each hole. A point on any ring is on the polygon boundary and
// counts as contained; a point strictly inside a hole does not.
func polygonContains(p *geom.Polygon, coord geom.Coord) bool {
	if p == nil || p.NumLinearRings() == 0 {
		return false
	}

	switch xy.LocatePointInRing(p.Layout(), coord, p.LinearRing(0).FlatCoords()) {
	case location.Exterior:
		return false
	case location.Boundary:
		return true
	}

	for i := 1; i < p.NumLinearRings(); i++ {
		switch xy.LocatePointInRing(p.Layout(), coord, p.LinearRing(i).FlatCoords()) {
		case location.Interior:
			return false
		case location.Boundary:
			return true
		}
	}
	return true
}
