package feed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// esriPolygon is the Esri JSON polygon shape used both for the local
// bounding-polygon document and for the feature-service geometry parameter.
type esriPolygon struct {
	Rings            [][][]float64 `json:"rings"`
	SpatialReference *esriSR       `json:"spatialReference,omitempty"`
}

type esriSR struct {
	WKID int `json:"wkid"`
}

// LoadBoundary reads the bounding region for the incident query. A .shp path
// is read as an ESRI shapefile; anything else is parsed as an Esri JSON
// polygon document with a "rings" key.
func LoadBoundary(path string) (*geom.Polygon, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return shapefileBoundary(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "feed: read boundary file %s", path)
	}

	var ep esriPolygon
	if err := json.Unmarshal(data, &ep); err != nil {
		return nil, eris.Wrap(err, "feed: decode boundary document")
	}
	if len(ep.Rings) == 0 {
		return nil, eris.Errorf("feed: boundary document %s has no rings", path)
	}

	poly := geom.NewPolygon(geom.XY)
	for i, ring := range ep.Rings {
		flat := make([]float64, 0, len(ring)*2)
		for _, pt := range ring {
			if len(pt) < 2 {
				return nil, eris.Errorf("feed: boundary ring %d has a malformed coordinate", i)
			}
			flat = append(flat, pt[0], pt[1])
		}
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			return nil, eris.Wrapf(err, "feed: boundary ring %d", i)
		}
	}
	return poly, nil
}

// shapefileBoundary reads the first polygon record of a shapefile, treating
// each part as a ring of a single polygon in Esri rings fashion.
func shapefileBoundary(path string) (*geom.Polygon, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "feed: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	for reader.Next() {
		_, shape := reader.Shape()
		sp, ok := shape.(*shp.Polygon)
		if !ok || sp.NumParts == 0 || len(sp.Points) == 0 {
			continue
		}

		poly := geom.NewPolygon(geom.XY)
		for i := int32(0); i < sp.NumParts; i++ {
			start := sp.Parts[i]
			end := int32(len(sp.Points))
			if i+1 < sp.NumParts {
				end = sp.Parts[i+1]
			}

			flat := make([]float64, 0, (end-start)*2)
			for j := start; j < end; j++ {
				flat = append(flat, sp.Points[j].X, sp.Points[j].Y)
			}
			if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
				zap.L().Debug("feed: skipping malformed shapefile ring",
					zap.Int32("part", i),
					zap.Error(err),
				)
				continue
			}
		}
		if poly.NumLinearRings() > 0 {
			return poly, nil
		}
	}
	return nil, eris.Errorf("feed: no polygon record found in %s", path)
}

// EsriRings encodes a polygon as the Esri JSON geometry the feature service
// expects for its geometry parameter.
func EsriRings(poly *geom.Polygon) ([]byte, error) {
	if poly == nil || poly.NumLinearRings() == 0 {
		return nil, eris.New("feed: empty boundary polygon")
	}

	ep := esriPolygon{SpatialReference: &esriSR{WKID: 4326}}
	for i := 0; i < poly.NumLinearRings(); i++ {
		flat := poly.LinearRing(i).FlatCoords()
		ring := make([][]float64, 0, len(flat)/2)
		for j := 0; j+1 < len(flat); j += 2 {
			ring = append(ring, []float64{flat[j], flat[j+1]})
		}
		ep.Rings = append(ep.Rings, ring)
	}

	data, err := json.Marshal(ep)
	if err != nil {
		return nil, eris.Wrap(err, "feed: encode boundary rings")
	}
	return data, nil
}
