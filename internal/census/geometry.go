package census

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Geometry wraps a polygon boundary for one geographic unit. The pipeline
// only needs area, bounds, and GeoJSON encoding; everything else stays
// behind the wrapper so callers never touch go-geom directly.
type Geometry struct {
	poly *geom.Polygon
}

func NewGeometry(p *geom.Polygon) *Geometry {
	if p == nil {
		return nil
	}
	return &Geometry{poly: p}
}

// NewGeometryFromRings builds a polygon from one or more rings of (x, y)
// coordinates. The first ring is the outer boundary.
func NewGeometryFromRings(rings [][][2]float64) (*Geometry, error) {
	coords := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		coords[i] = make([]geom.Coord, len(ring))
		for j, pt := range ring {
			coords[i][j] = geom.Coord{pt[0], pt[1]}
		}
	}
	poly := geom.NewPolygon(geom.XY)
	if _, err := poly.SetCoords(coords); err != nil {
		return nil, err
	}
	return &Geometry{poly: poly}, nil
}

// Area returns the polygon's area in the coordinate system's native units.
func (g *Geometry) Area() float64 {
	if g == nil || g.poly == nil {
		return 0
	}
	return g.poly.Area()
}

func (g *Geometry) Bounds() *geom.Bounds {
	if g == nil || g.poly == nil {
		return nil
	}
	return g.poly.Bounds()
}

func (g *Geometry) Polygon() *geom.Polygon {
	if g == nil {
		return nil
	}
	return g.poly
}

// GeoJSON encodes the polygon as a GeoJSON geometry object.
func (g *Geometry) GeoJSON() (json.RawMessage, error) {
	if g == nil || g.poly == nil {
		return json.RawMessage("null"), nil
	}
	raw, err := geojson.Marshal(g.poly)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
