package loader

import (
	"strings"

	shp "github.com/jonas-p/go-shp"

	"github.com/HousingDataLab/HCV-Atlas/internal/census"
	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

// ShapeSpec declares how to read one polygon shapefile (.shp plus its .dbf
// sidecar). KeyField names the attribute column holding the geographic
// identifier; NameField, when set, supplies a display name.
type ShapeSpec struct {
	Path      string
	KeyField  string
	NameField string
	// KeyWidth re-pads all-digit keys, as in CSVSpec.
	KeyWidth int
}

// ReadShapefile loads a polygon shapefile into a geometry table keyed by
// the identifier attribute. Records carrying a shape type other than
// polygon are rejected; geometry tables anchor every join, so a bad
// geometry source is fatal.
func ReadShapefile(spec ShapeSpec) (*table.Table, error) {
	reader, err := shp.Open(spec.Path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	fields := reader.Fields()
	keyIdx, nameIdx := -1, -1
	for i, f := range fields {
		name := f.String()
		if strings.EqualFold(name, spec.KeyField) {
			keyIdx = i
		} else if spec.NameField != "" && strings.EqualFold(name, spec.NameField) {
			nameIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, &MalformedInputError{File: spec.Path, Column: spec.KeyField, Reason: "missing identifier attribute"}
	}
	if spec.NameField != "" && nameIdx < 0 {
		return nil, &MalformedInputError{File: spec.Path, Column: spec.NameField, Reason: "missing name attribute"}
	}

	out := table.New()
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, &MalformedInputError{
				File: spec.Path, Row: n + 1,
				Reason: "record is not a polygon",
			}
		}

		key := strings.TrimSpace(reader.ReadAttribute(n, keyIdx))
		if key == "" {
			return nil, &MalformedInputError{File: spec.Path, Column: spec.KeyField, Row: n + 1, Reason: "empty identifier"}
		}
		key = census.PadKey(key, spec.KeyWidth)

		geo, err := polygonGeometry(poly)
		if err != nil {
			return nil, &MalformedInputError{File: spec.Path, Row: n + 1, Reason: err.Error()}
		}

		row := table.NewRow(key)
		row.Geom = geo
		if nameIdx >= 0 {
			row.Name = strings.TrimSpace(reader.ReadAttribute(n, nameIdx))
		}
		if err := out.Append(row); err != nil {
			return nil, &MalformedInputError{File: spec.Path, Column: spec.KeyField, Row: n + 1, Reason: err.Error()}
		}
	}
	// Next returns false both at end of file and on a read error. A
	// truncated .shp must not pass as a short geometry table.
	if err := reader.Err(); err != nil {
		return nil, &MalformedInputError{File: spec.Path, Reason: err.Error()}
	}
	return out, nil
}

// polygonGeometry converts a shapefile polygon (flat point list with part
// offsets) into ring form. The first part is the outer ring; later parts
// are holes or additional rings.
func polygonGeometry(p *shp.Polygon) (*census.Geometry, error) {
	parts := p.Parts
	if len(parts) == 0 {
		parts = []int32{0}
	}
	rings := make([][][2]float64, 0, len(parts))
	for i, start := range parts {
		end := int32(len(p.Points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		ring := make([][2]float64, 0, end-start)
		for _, pt := range p.Points[start:end] {
			ring = append(ring, [2]float64{pt.X, pt.Y})
		}
		rings = append(rings, ring)
	}
	return census.NewGeometryFromRings(rings)
}
