package report

import (
	"encoding/json"
	"os"

	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

type feature struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// writeGeoJSON emits one feature per row. Null numeric fields are omitted
// from properties entirely so map popups can distinguish "no data" from 0.
func writeGeoJSON(t *table.Table, spec tableSpec, path string) error {
	fc := featureCollection{Type: "FeatureCollection", Features: []feature{}}

	for _, r := range t.Rows() {
		geomJSON, err := r.Geom.GeoJSON()
		if err != nil {
			return err
		}

		props := map[string]interface{}{}
		if r.Name != "" {
			props["name"] = r.Name
		}
		for _, field := range spec.NumFields {
			if v := r.Num(field); v.Valid {
				props[field] = v.Float64
			}
		}
		for _, field := range spec.LabelFields {
			if label := r.Labels[field]; label != "" {
				props[field] = label
			}
		}

		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			ID:         r.Key,
			Geometry:   geomJSON,
			Properties: props,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	return enc.Encode(fc)
}
