package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/HousingDataLab/HCV-Atlas/internal/pipeline"
	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

// Manifest is the build record the Presenter starts from: where each
// table lives, the legend breakpoints, and the data-quality accounting
// for the run.
type Manifest struct {
	RunID       string                     `json:"run_id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Tables      map[string]manifestTable   `json:"tables"`
	Bins        map[string][]float64       `json:"bins"`
	Joins       map[string]table.JoinStats `json:"joins"`
	// SkippedIntersections counts bridge rows referencing unknown tracts.
	SkippedIntersections int `json:"skipped_intersections"`
}

type manifestTable struct {
	Rows    int    `json:"rows"`
	CSV     string `json:"csv"`
	GeoJSON string `json:"geojson"`
}

func newManifest(res *pipeline.Result) *Manifest {
	return &Manifest{
		RunID:                res.RunID.String(),
		GeneratedAt:          time.Now().UTC(),
		Tables:               map[string]manifestTable{},
		Bins:                 res.Bins,
		Joins:                res.Diagnostics.Joins,
		SkippedIntersections: res.Diagnostics.SkippedIntersections,
	}
}

func writeManifest(m *Manifest, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
