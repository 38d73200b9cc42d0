// Package serve exposes a finished report build over HTTP for the
// Presenter: per-geography CSV and GeoJSON tables plus the build manifest.
// It renders nothing itself; it only fronts the files a build wrote.
package serve

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// geographies is the set of valid {geography} route values, matching the
// table names the report writer produces.
var geographies = map[string]struct{}{
	"tracts":        {},
	"counties":      {},
	"zctas":         {},
	"neighborhoods": {},
}

// Handlers serves files from one build output directory.
type Handlers struct {
	Dir string
}

func (h *Handlers) Manifest(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "manifest.json", "application/json")
}

func (h *Handlers) TableCSV(w http.ResponseWriter, r *http.Request) {
	geo := chi.URLParam(r, "geography")
	if _, ok := geographies[geo]; !ok {
		http.Error(w, "Unknown geography", http.StatusNotFound)
		return
	}
	h.serveFile(w, r, geo+".csv", "text/csv")
}

func (h *Handlers) TableGeoJSON(w http.ResponseWriter, r *http.Request) {
	geo := chi.URLParam(r, "geography")
	if _, ok := geographies[geo]; !ok {
		http.Error(w, "Unknown geography", http.StatusNotFound)
		return
	}
	h.serveFile(w, r, geo+".geojson", "application/geo+json")
}

func (h *Handlers) serveFile(w http.ResponseWriter, r *http.Request, name, contentType string) {
	path := filepath.Join(h.Dir, name)
	if _, err := os.Stat(path); err != nil {
		// No manifest or table means no finished build in this directory.
		http.Error(w, "Report not built", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}
