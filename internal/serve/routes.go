package serve

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the report data endpoints for one output directory.
func SetupRoutes(dir string) chi.Router {
	h := &Handlers{Dir: dir}

	r := chi.NewRouter()
	r.Get("/manifest", h.Manifest)
	r.Get("/tables/{geography}", h.TableCSV)
	r.Get("/geo/{geography}", h.TableGeoJSON)
	return r
}
