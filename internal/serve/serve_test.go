package serve_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/HousingDataLab/HCV-Atlas/internal/serve"
)

// builtDir fakes one finished build: a manifest and a tracts table.
func builtDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"manifest.json":  `{"run_id":"test"}`,
		"tracts.csv":     "tract,name\n42001030100,\n",
		"tracts.geojson": `{"type":"FeatureCollection","features":[]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func get(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatal(err)
	}
	return rec, string(body)
}

func TestManifest(t *testing.T) {
	router := serve.SetupRoutes(builtDir(t))

	rec, body := get(t, router, "/manifest")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body != `{"run_id":"test"}` {
		t.Errorf("body = %q", body)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestTableCSV(t *testing.T) {
	router := serve.SetupRoutes(builtDir(t))

	rec, body := get(t, router, "/tables/tracts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body == "" {
		t.Error("empty CSV body")
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", got)
	}
}

func TestTableGeoJSON_UnknownGeography(t *testing.T) {
	router := serve.SetupRoutes(builtDir(t))

	rec, _ := get(t, router, "/geo/districts")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown geography", rec.Code)
	}
}

func TestTableCSV_NotBuilt(t *testing.T) {
	// counties.csv was never written in this fake build.
	router := serve.SetupRoutes(builtDir(t))

	rec, _ := get(t, router, "/tables/counties")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when table not built", rec.Code)
	}
}
