package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
inputs:
  vouchers: data/hcv_tracts.csv
output_dir: build
thresholds:
  metro_fmr: 1290
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutputDir != "build" {
		t.Errorf("OutputDir = %q, want build", cfg.OutputDir)
	}
	if cfg.Thresholds.MetroFMR != 1290 {
		t.Errorf("MetroFMR = %v, want 1290 from file", cfg.Thresholds.MetroFMR)
	}
	// Unset values keep their defaults.
	if cfg.Thresholds.MinSample != 10 {
		t.Errorf("MinSample = %v, want default 10", cfg.Thresholds.MinSample)
	}
	if cfg.Thresholds.RECAPPoCPct != 50 || cfg.Thresholds.RECAPPovertyPct != 40 {
		t.Errorf("RECAP thresholds = %v/%v, want defaults 50/40",
			cfg.Thresholds.RECAPPoCPct, cfg.Thresholds.RECAPPovertyPct)
	}
}

func TestLoad_EnvWins(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ATLAS_OUTPUT_DIR", "/tmp/elsewhere")

	path := writeConfig(t, "output_dir: build\nserve:\n  port: \"5050\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Serve.Port != "9999" {
		t.Errorf("Port = %q, want env override 9999", cfg.Serve.Port)
	}
	if cfg.OutputDir != "/tmp/elsewhere" {
		t.Errorf("OutputDir = %q, want env override", cfg.OutputDir)
	}
}

func TestLoad_RejectsBadThresholds(t *testing.T) {
	cases := []string{
		"thresholds:\n  quantile_bins: 0\n",
		"thresholds:\n  min_sample: -1\n",
		"thresholds:\n  recap_poc_pct: 140\n",
	}
	for _, content := range cases {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("Load accepted invalid config:\n%s", content)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}
