package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// InputPaths names every source file the pipeline reads. All paths are
// resolved as given (absolute or relative to the working directory); nothing
// is downloaded — files are expected to already exist on disk.
type InputPaths struct {
	TractGeometry        string `yaml:"tract_geometry"`
	CountyGeometry       string `yaml:"county_geometry"`
	ZctaGeometry         string `yaml:"zcta_geometry"`
	NeighborhoodGeometry string `yaml:"neighborhood_geometry"`
	Vouchers             string `yaml:"vouchers"`
	Demographics         string `yaml:"demographics"`
	SAFMR                string `yaml:"safmr"`
	Rents                string `yaml:"rents"`
	TractNeighborhood    string `yaml:"tract_neighborhood"`
}

// Thresholds holds every tunable cutoff the pipeline applies. The RECAP
// thresholds track the HUD definition and the metro FMR changes yearly, so
// none of these may be hard-coded at the point of use.
type Thresholds struct {
	// MinSample suppresses any rate whose denominator falls below it.
	MinSample float64 `yaml:"min_sample"`
	// RECAPPoCPct and RECAPPovertyPct are the HUD RECAP cutoffs, in percent.
	RECAPPoCPct     float64 `yaml:"recap_poc_pct"`
	RECAPPovertyPct float64 `yaml:"recap_poverty_pct"`
	// QuantileBins is the number of choropleth legend bins exposed to the
	// Presenter via the manifest.
	QuantileBins int `yaml:"quantile_bins"`
	// MetroFMR is the metro-wide two-bedroom Fair Market Rent in dollars.
	MetroFMR float64 `yaml:"metro_fmr"`
}

// Serve configures the report HTTP entry point.
type Serve struct {
	Port              string   `yaml:"port"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Burst             int      `yaml:"burst"`
}

type Config struct {
	Inputs     InputPaths `yaml:"inputs"`
	OutputDir  string     `yaml:"output_dir"`
	Thresholds Thresholds `yaml:"thresholds"`
	Serve      Serve      `yaml:"serve"`
}

// Defaults returns a Config with every threshold set to its documented
// default. Input paths are intentionally empty: they must come from the
// config file.
func Defaults() Config {
	return Config{
		OutputDir: "out",
		Thresholds: Thresholds{
			MinSample:       10,
			RECAPPoCPct:     50,
			RECAPPovertyPct: 40,
			QuantileBins:    5,
			MetroFMR:        1156,
		},
		Serve: Serve{
			Port:              "5050",
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// Load reads a YAML config file over Defaults and applies env overrides.
// PORT and ATLAS_OUTPUT_DIR win over the file, matching how the deploy
// environment injects them.
func Load(path string) (Config, error) {
	cfg := Defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Serve.Port = port
	}
	if dir := os.Getenv("ATLAS_OUTPUT_DIR"); dir != "" {
		cfg.OutputDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configs the pipeline cannot run with. It checks values,
// not file existence — missing files surface as load errors with the
// offending path attached.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.Thresholds.MinSample < 0 {
		return fmt.Errorf("min_sample must be >= 0 (got %v)", c.Thresholds.MinSample)
	}
	if c.Thresholds.QuantileBins < 1 {
		return fmt.Errorf("quantile_bins must be >= 1 (got %d)", c.Thresholds.QuantileBins)
	}
	if c.Thresholds.RECAPPoCPct < 0 || c.Thresholds.RECAPPoCPct > 100 {
		return fmt.Errorf("recap_poc_pct must be within [0,100] (got %v)", c.Thresholds.RECAPPoCPct)
	}
	if c.Thresholds.RECAPPovertyPct < 0 || c.Thresholds.RECAPPovertyPct > 100 {
		return fmt.Errorf("recap_poverty_pct must be within [0,100] (got %v)", c.Thresholds.RECAPPovertyPct)
	}
	return nil
}
