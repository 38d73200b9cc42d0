package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/HousingDataLab/HCV-Atlas/internal/config"
	"github.com/HousingDataLab/HCV-Atlas/internal/pipeline"
	"github.com/HousingDataLab/HCV-Atlas/internal/report"
)

func main() {
	var (
		configPath = flag.String("config", "atlas.yaml", "path to pipeline config")
		outDir     = flag.String("out", "", "override output directory")
	)
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	res, err := pipeline.Run(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := report.Write(res, cfg.OutputDir); err != nil {
		log.Fatal(err)
	}

	log.Printf("build %s: wrote %d tracts, %d counties, %d ZCTAs, %d neighborhoods to %s",
		res.RunID, res.Tracts.Len(), res.Counties.Len(), res.Zctas.Len(), res.Neighborhoods.Len(), cfg.OutputDir)
}
