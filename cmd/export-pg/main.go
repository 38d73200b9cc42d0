package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/HousingDataLab/HCV-Atlas/internal/config"
	"github.com/HousingDataLab/HCV-Atlas/internal/export"
	"github.com/HousingDataLab/HCV-Atlas/internal/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "atlas.yaml", "path to pipeline config")
		dbURL      = flag.String("db", "", "DATABASE_URL (falls back to env)")
		namespace  = flag.String("namespace", "", "UUID namespace for row IDs (required, stable forever)")
		wipe       = flag.Bool("wipe", false, "DANGER: truncates atlas tables before exporting")
	)
	flag.Parse()

	_ = godotenv.Load(".env.local")

	if *dbURL == "" {
		*dbURL = os.Getenv("DATABASE_URL")
	}
	if *dbURL == "" || *namespace == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	res, err := pipeline.Run(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := export.Run(export.Config{
		DatabaseURL: *dbURL,
		Namespace:   *namespace,
		Wipe:        *wipe,
	}, res); err != nil {
		log.Fatal(err)
	}

	log.Printf("build %s: exported atlas tables", res.RunID)
}
