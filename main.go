package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/HousingDataLab/HCV-Atlas/internal/config"
	"github.com/HousingDataLab/HCV-Atlas/internal/middleware"
	"github.com/HousingDataLab/HCV-Atlas/internal/serve"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Atlas data server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	configPath := os.Getenv("ATLAS_CONFIG")
	if configPath == "" {
		configPath = "atlas.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.Serve.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.Serve.RequestsPerSecond, cfg.Serve.Burst))
	r.Get("/", RootHandler)

	r.Mount("/report", serve.SetupRoutes(cfg.OutputDir))

	fmt.Printf("Serving report data from %s on port :%s...\n", cfg.OutputDir, cfg.Serve.Port)

	http.ListenAndServe("0.0.0.0:"+cfg.Serve.Port, r)
}
