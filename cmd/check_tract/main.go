package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	tract := flag.String("tract", "", "11-digit tract FIPS to inspect")
	flag.Parse()

	godotenv.Load(".env.local")

	if *tract == "" {
		flag.Usage()
		os.Exit(2)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection error: %v", err)
	}

	// Pull the exported tract row plus the county aggregate it feeds into.
	type Result struct {
		Tract         string
		County        string
		CountyName    string
		HCVSubUnits   float64
		Households    float64
		HCVRate       *float64
		PctPoC        *float64
		PctPoverty    *float64
		RECAP         *string
		Neighborhoods pq.StringArray `gorm:"type:text[]"`
	}

	var r Result
	query := `
		SELECT
			t.tract,
			t.county,
			c.name as county_name,
			t.hcv_sub_units,
			t.households,
			t.hcv_rate,
			t.pct_poc,
			t.tract_pct_pov as pct_poverty,
			t.recap,
			t.neighborhoods
		FROM atlas.tracts t
		LEFT JOIN atlas.counties c ON t.county = c.county
		WHERE t.tract = ?
	`
	if err := db.Raw(query, *tract).Scan(&r).Error; err != nil {
		log.Fatalf("Query error: %v", err)
	}
	if r.Tract == "" {
		log.Fatalf("No exported row for tract %s", *tract)
	}

	fmt.Printf("Tract %s (county %s — %s)\n\n", r.Tract, r.County, r.CountyName)
	fmt.Printf("  voucher units: %.0f\n", r.HCVSubUnits)
	fmt.Printf("  households:    %.0f\n", r.Households)
	fmt.Printf("  voucher rate:  %s\n", fmtRate(r.HCVRate))
	fmt.Printf("  pct PoC:       %s\n", fmtRate(r.PctPoC))
	fmt.Printf("  pct poverty:   %s\n", fmtRate(r.PctPoverty))
	if r.RECAP != nil {
		fmt.Printf("  RECAP:         %s\n", *r.RECAP)
	} else {
		fmt.Printf("  RECAP:         (undefined)\n")
	}

	fmt.Printf("\nNeighborhoods (%d):\n", len(r.Neighborhoods))
	for _, hood := range r.Neighborhoods {
		fmt.Printf("  - %s\n", hood)
	}
}

func fmtRate(v *float64) string {
	if v == nil {
		return "(suppressed)"
	}
	return fmt.Sprintf("%.2f%%", *v)
}
