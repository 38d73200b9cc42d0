// Package export loads a finished report build into Postgres for
// downstream analysis, mirroring the shape of the report's on-disk output.
// It is an optional sink: the report itself is file-based and complete
// without it.
package export

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/HousingDataLab/HCV-Atlas/internal/pipeline"
	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

type Config struct {
	DatabaseURL string
	// Namespace is the uuid v5 namespace for deterministic row IDs
	// (stable forever for a given deployment).
	Namespace string
	Wipe      bool
}

// Run truncates the atlas tables and loads the build's four geography
// tables in one transaction.
func Run(cfg Config, res *pipeline.Result) error {
	if !cfg.Wipe {
		return errors.New("refusing to run: set Wipe=true (this exporter truncates atlas tables)")
	}

	ns, err := uuid.Parse(cfg.Namespace)
	if err != nil {
		return fmt.Errorf("invalid namespace uuid: %w", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := wipeAtlas(tx); err != nil {
			return err
		}

		tracts, err := tractRows(ns, res)
		if err != nil {
			return err
		}
		counties, err := countyRows(ns, res)
		if err != nil {
			return err
		}
		zctas, err := zctaRows(ns, res)
		if err != nil {
			return err
		}
		hoods, err := neighborhoodRows(ns, res)
		if err != nil {
			return err
		}

		if len(tracts) > 0 {
			if err := tx.Create(&tracts).Error; err != nil {
				return fmt.Errorf("insert tracts: %w", err)
			}
		}
		if len(counties) > 0 {
			if err := tx.Create(&counties).Error; err != nil {
				return fmt.Errorf("insert counties: %w", err)
			}
		}
		if len(zctas) > 0 {
			if err := tx.Create(&zctas).Error; err != nil {
				return fmt.Errorf("insert zctas: %w", err)
			}
		}
		if len(hoods) > 0 {
			if err := tx.Create(&hoods).Error; err != nil {
				return fmt.Errorf("insert neighborhoods: %w", err)
			}
		}
		return nil
	})
}

func wipeAtlas(tx *gorm.DB) error {
	sql := `
		TRUNCATE TABLE
			atlas.tracts,
			atlas.counties,
			atlas.zctas,
			atlas.neighborhoods;
	`
	return tx.Exec(sql).Error
}

func numPtr(v table.Value) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func labelPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func geomJSON(r *table.Row) (datatypes.JSON, error) {
	raw, err := r.Geom.GeoJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geometry for %s: %w", r.Key, err)
	}
	return datatypes.JSON(raw), nil
}

func tractRows(ns uuid.UUID, res *pipeline.Result) ([]TractRow, error) {
	var out []TractRow
	for _, r := range res.Tracts.Rows() {
		geom, err := geomJSON(r)
		if err != nil {
			return nil, err
		}
		out = append(out, TractRow{
			ID:            rowID(ns, "tract", r.Key),
			Tract:         r.Key,
			County:        r.Labels[pipeline.LabelCounty],
			HCVSubUnits:   r.Num(pipeline.FieldHCVSubUnits).Float64,
			Households:    r.Num(pipeline.FieldHouseholds).Float64,
			TotalPop:      r.Num(pipeline.FieldTotalPop).Float64,
			PoCPop:        r.Num(pipeline.FieldPoCPop).Float64,
			PovertyPop:    r.Num(pipeline.FieldPovertyPop).Float64,
			HCVRate:       numPtr(r.Num(pipeline.FieldHCVRate)),
			PctPoC:        numPtr(r.Num(pipeline.FieldPctPoC)),
			PctPoverty:    numPtr(r.Num(pipeline.FieldPctPoverty)),
			RECAP:         labelPtr(r.Labels[pipeline.LabelRECAP]),
			Neighborhoods: res.TractNeighborhoods[r.Key],
			Geometry:      geom,
		})
	}
	return out, nil
}

func countyRows(ns uuid.UUID, res *pipeline.Result) ([]CountyRow, error) {
	var out []CountyRow
	for _, r := range res.Counties.Rows() {
		geom, err := geomJSON(r)
		if err != nil {
			return nil, err
		}
		out = append(out, CountyRow{
			ID:          rowID(ns, "county", r.Key),
			County:      r.Key,
			Name:        r.Name,
			HCVSubUnits: r.Num(pipeline.FieldHCVSubUnits).Float64,
			Households:  r.Num(pipeline.FieldHouseholds).Float64,
			TotalPop:    r.Num(pipeline.FieldTotalPop).Float64,
			PoCPop:      r.Num(pipeline.FieldPoCPop).Float64,
			PovertyPop:  r.Num(pipeline.FieldPovertyPop).Float64,
			HCVRate:     numPtr(r.Num(pipeline.FieldHCVRate)),
			PctPoC:      numPtr(r.Num(pipeline.FieldPctPoC)),
			PctPoverty:  numPtr(r.Num(pipeline.FieldPctPoverty)),
			Geometry:    geom,
		})
	}
	return out, nil
}

func zctaRows(ns uuid.UUID, res *pipeline.Result) ([]ZctaRow, error) {
	var out []ZctaRow
	for _, r := range res.Zctas.Rows() {
		geom, err := geomJSON(r)
		if err != nil {
			return nil, err
		}
		out = append(out, ZctaRow{
			ID:          rowID(ns, "zcta", r.Key),
			Zcta:        r.Key,
			SAFMR0BR:    numPtr(r.Num(pipeline.SAFMRField(0))),
			SAFMR1BR:    numPtr(r.Num(pipeline.SAFMRField(1))),
			SAFMR2BR:    numPtr(r.Num(pipeline.SAFMRField(2))),
			SAFMR3BR:    numPtr(r.Num(pipeline.SAFMRField(3))),
			SAFMR4BR:    numPtr(r.Num(pipeline.SAFMRField(4))),
			Gap0BR:      numPtr(r.Num(pipeline.GapField(0))),
			Gap1BR:      numPtr(r.Num(pipeline.GapField(1))),
			Gap2BR:      numPtr(r.Num(pipeline.GapField(2))),
			Gap3BR:      numPtr(r.Num(pipeline.GapField(3))),
			Gap4BR:      numPtr(r.Num(pipeline.GapField(4))),
			MedianRent:  numPtr(r.Num(pipeline.FieldMedianRent)),
			SAFMRVsRent: numPtr(r.Num(pipeline.FieldSAFMRVsRent)),
			Geometry:    geom,
		})
	}
	return out, nil
}

func neighborhoodRows(ns uuid.UUID, res *pipeline.Result) ([]NeighborhoodRow, error) {
	var out []NeighborhoodRow
	for _, r := range res.Neighborhoods.Rows() {
		geom, err := geomJSON(r)
		if err != nil {
			return nil, err
		}
		out = append(out, NeighborhoodRow{
			ID:           rowID(ns, "neighborhood", r.Key),
			Neighborhood: r.Key,
			HCVSubUnits:  r.Num(pipeline.FieldHCVSubUnits).Float64,
			Households:   r.Num(pipeline.FieldHouseholds).Float64,
			HCVRate:      numPtr(r.Num(pipeline.FieldHCVRate)),
			Geometry:     geom,
		})
	}
	return out, nil
}
