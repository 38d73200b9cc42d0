package export

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type TractRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Tract       string    `gorm:"column:tract"`
	County      string    `gorm:"column:county"`
	HCVSubUnits float64   `gorm:"column:hcv_sub_units"`
	Households  float64   `gorm:"column:households"`
	TotalPop    float64   `gorm:"column:total_pop"`
	PoCPop      float64   `gorm:"column:poc_pop"`
	PovertyPop  float64   `gorm:"column:poverty_pop"`
	// Rates are nullable: null means suppressed or missing, never zero.
	HCVRate    *float64 `gorm:"column:hcv_rate"`
	PctPoC     *float64 `gorm:"column:pct_poc"`
	PctPoverty *float64 `gorm:"column:tract_pct_pov"`
	RECAP      *string  `gorm:"column:recap"`
	// Neighborhoods the tract overlaps, from the bridge table.
	Neighborhoods pq.StringArray `gorm:"type:text[];column:neighborhoods"`
	Geometry      datatypes.JSON `gorm:"column:geometry"`
}

func (TractRow) TableName() string { return "atlas.tracts" }

type CountyRow struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;column:id"`
	County      string         `gorm:"column:county"`
	Name        string         `gorm:"column:name"`
	HCVSubUnits float64        `gorm:"column:hcv_sub_units"`
	Households  float64        `gorm:"column:households"`
	TotalPop    float64        `gorm:"column:total_pop"`
	PoCPop      float64        `gorm:"column:poc_pop"`
	PovertyPop  float64        `gorm:"column:poverty_pop"`
	HCVRate     *float64       `gorm:"column:hcv_rate"`
	PctPoC      *float64       `gorm:"column:pct_poc"`
	PctPoverty  *float64       `gorm:"column:tract_pct_pov"`
	Geometry    datatypes.JSON `gorm:"column:geometry"`
}

func (CountyRow) TableName() string { return "atlas.counties" }

type ZctaRow struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;column:id"`
	Zcta        string         `gorm:"column:zcta"`
	SAFMR0BR    *float64       `gorm:"column:safmr_0br"`
	SAFMR1BR    *float64       `gorm:"column:safmr_1br"`
	SAFMR2BR    *float64       `gorm:"column:safmr_2br"`
	SAFMR3BR    *float64       `gorm:"column:safmr_3br"`
	SAFMR4BR    *float64       `gorm:"column:safmr_4br"`
	Gap0BR      *float64       `gorm:"column:gap_0br"`
	Gap1BR      *float64       `gorm:"column:gap_1br"`
	Gap2BR      *float64       `gorm:"column:gap_2br"`
	Gap3BR      *float64       `gorm:"column:gap_3br"`
	Gap4BR      *float64       `gorm:"column:gap_4br"`
	MedianRent  *float64       `gorm:"column:median_gross_rent"`
	SAFMRVsRent *float64       `gorm:"column:safmr_vs_rent"`
	Geometry    datatypes.JSON `gorm:"column:geometry"`
}

func (ZctaRow) TableName() string { return "atlas.zctas" }

type NeighborhoodRow struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;column:id"`
	Neighborhood string         `gorm:"column:neighborhood"`
	HCVSubUnits  float64        `gorm:"column:hcv_sub_units"`
	Households   float64        `gorm:"column:households"`
	HCVRate      *float64       `gorm:"column:hcv_rate"`
	Geometry     datatypes.JSON `gorm:"column:geometry"`
}

func (NeighborhoodRow) TableName() string { return "atlas.neighborhoods" }
