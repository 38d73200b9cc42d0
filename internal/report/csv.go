package report

import (
	"encoding/csv"
	"os"

	"github.com/HousingDataLab/HCV-Atlas/internal/table"
)

func writeCSV(t *table.Table, spec tableSpec, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{spec.KeyHeader, "name"}
	header = append(header, spec.NumFields...)
	header = append(header, spec.LabelFields...)
	for _, field := range spec.DisplayFields {
		header = append(header, field+"_display")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range t.Rows() {
		rec := []string{r.Key, r.Name}
		for _, field := range spec.NumFields {
			rec = append(rec, formatValue(r.Num(field)))
		}
		for _, field := range spec.LabelFields {
			rec = append(rec, r.Labels[field])
		}
		for _, field := range spec.DisplayFields {
			rec = append(rec, formatDisplay(r.Num(field)))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
