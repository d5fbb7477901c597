package results

import (
	"fmt"
	"io"
	"sort"

	units "github.com/docker/go-units"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/deduplab/pkg/model"
)

const missingGrade = "?"

// WriteTable prints one row per record, sorted by system then grade
func WriteTable(w io.Writer, records []model.Record) error {
	rows := make([]model.Record, len(records))
	copy(rows, records)
	sort.SliceStable(rows, func(i, j int) bool {
		si, _ := rows[i].System()
		sj, _ := rows[j].System()
		if si != sj {
			return si < sj
		}
		return gradeLabel(rows[i], "") < gradeLabel(rows[j], "")
	})

	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("SYSTEM", "GRADE", "SIZE DELTA (MiB)", "DURATION (s)")
	for _, r := range rows {
		system, _ := r.System()
		table.AddRow(
			system,
			gradeLabel(r, missingGrade),
			fmt.Sprintf("%.2f", r.SizeDeltaBytes()/units.MiB),
			fmt.Sprintf("%.2f", r.DurationMS()/1000),
		)
	}
	_, err := fmt.Fprintln(w, table)
	return err
}

func gradeLabel(r model.Record, missing string) string {
	if !r.Has(model.FieldGrade) {
		return missing
	}
	return string(r.Grade())
}
