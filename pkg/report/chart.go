package report

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	units "github.com/docker/go-units"
	"github.com/oneconcern/deduplab/pkg/model"
)

// DefaultChartEDR is plotted when a record has no usable EDR: no deduplication
const DefaultChartEDR = 1.0

var chartHeader = []string{"stage", "system", "grade", "size_delta_mib", "edr"}

// ChartData renders a system x grade matrix per stage, as CSV.
//
// All registered grades are listed for every system, missing measurements
// plotted as no delta and no deduplication.
func (r Report) ChartData() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(chartHeader); err != nil {
		return nil, err
	}

	for _, section := range r.Sections {
		for _, system := range section.Summary.SystemNames() {
			for _, grade := range chartGrades(section.Summary, system) {
				record, ok := section.Summary.Get(system, grade)
				if !ok {
					record = model.Record{}
				}
				row := []string{
					section.Name,
					system,
					grade,
					strconv.FormatFloat(record.SizeDeltaBytes()/units.MiB, 'f', 2, 64),
					strconv.FormatFloat(record.EDRFloat(DefaultChartEDR), 'f', -1, 64),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// chartGrades lists registered grades by ratio, then any other grade found for the system
func chartGrades(summary model.Summary, system string) []string {
	registered := model.Grades()
	out := make([]string, 0, len(registered))
	known := make(map[string]struct{}, len(registered))
	for _, g := range registered {
		out = append(out, string(g))
		known[string(g)] = struct{}{}
	}
	extra := make([]string, 0)
	for _, g := range summary.GradeNames(system) {
		if _, ok := known[g]; !ok {
			extra = append(extra, g)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
