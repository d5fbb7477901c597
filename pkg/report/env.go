package report

import (
	"strings"

	"github.com/oneconcern/deduplab/pkg/model"
)

const (
	deltaSuffix = "_DELTA"
	edrSuffix   = "_EDR"
)

// EnvKey builds the key prefix of a (stage, system, grade) measurement: uppercased,
// with any character other than letters and digits mapped to an underscore.
func EnvKey(stage, system, grade string) string {
	raw := strings.ToUpper(stage + "_" + system + "_" + grade)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, raw)
}

// EnvLines lists the KEY=value lines of the report: the size delta and the EDR of every
// measurement, when present on the record.
func (r Report) EnvLines() []string {
	lines := make([]string, 0)
	r.each(func(stage, system, grade string, record model.Record) {
		prefix := EnvKey(stage, system, grade)
		if v, ok := record[model.FieldSizeDeltaBytes]; ok {
			lines = append(lines, prefix+deltaSuffix+"="+model.FormatValue(v))
		}
		if v, ok := record.EDR(); ok {
			lines = append(lines, prefix+edrSuffix+"="+model.FormatValue(v))
		}
	})
	return lines
}

// Env renders the metrics.env file
func (r Report) Env() string {
	lines := r.EnvLines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// each visits all measurements, by stage, system and grade
func (r Report) each(fn func(stage, system, grade string, record model.Record)) {
	for _, section := range r.Sections {
		for _, system := range section.Summary.SystemNames() {
			for _, grade := range section.Summary.GradeNames(system) {
				record, _ := section.Summary.Get(system, grade)
				fn(section.Name, system, grade, record)
			}
		}
	}
}
