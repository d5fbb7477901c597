package report

import (
	"fmt"
	"strings"

	units "github.com/docker/go-units"
	"github.com/oneconcern/deduplab/pkg/model"
)

const (
	bannerWidth  = 70
	sectionWidth = 40

	// NotAvailable stands for a missing value
	NotAvailable = "N/A"

	generatedLayout = "2006-01-02T15:04:05.000000"
)

// KeyFindings is the fixed guidance printed at the end of every report
var KeyFindings = []string{
	"Systems with EDR > 1.0 at U90 demonstrate active deduplication.",
	"Systems with EDR ~ 1.0 at all grades show no deduplication.",
	"Reclamation behavior indicates whether dedup is reversible.",
}

// Text renders the human readable report
func (r Report) Text() string {
	banner := strings.Repeat("=", bannerWidth)
	rule := strings.Repeat("=", sectionWidth)

	lines := []string{
		banner,
		"  " + r.Title,
		"  Generated: " + r.Generated.Format(generatedLayout),
		banner,
		"",
	}

	for _, section := range r.Sections {
		stage := section.Summary.Stage
		if stage == "" {
			stage = NotAvailable
		}
		lines = append(lines,
			"\n"+rule,
			fmt.Sprintf("  %s: %s", strings.ToUpper(section.Name), stage),
			rule,
		)
		for _, system := range section.Summary.SystemNames() {
			lines = append(lines, fmt.Sprintf("\n  %s:", system))
			for _, grade := range section.Summary.GradeNames(system) {
				record, _ := section.Summary.Get(system, grade)
				lines = append(lines, fmt.Sprintf("    %s: %s", grade, Line(record)))
			}
		}
	}

	lines = append(lines, "", rule, "  KEY FINDINGS", rule, "")
	for _, finding := range KeyFindings {
		lines = append(lines, "  "+finding)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// Line renders the measurements of one record, as in: delta=1.5MiB, EDR=2.1, duration=0.3s
func Line(record model.Record) string {
	return fmt.Sprintf("delta=%.1fMiB, EDR=%s, duration=%.1fs",
		record.SizeDeltaBytes()/units.MiB,
		record.EDRText(NotAvailable),
		record.DurationMS()/1000,
	)
}
