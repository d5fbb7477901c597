package results

import (
	"github.com/oneconcern/deduplab/pkg/model"
)

// MergePolicy resolves two records filed under the same (system, grade) pair
type MergePolicy func(previous, next model.Record) model.Record

// LastWriteWins keeps the record processed last, as is: records are never merged
func LastWriteWins(_, next model.Record) model.Record {
	return next
}

// FirstWriteWins keeps the record processed first
func FirstWriteWins(previous, _ model.Record) model.Record {
	return previous
}

// Filter keeps the records of a stage, or all of them for model.StageAll
func Filter(records []model.Record, stage string) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if stage == model.StageAll || r.Stage() == stage {
			out = append(out, r)
		}
	}
	return out
}

// Fold files records by system then by grade, in order.
//
// The count of the summary is the number of records folded, including those
// superseded by the merge policy. Records without a grade are filed under
// model.GradeUnknown. A record without a system fails the fold.
func Fold(stage string, records []model.Record, policy MergePolicy) (model.Summary, error) {
	if policy == nil {
		policy = LastWriteWins
	}
	summary := model.NewSummary(stage)
	summary.Count = len(records)

	for _, r := range records {
		system, err := r.System()
		if err != nil {
			return model.Summary{}, err
		}
		grades, ok := summary.Systems[system]
		if !ok {
			grades = make(map[string]model.Record)
			summary.Systems[system] = grades
		}
		grade := string(r.Grade())
		if previous, exists := grades[grade]; exists {
			grades[grade] = policy(previous, r)
			continue
		}
		grades[grade] = r
	}
	return summary, nil
}
