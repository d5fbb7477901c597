package model

import "sort"

// StageAll selects the records of every stage
const StageAll = "all"

// Experiment stages
const (
	StageIngest    = "ingest"
	StagePerRecord = "per-record"
	StageDelete    = "delete"
)

// DefaultStages lists the stages of an experiment, in execution order
func DefaultStages() []string {
	return []string{StageIngest, StagePerRecord, StageDelete}
}

// Summary folds all the records of a stage by system, then by grade
type Summary struct {
	Stage   string                       `json:"stage" yaml:"stage"`
	Count   int                          `json:"count" yaml:"count"`
	Systems map[string]map[string]Record `json:"systems" yaml:"systems"`
}

// NewSummary builds an empty summary for a stage
func NewSummary(stage string) Summary {
	return Summary{
		Stage:   stage,
		Systems: make(map[string]map[string]Record),
	}
}

// DecodeSummary parses a persisted summary
func DecodeSummary(data []byte) (Summary, error) {
	var s Summary
	if err := jsonAPI.Unmarshal(data, &s); err != nil {
		return Summary{}, ErrInvalidRecord.Wrap(err)
	}
	if s.Systems == nil {
		s.Systems = make(map[string]map[string]Record)
	}
	return s, nil
}

// Encode the summary as indented JSON. Keys are sorted.
func (s Summary) Encode() ([]byte, error) {
	return jsonAPI.MarshalIndent(s, "", "  ")
}

// Get the record for a (system, grade) pair
func (s Summary) Get(system, grade string) (Record, bool) {
	grades, ok := s.Systems[system]
	if !ok {
		return nil, false
	}
	r, ok := grades[grade]
	return r, ok
}

// SystemNames lists systems in lexicographic order
func (s Summary) SystemNames() []string {
	out := make([]string, 0, len(s.Systems))
	for k := range s.Systems {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// GradeNames lists the grades recorded for a system, in lexicographic order
func (s Summary) GradeNames(system string) []string {
	grades := s.Systems[system]
	out := make([]string, 0, len(grades))
	for k := range grades {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
