package model

import (
	"sort"
	"strings"
	"sync"
)

// Grade is a duplication grade label
type Grade string

const (
	// GradeU0 produces no duplicates
	GradeU0 Grade = "U0"

	// GradeU50 produces about 50% duplicates
	GradeU50 Grade = "U50"

	// GradeU90 produces about 90% duplicates
	GradeU90 Grade = "U90"

	// GradeUnknown is the key used for records which do not tell their grade.
	// It cannot be used to generate a corpus.
	GradeUnknown Grade = "unknown"
)

var (
	gradesMx sync.RWMutex
	grades   = map[Grade]float64{
		GradeU0:  0.0,
		GradeU50: 0.5,
		GradeU90: 0.9,
	}
)

// RegisterGrade adds or redefines a duplication grade
func RegisterGrade(label string, ratio float64) error {
	label = strings.TrimSpace(label)
	if label == "" || Grade(label) == GradeUnknown {
		return ErrUnknownGrade.Wrapf("cannot register grade %q", label)
	}
	if ratio < 0 || ratio >= 1 {
		return ErrInvalidGradeRatio.Wrapf("grade %s: %v", label, ratio)
	}
	gradesMx.Lock()
	defer gradesMx.Unlock()
	grades[Grade(label)] = ratio
	return nil
}

// ParseGrade validates a grade label
func ParseGrade(label string) (Grade, error) {
	g := Grade(strings.TrimSpace(label))
	if _, err := g.Ratio(); err != nil {
		return "", err
	}
	return g, nil
}

// ParseGrades validates a list of grade labels
func ParseGrades(labels []string) ([]Grade, error) {
	out := make([]Grade, 0, len(labels))
	for _, label := range labels {
		g, err := ParseGrade(label)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Ratio yields the target duplicate probability for this grade
func (g Grade) Ratio() (float64, error) {
	gradesMx.RLock()
	defer gradesMx.RUnlock()
	p, ok := grades[g]
	if !ok {
		return 0, ErrUnknownGrade.Wrapf("%q", string(g))
	}
	return p, nil
}

func (g Grade) String() string {
	return string(g)
}

// Grades lists all registered grades, by increasing duplicate ratio
func Grades() []Grade {
	gradesMx.RLock()
	defer gradesMx.RUnlock()
	out := make([]Grade, 0, len(grades))
	for g := range grades {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if grades[out[i]] == grades[out[j]] {
			return out[i] < out[j]
		}
		return grades[out[i]] < grades[out[j]]
	})
	return out
}
