package corpus

import "github.com/oneconcern/deduplab/internal/rand"

// DuplicateSelector decides whether the next entry of a corpus is a copy of a pooled
// unique payload, and which one.
type DuplicateSelector interface {
	Select(src *rand.Source, ratio float64, poolSize int) (index int, duplicate bool)
}

// ProbabilisticSelector duplicates with probability ratio, choosing uniformly among
// pooled payloads.
//
// Nothing is drawn when the ratio is zero or the pool is empty: a U0 corpus consumes
// entropy for payloads only.
type ProbabilisticSelector struct{}

func (ProbabilisticSelector) Select(src *rand.Source, ratio float64, poolSize int) (int, bool) {
	if ratio <= 0 || poolSize == 0 {
		return 0, false
	}
	if src.Float64() >= ratio {
		return 0, false
	}
	return src.Intn(poolSize), true
}
