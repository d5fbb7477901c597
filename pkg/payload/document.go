package payload

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/model"
)

var documentTags = []string{
	"python", "rust", "cpp", "java", "go",
	"sql", "nosql", "dedup", "storage",
}

const (
	documentTagsCount = 3
	documentFillerLen = 500
)

// field order is the serialization order
type document struct {
	ID        string           `json:"id"`
	Timestamp string           `json:"timestamp"`
	User      documentUser     `json:"user"`
	Metadata  documentMetadata `json:"metadata"`
	Payload   string           `json:"payload"`
}

type documentUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

type documentMetadata struct {
	Tags   []string `json:"tags"`
	Score  float64  `json:"score"`
	Active bool     `json:"active"`
}

type documentGenerator struct {
	now func() time.Time
}

func (g *documentGenerator) Type() model.PayloadType {
	return model.PayloadJSONDocument
}

func (g *documentGenerator) Generate(src *rand.Source) ([]byte, error) {
	id, err := uuid.NewRandomFromReader(src)
	if err != nil {
		return nil, err
	}
	doc := document{
		ID:        id.String(),
		Timestamp: formatTimestamp(g.now()),
		User: documentUser{
			Name:  src.StringFrom(rand.Letters, 8),
			Email: "user" + strconv.Itoa(src.IntRange(1, 10000)) + "@example.com",
			Age:   src.IntRange(18, 80),
		},
		Metadata: documentMetadata{
			Tags:   src.Sample(documentTags, documentTagsCount),
			Score:  round2(src.Uniform(0, 100)),
			Active: src.Bool(),
		},
		Payload: src.StringFrom(rand.Alphanumeric, documentFillerLen),
	}
	return model.JSON().MarshalIndent(doc, "", "  ")
}
