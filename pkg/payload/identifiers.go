package payload

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/model"
)

// IdentifiersPerList is the number of UUIDs in an identifier-list payload
const IdentifiersPerList = 50

type identifierListGenerator struct{}

func (g *identifierListGenerator) Type() model.PayloadType {
	return model.PayloadIdentifierList
}

func (g *identifierListGenerator) Generate(src *rand.Source) ([]byte, error) {
	ids := make([]string, 0, IdentifiersPerList)
	for i := 0; i < IdentifiersPerList; i++ {
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}
	return []byte(strings.Join(ids, "\n")), nil
}
