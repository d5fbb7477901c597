package payload

import (
	"bytes"

	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/model"
)

var vocabulary = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur",
	"adipiscing", "elit", "sed", "do", "eiusmod", "tempor",
}

type textGenerator struct {
	sizeKiB int
}

func (g *textGenerator) Type() model.PayloadType {
	return model.PayloadText
}

// Generate space-joined words, truncated to exactly sizeKiB * 1024 bytes.
//
// At least sizeKiB * 100 words are drawn, and more until the budget is filled.
func (g *textGenerator) Generate(src *rand.Source) ([]byte, error) {
	budget := g.sizeKiB * 1024
	minWords := g.sizeKiB * 100

	var buf bytes.Buffer
	buf.Grow(budget + 16)
	for words := 0; words < minWords || buf.Len() < budget; words++ {
		if words > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(src.Choice(vocabulary))
	}
	return buf.Bytes()[:budget], nil
}
