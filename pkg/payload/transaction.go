package payload

import (
	"time"

	"github.com/google/uuid"
	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/model"
)

var currencies = []string{"EUR", "USD", "GBP"}

const (
	transactionMaxAgeSeconds = 86400 * 30
	ibanDigits               = 17
	referenceLen             = 20
)

type transaction struct {
	TransactionID string  `json:"transaction_id"`
	Timestamp     string  `json:"timestamp"`
	SenderIBAN    string  `json:"sender_iban"`
	ReceiverIBAN  string  `json:"receiver_iban"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Reference     string  `json:"reference"`
}

type transactionGenerator struct {
	now func() time.Time
}

func (g *transactionGenerator) Type() model.PayloadType {
	return model.PayloadFinancialTransaction
}

func (g *transactionGenerator) Generate(src *rand.Source) ([]byte, error) {
	id, err := uuid.NewRandomFromReader(src)
	if err != nil {
		return nil, err
	}
	txn := transaction{
		TransactionID: id.String(),
		Timestamp:     formatTimestamp(g.now().Add(-time.Duration(src.IntRange(0, transactionMaxAgeSeconds)) * time.Second)),
		SenderIBAN:    "DE" + src.Digits(ibanDigits),
		ReceiverIBAN:  "DE" + src.Digits(ibanDigits),
		Amount:        round2(src.Uniform(0.01, 50000.00)),
		Currency:      src.Choice(currencies),
		Reference:     src.StringFrom(rand.UpperAlphanumeric, referenceLen),
	}
	return model.JSON().Marshal(txn)
}
