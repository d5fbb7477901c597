package model

import "strings"

// PayloadType is the semantic type of a generated payload
type PayloadType string

const (
	// PayloadText is space separated words from a small vocabulary
	PayloadText PayloadType = "text"

	// PayloadJSONDocument is a semi-structured JSON document
	PayloadJSONDocument PayloadType = "json-document"

	// PayloadIdentifierList is a list of UUIDs, one per line
	PayloadIdentifierList PayloadType = "identifier-list"

	// PayloadEvent is a webhook-style activity record
	PayloadEvent PayloadType = "event"

	// PayloadFinancialTransaction is a synthetic bank transfer
	PayloadFinancialTransaction PayloadType = "financial-transaction"
)

var (
	payloadTypes = []PayloadType{
		PayloadText,
		PayloadJSONDocument,
		PayloadIdentifierList,
		PayloadEvent,
		PayloadFinancialTransaction,
	}

	// short names used by earlier tooling
	payloadAliases = map[string]PayloadType{
		"json": PayloadJSONDocument,
		"uuid": PayloadIdentifierList,
		"bank": PayloadFinancialTransaction,
	}
)

// PayloadTypes lists all supported payload types
func PayloadTypes() []PayloadType {
	out := make([]PayloadType, len(payloadTypes))
	copy(out, payloadTypes)
	return out
}

// ParsePayloadType validates a payload type label, resolving short aliases to their canonical name
func ParsePayloadType(label string) (PayloadType, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if alias, ok := payloadAliases[label]; ok {
		return alias, nil
	}
	for _, t := range payloadTypes {
		if string(t) == label {
			return t, nil
		}
	}
	return "", ErrUnknownPayloadType.Wrapf("%q", label)
}

// ParsePayloadTypes validates a list of payload type labels
func ParsePayloadTypes(labels []string) ([]PayloadType, error) {
	out := make([]PayloadType, 0, len(labels))
	for _, label := range labels {
		t, err := ParsePayloadType(label)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (t PayloadType) String() string {
	return string(t)
}
