package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrade(t *testing.T) {
	for label, want := range map[string]float64{"U0": 0, "U50": 0.5, " U90 ": 0.9} {
		g, err := ParseGrade(label)
		require.NoError(t, err)
		p, err := g.Ratio()
		require.NoError(t, err)
		assert.Equal(t, want, p)
	}

	_, err := ParseGrade("U42")
	assert.ErrorIs(t, err, ErrUnknownGrade)
	_, err = ParseGrade("unknown")
	assert.ErrorIs(t, err, ErrUnknownGrade)

	_, err = ParseGrades([]string{"U0", "nope"})
	assert.ErrorIs(t, err, ErrUnknownGrade)
}

func TestRegisterGrade(t *testing.T) {
	require.NoError(t, RegisterGrade("U75", 0.75))
	g, err := ParseGrade("U75")
	require.NoError(t, err)
	p, _ := g.Ratio()
	assert.Equal(t, 0.75, p)
	assert.Equal(t, []Grade{GradeU0, GradeU50, "U75", GradeU90}, Grades())

	assert.ErrorIs(t, RegisterGrade("U100", 1.0), ErrInvalidGradeRatio)
	assert.ErrorIs(t, RegisterGrade("Uneg", -0.1), ErrInvalidGradeRatio)
	assert.ErrorIs(t, RegisterGrade("unknown", 0.2), ErrUnknownGrade)
	assert.ErrorIs(t, RegisterGrade(" ", 0.2), ErrUnknownGrade)
}

func TestParsePayloadType(t *testing.T) {
	for label, want := range map[string]PayloadType{
		"text":                  PayloadText,
		"json":                  PayloadJSONDocument,
		"JSON-Document":         PayloadJSONDocument,
		"uuid":                  PayloadIdentifierList,
		"identifier-list":       PayloadIdentifierList,
		"event":                 PayloadEvent,
		"bank":                  PayloadFinancialTransaction,
		"financial-transaction": PayloadFinancialTransaction,
	} {
		got, err := ParsePayloadType(label)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePayloadType("image")
	assert.ErrorIs(t, err, ErrUnknownPayloadType)

	types, err := ParsePayloadTypes([]string{"text", "uuid"})
	require.NoError(t, err)
	assert.Equal(t, []PayloadType{PayloadText, PayloadIdentifierList}, types)
	assert.Len(t, PayloadTypes(), 5)
}
