package model

import "github.com/oneconcern/deduplab/pkg/errors"

var (
	// ErrUnknownGrade is returned when parsing a duplication grade label which is not registered
	ErrUnknownGrade = errors.New("unknown duplication grade")

	// ErrInvalidGradeRatio is returned when registering a grade with a ratio outside of [0,1)
	ErrInvalidGradeRatio = errors.New("duplication ratio must be in [0,1)")

	// ErrUnknownPayloadType is returned when parsing an unsupported payload type label
	ErrUnknownPayloadType = errors.New("unknown payload type")

	// ErrInvalidEntryName is returned when a corpus file name does not follow the {index}_{fingerprint}.dat layout
	ErrInvalidEntryName = errors.New("invalid corpus entry name")

	// ErrMissingField is returned when a record lacks a required field
	ErrMissingField = errors.New("record is missing a required field")

	// ErrInvalidRecord is returned when a record cannot be decoded
	ErrInvalidRecord = errors.New("invalid run result record")
)
