package model

import (
	"encoding/json"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

// Well-known record fields
const (
	FieldSystem         = "system"
	FieldStage          = "stage"
	FieldGrade          = "dup_grade"
	FieldSizeDeltaBytes = "size_delta_bytes"
	FieldDurationMS     = "duration_ms"
	FieldEDR            = "edr"
)

// jsonAPI decodes numbers as json.Number, so integers survive a round trip untouched,
// and sorts map keys for reproducible output.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// JSON exposes the codec used for records and summaries
func JSON() jsoniter.API {
	return jsonAPI
}

// Record is a run result: one measurement for a (system, stage, grade) execution.
//
// Only a handful of fields are known. All others are passed through as they come.
type Record map[string]interface{}

// NewRecord builds a record with the well-known fields set
func NewRecord(system, stage string, grade Grade, sizeDeltaBytes int64, durationMS float64) Record {
	return Record{
		FieldSystem:         system,
		FieldStage:          stage,
		FieldGrade:          string(grade),
		FieldSizeDeltaBytes: json.Number(fmt.Sprintf("%d", sizeDeltaBytes)),
		FieldDurationMS:     json.Number(cast.ToString(durationMS)),
	}
}

// DecodeRecord parses a single JSON object
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := jsonAPI.Unmarshal(data, &r); err != nil {
		return nil, ErrInvalidRecord.Wrap(err)
	}
	if r == nil {
		return nil, ErrInvalidRecord.Wrapf("null record")
	}
	return r, nil
}

// Encode the record as indented JSON
func (r Record) Encode() ([]byte, error) {
	return jsonAPI.MarshalIndent(r, "", "  ")
}

// System yields the measured system. It is required.
func (r Record) System() (string, error) {
	v, ok := r[FieldSystem]
	if !ok || v == nil {
		return "", ErrMissingField.Wrapf("%q", FieldSystem)
	}
	return cast.ToStringE(v)
}

// Stage yields the experiment stage, or an empty string
func (r Record) Stage() string {
	v, ok := r[FieldStage]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// Grade yields the duplication grade. Records without one are filed under GradeUnknown.
func (r Record) Grade() Grade {
	v, ok := r[FieldGrade]
	if !ok || v == nil {
		return GradeUnknown
	}
	return Grade(cast.ToString(v))
}

// SizeDeltaBytes yields the physical size delta, 0 when absent
func (r Record) SizeDeltaBytes() float64 {
	return r.number(FieldSizeDeltaBytes)
}

// DurationMS yields the duration of the run in milliseconds, 0 when absent
func (r Record) DurationMS() float64 {
	return r.number(FieldDurationMS)
}

// EDR yields the raw effective dedup ratio, as found on the record
func (r Record) EDR() (interface{}, bool) {
	v, ok := r[FieldEDR]
	return v, ok
}

// EDRText renders the effective dedup ratio as found, or the placeholder
func (r Record) EDRText(placeholder string) string {
	v, ok := r.EDR()
	if !ok {
		return placeholder
	}
	return FormatValue(v)
}

// EDRNumber yields the effective dedup ratio as a number, if present and numeric
func (r Record) EDRNumber() (float64, bool) {
	v, ok := r.EDR()
	if !ok || v == nil {
		return 0, false
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// EDRFloat yields the effective dedup ratio as a number, or def when absent or not numeric
func (r Record) EDRFloat(def float64) float64 {
	if f, ok := r.EDRNumber(); ok {
		return f
	}
	return def
}

// Has tells if a field is present
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Fields lists all field names, sorted
func (r Record) Fields() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r Record) number(field string) float64 {
	v, ok := r[field]
	if !ok || v == nil {
		return 0
	}
	f, err := toFloat(v)
	if err != nil {
		return 0
	}
	return f
}

// FormatValue renders a decoded JSON value the way it was written
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case json.Number:
		return val.String()
	case string:
		return val
	case bool, float64, float32, int, int64, int32, uint64:
		return cast.ToString(val)
	default:
		b, err := jsonAPI.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

func toFloat(v interface{}) (float64, error) {
	if n, ok := v.(json.Number); ok {
		return n.Float64()
	}
	return cast.ToFloat64E(v)
}
