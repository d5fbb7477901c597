package model

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

const (
	// corpus entries
	entryExt          = ".dat"
	entryIndexDigits  = 6
	fingerprintDigits = 16

	// results
	recordExt     = ".json"
	summarySuffix = "_summary.json"

	// report artifacts
	SummaryTextFile = "summary.txt"
	MetricsEnvFile  = "metrics.env"
	MetricsPromFile = "metrics.prom"
	ChartDataFile   = "chart_data.csv"
)

var isEntryNameRe *regexp.Regexp

func init() {
	isEntryNameRe = regexp.MustCompile(fmt.Sprintf(`^(\d{%d,})_([0-9a-f]{%d})\%s$`, entryIndexDigits, fingerprintDigits, entryExt))
}

// EntryPathComponents defines the parts of the path to a corpus entry
type EntryPathComponents struct {
	Grade       Grade
	Type        PayloadType
	Index       int
	Fingerprint string
}

// GetCorpusDir yields the directory holding the entries of a (grade, payload type) corpus,
// as in: {grade}/{payload type}
func GetCorpusDir(grade Grade, typ PayloadType) string {
	return path.Join(string(grade), string(typ))
}

// GetEntryName yields the file name of a corpus entry, as in: {index:06d}_{fingerprint}.dat
//
// Names sort like generation order.
func GetEntryName(index int, fingerprint string) string {
	return fmt.Sprintf("%0*d_%s%s", entryIndexDigits, index, fingerprint, entryExt)
}

// GetPathToEntry yields the full key of a corpus entry
func GetPathToEntry(grade Grade, typ PayloadType, index int, fingerprint string) string {
	return path.Join(GetCorpusDir(grade, typ), GetEntryName(index, fingerprint))
}

// IsEntryName tells if a base name looks like a corpus entry
func IsEntryName(name string) bool {
	return isEntryNameRe.MatchString(name)
}

// ParseEntryName extracts the sequence index and fingerprint from a corpus entry name
func ParseEntryName(name string) (int, string, error) {
	m := isEntryNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, "", ErrInvalidEntryName.Wrapf("%q", name)
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", ErrInvalidEntryName.Wrap(err)
	}
	return index, m[2], nil
}

// GetEntryPathComponents parses a corpus entry key, as in: {grade}/{payload type}/{index}_{fingerprint}.dat
//
// The key may be prefixed by some root path.
func GetEntryPathComponents(key string) (EntryPathComponents, error) {
	cs := strings.Split(strings.Trim(key, "/"), "/")
	if len(cs) < 3 {
		return EntryPathComponents{},
			ErrInvalidEntryName.Wrapf("expect path to entry to have at least 3 parts: %s", key)
	}
	n := len(cs)
	index, fp, err := ParseEntryName(cs[n-1])
	if err != nil {
		return EntryPathComponents{}, err
	}
	return EntryPathComponents{
		Grade:       Grade(cs[n-3]),
		Type:        PayloadType(cs[n-2]),
		Index:       index,
		Fingerprint: fp,
	}, nil
}

// GetStageDir yields the directory holding the records of a stage
func GetStageDir(stage string) string {
	return stage
}

// GetPathToRecord yields the key of a record, as in: {stage}/{system}_{grade}.json
func GetPathToRecord(stage, system string, grade Grade) string {
	return path.Join(GetStageDir(stage), system+"_"+string(grade)+recordExt)
}

// IsRecordFile tells if a key looks like a record file
func IsRecordFile(key string) bool {
	return strings.HasSuffix(key, recordExt) && !strings.HasSuffix(key, summarySuffix)
}

// GetPathToSummary yields the key of the summary of a stage, as in: {stage}_summary.json
func GetPathToSummary(stage string) string {
	return stage + summarySuffix
}
