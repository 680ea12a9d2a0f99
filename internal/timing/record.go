package timing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

const (
	// FilePrefix and FileSuffix frame the record name in a record file name.
	FilePrefix = "timing."
	FileSuffix = ".json"

	// FilePattern matches every record file inside a records directory.
	FilePattern = FilePrefix + "*" + FileSuffix
)

// Record is one persisted timing: the block name and its duration in seconds.
type Record struct {
	Name    string  `json:"name" yaml:"name"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
}

// FileName returns the record file name for a block name.
// The name is used verbatim; names containing path separators are not supported.
// Names must be valid UTF-8, as Encode rejects anything else.
func FileName(name string) string {
	return FilePrefix + name + FileSuffix
}

// Encode writes the record as a single-key JSON object {name: seconds}.
func (r Record) Encode(w io.Writer) error {
	// JSON replaces invalid bytes with U+FFFD, so the key would no longer match the file name.
	if !utf8.ValidString(r.Name) {
		return fmt.Errorf("record name %q is not valid UTF-8", r.Name)
	}
	return json.NewEncoder(w).Encode(map[string]float64{r.Name: r.Seconds})
}

// decodeTimings reads a JSON object of numbers.
func decodeTimings(r io.Reader) (map[string]float64, error) {
	var timings map[string]float64
	if err := json.NewDecoder(r).Decode(&timings); err != nil {
		return nil, err
	}
	if timings == nil {
		return nil, errors.New("expected a JSON object, got null")
	}
	return timings, nil
}

// SortedRecords converts an aggregated mapping into records ordered by name.
func SortedRecords(timings map[string]float64) []Record {
	records := make([]Record, 0, len(timings))
	for name, seconds := range timings {
		records = append(records, Record{Name: name, Seconds: seconds})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records
}
