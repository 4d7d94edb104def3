// Package waveform reads the sampled table produced by the waveform-trace
// collaborator: one row per sample time, keyed by raw signal column name.
package waveform

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Row is one time-indexed observation. Values are raw strings: "x" and "z"
// are valid domain values, while "", "-" and "?" mean nothing was recorded.
type Row map[string]string

// Recording is an ordered sequence of sampled rows sharing one header set.
type Recording struct {
	Headers []string
	Rows    []Row
}

// Load reads a sampled waveform CSV.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening waveform: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing waveform CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("waveform %s is empty", path)
	}

	rec := &Recording{Headers: records[0]}
	for _, fields := range records[1:] {
		row := make(Row, len(rec.Headers))
		for i, h := range rec.Headers {
			if i < len(fields) {
				row[h] = fields[i]
			} else {
				row[h] = ""
			}
		}
		rec.Rows = append(rec.Rows, row)
	}
	return rec, nil
}

// TimeColumn finds the column carrying the time axis by its header prefix
// convention (time_ps, time_ns, ...) rather than a fixed name.
func TimeColumn(headers []string, prefixes []string) (string, error) {
	for _, h := range headers {
		for _, p := range prefixes {
			if strings.HasPrefix(h, p) {
				return h, nil
			}
		}
	}
	return "", fmt.Errorf("no time column found (expected a header with prefix %v)", prefixes)
}
