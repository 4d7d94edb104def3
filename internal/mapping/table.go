package mapping

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/waveeye/sigmap/internal/graph"
	"github.com/waveeye/sigmap/internal/waveform"
)

// Table is the three-part output structure: a classification row, a header
// row, and one data row per sampled row.
type Table struct {
	ClassRow []string   `json:"class_row"`
	Header   []string   `json:"header"`
	Data     [][]string `json:"rows"`
}

// Filled records one signal whose values were substituted from a connected
// alternate during resolution.
type Filled struct {
	Signal string
	Source string
}

// BuildTable attributes waveform values to metadata signals: the time
// column first, the clock column second when one exists, then every
// remaining metadata signal in its original order. A cell whose direct
// observation is empty is resolved through the connection map; "x"/"z"
// propagate, truly absent values stay empty. Resolution is stateless per
// row: a signal filled from a connection in one row is re-resolved in the
// next.
func BuildTable(meta *Metadata, rec *waveform.Recording, connMap graph.ConnMap, timePrefixes []string) (*Table, []Filled, error) {
	if len(rec.Rows) == 0 {
		return nil, nil, fmt.Errorf("waveform holds no sampled rows")
	}

	timeCol, err := waveform.TimeColumn(rec.Headers, timePrefixes)
	if err != nil {
		return nil, nil, err
	}

	signalMap := MatchWaveformSignals(rec.Headers, meta)

	// The clock column is the first waveform header (in header order)
	// whose metadata signal carries the clock label.
	clockColumn := ""
	clockSource := ""
	for _, h := range rec.Headers {
		if metaSig, ok := signalMap[h]; ok && meta.IsClock(metaSig) {
			clockColumn = metaSig
			clockSource = h
			break
		}
	}

	// Reverse lookup: metadata signal -> first waveform header observing it.
	sourceOf := map[string]string{}
	for _, h := range rec.Headers {
		if metaSig, ok := signalMap[h]; ok {
			if _, seen := sourceOf[metaSig]; !seen {
				sourceOf[metaSig] = h
			}
		}
	}

	header := []string{timeCol}
	if clockColumn != "" {
		header = append(header, clockColumn)
	}
	for _, metaSig := range meta.Order {
		if metaSig != clockColumn {
			header = append(header, metaSig)
		}
	}

	var filled []Filled
	filledSeen := map[string]bool{}

	var data [][]string
	for _, row := range rec.Rows {
		out := make([]string, 0, len(header))
		out = append(out, row[timeCol])
		if clockColumn != "" {
			out = append(out, row[clockSource])
		}

		for _, metaSig := range meta.Order {
			if metaSig == clockColumn {
				continue
			}

			value := ""
			if src, ok := sourceOf[metaSig]; ok {
				value = row[src]
			}

			if IsEmptyValue(value) && connMap != nil {
				if connected := FindConnectedSignal(metaSig, rec.Headers, connMap); connected != "" {
					if v := row[connected]; !IsEmptyValue(v) {
						value = v
						if !filledSeen[metaSig] {
							filledSeen[metaSig] = true
							filled = append(filled, Filled{Signal: metaSig, Source: connected})
						}
					}
				}
			}

			out = append(out, value)
		}
		data = append(data, out)
	}

	classRow := make([]string, 0, len(header))
	for _, col := range header {
		switch {
		case col == timeCol:
			classRow = append(classRow, "")
		case col == clockColumn:
			classRow = append(classRow, "clock")
		default:
			if cls, ok := meta.Class(col); ok {
				classRow = append(classRow, cls)
			} else {
				classRow = append(classRow, "other")
			}
		}
	}

	return &Table{ClassRow: classRow, Header: header, Data: data}, filled, nil
}

// WriteCSV serializes the table: row 1 classification labels, row 2 column
// headers, rows 3+ data.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.ClassRow); err != nil {
		return fmt.Errorf("writing class row: %w", err)
	}
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	for _, row := range t.Data {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing data row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
