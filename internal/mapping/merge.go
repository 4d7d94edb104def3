package mapping

import (
	"encoding/csv"
	"fmt"
	"os"
)

// LoadTable reads a previously written three-part table CSV.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing table CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("table %s: need a classification row and a header row", path)
	}

	return &Table{
		ClassRow: records[0],
		Header:   records[1],
		Data:     records[2:],
	}, nil
}

// MergeTables combines two tables column-wise. The first table's columns
// all survive; the second contributes only columns whose header is new.
// Rows are padded with empty cells so every output row matches the merged
// header length, and the merged row count is the longer of the two.
func MergeTables(a, b *Table) *Table {
	existing := map[string]bool{}
	for _, h := range a.Header {
		existing[h] = true
	}

	var keep []int
	for j, h := range b.Header {
		if !existing[h] {
			keep = append(keep, j)
		}
	}

	merged := &Table{
		ClassRow: append(append([]string{}, a.ClassRow...), pick(b.ClassRow, keep)...),
		Header:   append(append([]string{}, a.Header...), pick(b.Header, keep)...),
	}

	lenA, lenB := len(a.Header), len(b.Header)
	rows := len(a.Data)
	if len(b.Data) > rows {
		rows = len(b.Data)
	}
	for i := 0; i < rows; i++ {
		rowA := make([]string, lenA)
		if i < len(a.Data) {
			copy(rowA, pad(a.Data[i], lenA))
		}
		rowB := make([]string, lenB)
		if i < len(b.Data) {
			copy(rowB, pad(b.Data[i], lenB))
		}
		merged.Data = append(merged.Data, append(rowA, pick(rowB, keep)...))
	}
	return merged
}

// MergeAll folds a list of table files left to right.
func MergeAll(paths []string) (*Table, error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("need at least 2 tables to merge, got %d", len(paths))
	}

	merged, err := LoadTable(paths[0])
	if err != nil {
		return nil, err
	}
	for _, path := range paths[1:] {
		next, err := LoadTable(path)
		if err != nil {
			return nil, err
		}
		merged = MergeTables(merged, next)
	}
	return merged, nil
}

func pick(row []string, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, j := range idx {
		if j < len(row) {
			out = append(out, row[j])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func pad(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	out := make([]string, length)
	copy(out, row)
	return out
}
