package mapping

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestMergeTables(t *testing.T) {
	a := &Table{
		ClassRow: []string{"", "clock", "status_flag"},
		Header:   []string{"time_ps", "clk", "uart_busy"},
		Data: [][]string{
			{"0", "0", "0"},
			{"10", "1", "1"},
		},
	}
	b := &Table{
		ClassRow: []string{"", "clock", "mux_input"},
		Header:   []string{"time_ps", "clk", "tx_data"},
		Data: [][]string{
			{"0", "0", "8'h41"},
		},
	}

	merged := MergeTables(a, b)
	wantHeader := []string{"time_ps", "clk", "uart_busy", "tx_data"}
	if !reflect.DeepEqual(merged.Header, wantHeader) {
		t.Fatalf("header: expected %v, got %v", wantHeader, merged.Header)
	}
	wantClass := []string{"", "clock", "status_flag", "mux_input"}
	if !reflect.DeepEqual(merged.ClassRow, wantClass) {
		t.Fatalf("class row: expected %v, got %v", wantClass, merged.ClassRow)
	}
	// b has fewer rows; the merged second row pads its contribution.
	wantData := [][]string{
		{"0", "0", "0", "8'h41"},
		{"10", "1", "1", ""},
	}
	if !reflect.DeepEqual(merged.Data, wantData) {
		t.Fatalf("data: expected %v, got %v", wantData, merged.Data)
	}
}

func TestMergeTablesShortRows(t *testing.T) {
	a := &Table{
		ClassRow: []string{"", "status_flag"},
		Header:   []string{"time_ps", "busy"},
		Data:     [][]string{{"0"}},
	}
	b := &Table{
		ClassRow: []string{"", "other"},
		Header:   []string{"time_ps", "extra"},
		Data:     [][]string{{"0", "1"}, {"10", "0"}},
	}
	merged := MergeTables(a, b)
	wantData := [][]string{
		{"0", "", "1"},
		{"", "", "0"},
	}
	if !reflect.DeepEqual(merged.Data, wantData) {
		t.Fatalf("data: expected %v, got %v", wantData, merged.Data)
	}
}

func TestMergeAllRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := &Table{
		ClassRow: []string{"", "status_flag"},
		Header:   []string{"time_ps", "uart_busy"},
		Data:     [][]string{{"0", "1"}},
	}
	b := &Table{
		ClassRow: []string{"", "mux_input"},
		Header:   []string{"time_ps", "tx_data"},
		Data:     [][]string{{"0", "8'h41"}},
	}
	pathA := filepath.Join(dir, "uart_mapped.csv")
	pathB := filepath.Join(dir, "spi_mapped.csv")
	if err := a.WriteCSV(pathA); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if err := b.WriteCSV(pathB); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	merged, err := MergeAll([]string{pathA, pathB})
	if err != nil {
		t.Fatalf("MergeAll: %v", err)
	}
	wantHeader := []string{"time_ps", "uart_busy", "tx_data"}
	if !reflect.DeepEqual(merged.Header, wantHeader) {
		t.Fatalf("header: expected %v, got %v", wantHeader, merged.Header)
	}
	if !reflect.DeepEqual(merged.Data, [][]string{{"0", "1", "8'h41"}}) {
		t.Fatalf("data: got %v", merged.Data)
	}
}

func TestMergeAllNeedsTwo(t *testing.T) {
	if _, err := MergeAll([]string{"only.csv"}); err == nil {
		t.Fatalf("expected an error for fewer than 2 tables")
	}
}
