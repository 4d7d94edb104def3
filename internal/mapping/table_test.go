package mapping

import (
	"reflect"
	"testing"

	"github.com/waveeye/sigmap/internal/graph"
	"github.com/waveeye/sigmap/internal/waveform"
)

func testMetadata() *Metadata {
	return &Metadata{
		Order: []string{"uart_busy", "clk", "tx_data"},
		Classes: map[string]string{
			"uart_busy": "status_flag",
			"clk":       "clock",
			"tx_data":   "mux_input",
		},
		Clocks: []string{"clk"},
	}
}

func testRecording() *waveform.Recording {
	headers := []string{"time_ps", "soc_tb.dut.clk", "soc_tb.dut.uart_busy", "soc_tb.dut.tx_data"}
	mkRow := func(vals ...string) waveform.Row {
		row := waveform.Row{}
		for i, h := range headers {
			row[h] = vals[i]
		}
		return row
	}
	return &waveform.Recording{
		Headers: headers,
		Rows: []waveform.Row{
			mkRow("0", "0", "0", "x"),
			mkRow("10", "1", "1", "8'h41"),
		},
	}
}

func TestBuildTableLayout(t *testing.T) {
	tbl, filled, err := BuildTable(testMetadata(), testRecording(), nil, []string{"time_"})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if len(filled) != 0 {
		t.Fatalf("no resolution expected without a connection map, got %#v", filled)
	}

	// Time first, clock second, then metadata order minus the clock.
	wantHeader := []string{"time_ps", "clk", "uart_busy", "tx_data"}
	if !reflect.DeepEqual(tbl.Header, wantHeader) {
		t.Fatalf("header: expected %v, got %v", wantHeader, tbl.Header)
	}
	wantClass := []string{"", "clock", "status_flag", "mux_input"}
	if !reflect.DeepEqual(tbl.ClassRow, wantClass) {
		t.Fatalf("class row: expected %v, got %v", wantClass, tbl.ClassRow)
	}

	wantData := [][]string{
		{"0", "0", "0", "x"},
		{"10", "1", "1", "8'h41"},
	}
	if !reflect.DeepEqual(tbl.Data, wantData) {
		t.Fatalf("data: expected %v, got %v", wantData, tbl.Data)
	}
}

func TestBuildTableUnobservedSignal(t *testing.T) {
	meta := testMetadata()
	meta.Order = append(meta.Order, "ghost")
	meta.Classes["ghost"] = "other"

	tbl, _, err := BuildTable(meta, testRecording(), nil, []string{"time_"})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	last := len(tbl.Header) - 1
	if tbl.Header[last] != "ghost" {
		t.Fatalf("expected ghost column last, got %v", tbl.Header)
	}
	for _, row := range tbl.Data {
		if row[last] != "" {
			t.Fatalf("unobserved signal must stay empty, got %q", row[last])
		}
	}
}

func TestBuildTableNoTimeColumn(t *testing.T) {
	rec := &waveform.Recording{
		Headers: []string{"clk"},
		Rows:    []waveform.Row{{"clk": "0"}},
	}
	if _, _, err := BuildTable(testMetadata(), rec, nil, []string{"time_"}); err == nil {
		t.Fatalf("expected an error when no time column exists")
	}
}

func TestBuildTableNoRows(t *testing.T) {
	rec := &waveform.Recording{Headers: []string{"time_ps"}}
	if _, _, err := BuildTable(testMetadata(), rec, nil, []string{"time_"}); err == nil {
		t.Fatalf("expected an error for an empty recording")
	}
}

// Values observed only on a child port column flow back to the parent
// signal through the connectivity map: the bench records
// soc_tb.dut.u_uart.tx_busy, and uart_busy has no column of its own.
func TestBuildTableResolvesThroughConnectivity(t *testing.T) {
	meta := &Metadata{
		Order:   []string{"uart_busy"},
		Classes: map[string]string{"uart_busy": "status_flag"},
	}
	headers := []string{"time_ps", "soc_tb.dut.u_uart.tx_busy"}
	rec := &waveform.Recording{
		Headers: headers,
		Rows: []waveform.Row{
			{"time_ps": "0", "soc_tb.dut.u_uart.tx_busy": "0"},
			{"time_ps": "10", "soc_tb.dut.u_uart.tx_busy": "1"},
		},
	}
	conns := []graph.Connection{
		{ParentModule: "soc_top", ChildModule: "uart_tx", Instance: "u_uart", ChildPort: "tx_busy", ParentSignal: "uart_busy"},
	}
	cm := graph.BuildConnMap(conns)

	tbl, filled, err := BuildTable(meta, rec, cm, []string{"time_"})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	wantData := [][]string{{"0", "0"}, {"10", "1"}}
	if !reflect.DeepEqual(tbl.Data, wantData) {
		t.Fatalf("expected values filled from the connected column, got %v", tbl.Data)
	}
	if len(filled) != 1 || filled[0].Signal != "uart_busy" || filled[0].Source != "soc_tb.dut.u_uart.tx_busy" {
		t.Fatalf("expected one fill record, got %#v", filled)
	}
}

// A direct observation always wins: resolution only runs for cells whose
// own column is empty in that row.
func TestBuildTableDirectValueNeverOverridden(t *testing.T) {
	meta := &Metadata{
		Order:   []string{"uart_busy"},
		Classes: map[string]string{"uart_busy": "status_flag"},
	}
	headers := []string{"time_ps", "soc_tb.dut.uart_busy", "soc_tb.dut.u_uart.tx_busy"}
	rec := &waveform.Recording{
		Headers: headers,
		Rows: []waveform.Row{
			{"time_ps": "0", "soc_tb.dut.uart_busy": "1", "soc_tb.dut.u_uart.tx_busy": "0"},
			{"time_ps": "10", "soc_tb.dut.uart_busy": "-", "soc_tb.dut.u_uart.tx_busy": "x"},
		},
	}
	conns := []graph.Connection{
		{ParentModule: "soc_top", ChildModule: "uart_tx", Instance: "u_uart", ChildPort: "tx_busy", ParentSignal: "uart_busy"},
	}
	cm := graph.BuildConnMap(conns)

	tbl, _, err := BuildTable(meta, rec, cm, []string{"time_"})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if got := tbl.Data[0][1]; got != "1" {
		t.Fatalf("row 0: direct value must survive, got %q", got)
	}
	// Row 1 has no direct value; the connected "x" is a real observation
	// and must propagate.
	if got := tbl.Data[1][1]; got != "x" {
		t.Fatalf("row 1: expected x from connected column, got %q", got)
	}
}

func TestBuildTableAllEmptyStaysEmpty(t *testing.T) {
	meta := &Metadata{
		Order:   []string{"uart_busy"},
		Classes: map[string]string{"uart_busy": "status_flag"},
	}
	rec := &waveform.Recording{
		Headers: []string{"time_ps", "soc_tb.dut.u_uart.tx_busy"},
		Rows: []waveform.Row{
			{"time_ps": "0", "soc_tb.dut.u_uart.tx_busy": "-"},
		},
	}
	conns := []graph.Connection{
		{ParentModule: "soc_top", ChildModule: "uart_tx", Instance: "u_uart", ChildPort: "tx_busy", ParentSignal: "uart_busy"},
	}
	tbl, filled, err := BuildTable(meta, rec, graph.BuildConnMap(conns), []string{"time_"})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if got := tbl.Data[0][1]; got != "" {
		t.Fatalf("expected empty cell when every source is empty, got %q", got)
	}
	if len(filled) != 0 {
		t.Fatalf("no fill record expected, got %#v", filled)
	}
}
