package extractor

import "testing"

func TestSignalWidths(t *testing.T) {
	lines := []string{
		"reg [7:0] data;",
		"wire valid;",
		"reg [DATA_WIDTH-1:0] payload;",
		"reg [PTR_WIDTH:0] rd_ptr;",
	}
	widths := SignalWidths(lines)

	if w := widths["data"]; !w.Numeric() || w.Bits != 8 {
		t.Fatalf("data: expected 8 bits, got %#v", w)
	}
	if w := widths["valid"]; !w.Numeric() || w.Bits != 1 {
		t.Fatalf("valid: expected 1 bit, got %#v", w)
	}
	if w := widths["payload"]; w.Numeric() || w.Symbol != "DATA_WIDTH" {
		t.Fatalf("payload: expected symbolic DATA_WIDTH, got %#v", w)
	}
	if w := widths["rd_ptr"]; w.Numeric() || w.Symbol != "PTR_WIDTH" {
		t.Fatalf("rd_ptr: expected symbolic PTR_WIDTH, got %#v", w)
	}
}

func TestDetectWidthMismatches(t *testing.T) {
	lines := []string{
		"reg [7:0] wide;",
		"reg narrow;",
		"always @(posedge clk) narrow <= wide;",
	}
	issues := DetectWidthMismatches(lines, WidthVocab{})
	if len(issues) != 1 {
		t.Fatalf("expected 1 mismatch, got %#v", issues)
	}
	got := issues[0]
	if got.LHS != "narrow" || got.LHSWidth != 1 || got.RHS != "wide" || got.RHSWidth != 8 {
		t.Fatalf("unexpected mismatch %#v", got)
	}
}

func TestDetectWidthMismatchesSymbolicSkipped(t *testing.T) {
	lines := []string{
		"reg [DATA_WIDTH-1:0] payload;",
		"reg narrow;",
		"assign narrow = payload;",
	}
	issues := DetectWidthMismatches(lines, WidthVocab{})
	if len(issues) != 0 {
		t.Fatalf("symbolic widths must never be flagged, got %#v", issues)
	}
}

func TestDetectWidthMismatchesVocabSkipped(t *testing.T) {
	lines := []string{
		"reg [2:0] state;",
		"always @(posedge clk) state <= IDLE;",
	}
	vocab := WidthVocab{FSMStates: map[string]bool{"IDLE": true}}
	if issues := DetectWidthMismatches(lines, vocab); len(issues) != 0 {
		t.Fatalf("FSM state labels must be skipped, got %#v", issues)
	}
}

func TestIsLiteral(t *testing.T) {
	for _, tok := range []string{"42", "8'hFF", "4'b1010", "16'd255"} {
		if !IsLiteral(tok) {
			t.Fatalf("expected %q to be a literal", tok)
		}
	}
	for _, tok := range []string{"wide", "data_out", "IDLE"} {
		if IsLiteral(tok) {
			t.Fatalf("expected %q not to be a literal", tok)
		}
	}
}
