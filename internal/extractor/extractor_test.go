package extractor

import (
	"reflect"
	"strings"
	"testing"
)

const uartSource = `
// UART transmitter wrapper
module uart_top (
    input  wire clk,
    input  wire rst_n,
    input  wire [7:0] tx_data,
    output wire tx_busy
);

    wire baud_tick;
    reg  [7:0] tx_shift;

    /* baud generator with a parameter override */
    baud_gen #(.DIVISOR(16)) u_baud (
        .clk(clk),
        .rst_n(rst_n),
        .tick(baud_tick)
    );

    uart_tx u_tx (
        .clk(clk),
        .data({tx_shift, baud_tick}),
        .busy(tx_busy)
    );

endmodule
`

func TestExtractSource(t *testing.T) {
	facts, err := ExtractSource("uart_top.v", uartSource)
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}
	if facts.Module != "uart_top" {
		t.Fatalf("expected module uart_top, got %q", facts.Module)
	}

	wantPorts := []string{"clk", "rst_n", "tx_busy", "tx_data"}
	if !reflect.DeepEqual(facts.Ports, wantPorts) {
		t.Fatalf("ports: expected %v, got %v", wantPorts, facts.Ports)
	}

	for _, sig := range []string{"baud_tick", "tx_shift"} {
		if !contains(facts.Signals, sig) {
			t.Fatalf("expected signal %q in %v", sig, facts.Signals)
		}
	}
}

func TestExtractSourceNoModule(t *testing.T) {
	_, err := ExtractSource("junk.v", "wire a;\nassign a = 1;\n")
	if err == nil {
		t.Fatalf("expected error for source without a module declaration")
	}
}

func TestDetectInstantiationsInline(t *testing.T) {
	facts, err := ExtractSource("uart_top.v", uartSource)
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}
	if len(facts.Instances) != 2 {
		t.Fatalf("expected 2 instances, got %#v", facts.Instances)
	}

	tx := facts.Instances[1]
	if tx.Submodule != "uart_tx" || tx.Name != "u_tx" {
		t.Fatalf("expected uart_tx/u_tx, got %s/%s", tx.Submodule, tx.Name)
	}
	if tx.Unterminated {
		t.Fatalf("instance %s should be terminated", tx.Name)
	}
	want := []PortBinding{
		{Port: "clk", Expr: "clk"},
		{Port: "data", Expr: "{tx_shift, baud_tick"},
		{Port: "busy", Expr: "tx_busy"},
	}
	if !reflect.DeepEqual(tx.Bindings, want) {
		t.Fatalf("bindings: expected %v, got %v", want, tx.Bindings)
	}
}

func TestDetectInstantiationsParamSingleLine(t *testing.T) {
	facts, err := ExtractSource("uart_top.v", uartSource)
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}

	baud := facts.Instances[0]
	if baud.Submodule != "baud_gen" || baud.Name != "u_baud" {
		t.Fatalf("expected baud_gen/u_baud, got %s/%s", baud.Submodule, baud.Name)
	}
	// The #(.DIVISOR(16)) parameter binding must not leak into the ports.
	for _, b := range baud.Bindings {
		if b.Port == "DIVISOR" {
			t.Fatalf("parameter binding leaked into port list: %#v", baud.Bindings)
		}
	}
	if len(baud.Bindings) != 3 {
		t.Fatalf("expected 3 port bindings, got %#v", baud.Bindings)
	}
}

func TestDetectInstantiationsMultiLineParam(t *testing.T) {
	src := `
module top;
    fifo #(
        .DEPTH(32),
        .WIDTH(8)
    ) u_fifo (
        .clk(clk),
        .din(wr_data)
    );
endmodule
`
	facts, err := ExtractSource("top.v", src)
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}
	if len(facts.Instances) != 1 {
		t.Fatalf("expected 1 instance, got %#v", facts.Instances)
	}
	inst := facts.Instances[0]
	if inst.Submodule != "fifo" || inst.Name != "u_fifo" {
		t.Fatalf("expected fifo/u_fifo, got %s/%s", inst.Submodule, inst.Name)
	}
	want := []PortBinding{
		{Port: "clk", Expr: "clk"},
		{Port: "din", Expr: "wr_data"},
	}
	if !reflect.DeepEqual(inst.Bindings, want) {
		t.Fatalf("bindings: expected %v, got %v", want, inst.Bindings)
	}
}

func TestDetectInstantiationsUnterminated(t *testing.T) {
	src := `
module top;
    uart_tx u_tx (
        .clk(clk),
        .busy(tx_busy)
endmodule
`
	facts, err := ExtractSource("top.v", src)
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}
	if len(facts.Instances) != 1 {
		t.Fatalf("expected 1 instance, got %#v", facts.Instances)
	}
	inst := facts.Instances[0]
	if !inst.Unterminated {
		t.Fatalf("expected unterminated flag on %s", inst.Name)
	}
	if len(inst.Bindings) != 2 {
		t.Fatalf("expected the partial bindings to be kept, got %#v", inst.Bindings)
	}
}

func TestDetectInstantiationsSkipsKeywords(t *testing.T) {
	src := `
module top (input wire clk);
    always @(posedge clk) begin
        if (rst) begin
        end
    end
endmodule
`
	facts, err := ExtractSource("top.v", src)
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}
	if len(facts.Instances) != 0 {
		t.Fatalf("structural keywords must not become instances: %#v", facts.Instances)
	}
}

func TestStripComments(t *testing.T) {
	src := "wire a; // trailing\n/* block\nspanning */ wire b;\n"
	got := StripComments(src)
	for _, banned := range []string{"trailing", "block", "spanning"} {
		if strings.Contains(got, banned) {
			t.Fatalf("comment text %q survived: %q", banned, got)
		}
	}
	if !strings.Contains(got, "wire a;") || !strings.Contains(got, "wire b;") {
		t.Fatalf("code stripped along with comments: %q", got)
	}
}

func TestTokenizeExpr(t *testing.T) {
	got := TokenizeExpr("{tx_shift[7:0], baud_tick}")
	want := []string{"tx_shift", "baud_tick"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
