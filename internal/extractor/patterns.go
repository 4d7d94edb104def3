package extractor

import "regexp"

var (
	// Pattern: // line comment
	lineCommentPattern = regexp.MustCompile(`//.*`)

	// Pattern: /* block comment */ (may span lines)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// Pattern: module <name>
	modulePattern = regexp.MustCompile(`^\s*module\s+(\w+)`)

	// Pattern: input|output|inout [wire|reg|logic|bit] [range] <name>
	portPattern = regexp.MustCompile(`(?:input|output|inout)\s+(?:wire|reg|logic|bit)?\s*(?:\[[^\]]+\]\s*)?(\w+)`)

	// Pattern: wire|reg|logic|bit [range] <name>
	signalPattern = regexp.MustCompile(`\b(?:wire|reg|logic|bit)\b\s*(?:\[[^\]]+\]\s*)?(\w+)`)

	// Pattern: <type> [#(params)] <instance> (
	inlineInstPattern = regexp.MustCompile(`^\s*(\w+)\s*(?:#\([^)]*\))?\s+([A-Za-z_]\w*)\s*\(`)

	// Pattern: <type> #(  -- parameterized instantiation, instance name on a later line
	paramInstPattern = regexp.MustCompile(`^\s*(\w+)\s*#\s*\(`)

	// Pattern: ) <instance> (  -- the instance name after a parameter list
	paramInstNamePattern = regexp.MustCompile(`\)\s+([A-Za-z_]\w*)\s*\(`)

	// Pattern: .<port>( <expression> )
	portBindingPattern = regexp.MustCompile(`\.(\w+)\s*\(\s*([^)]+?)\s*\)`)

	// Pattern: bare identifier inside a signal expression
	identPattern = regexp.MustCompile(`[A-Za-z_]\w*`)

	// Pattern: declaration line that may carry a width
	widthDeclPattern = regexp.MustCompile(`^(input|output|inout|reg|wire|logic|bit|parameter|localparam)\b`)

	// Pattern: numeric range [msb:lsb]
	numericRangePattern = regexp.MustCompile(`\[(\d+)\s*:\s*(\d+)\]`)

	// Pattern: parameterized range [NAME-1:0] or [NAME:0]
	symbolicRangePattern = regexp.MustCompile(`\[(\w+)(?:\s*-\s*1)?\s*:\s*0\]`)

	// Pattern: lhs <= rhs  or  lhs = rhs
	assignPattern = regexp.MustCompile(`(\w+)\s*(?:<=|=)\s*([\w\[\]:]+)`)

	// Pattern: decimal literal
	decimalLiteralPattern = regexp.MustCompile(`^\d+$`)

	// Pattern: sized SystemVerilog literal such as 8'hFF
	sizedLiteralPattern = regexp.MustCompile(`^\d+'[bhdo][0-9a-fA-F]+$`)

	wordPattern = regexp.MustCompile(`\b\w+\b`)
)

// structuralKeywords are identifiers that open Verilog constructs and must
// never be mistaken for a submodule type in an instantiation header.
var structuralKeywords = map[string]bool{
	"module": true, "endmodule": true, "input": true, "output": true,
	"inout": true, "wire": true, "reg": true, "logic": true, "bit": true,
	"assign": true, "always": true, "initial": true, "begin": true,
	"end": true, "if": true, "else": true, "case": true, "endcase": true,
	"for": true, "while": true, "generate": true, "endgenerate": true,
	"function": true, "endfunction": true, "task": true, "endtask": true,
	"parameter": true, "localparam": true, "typedef": true, "genvar": true,
	"integer": true, "return": true,
}

// StripComments removes // line comments and /* */ block comments.
func StripComments(s string) string {
	s = lineCommentPattern.ReplaceAllString(s, "")
	s = blockCommentPattern.ReplaceAllString(s, "")
	return s
}

// TokenizeExpr splits a parent-side signal expression into bare identifiers.
// A binding expression may reference several signals (e.g. a concatenation
// "{a, b}"), so downstream matching works on tokens, never the raw text.
func TokenizeExpr(expr string) []string {
	return identPattern.FindAllString(expr, -1)
}

func matchModuleName(line string) (string, bool) {
	if m := modulePattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}
