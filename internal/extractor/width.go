package extractor

import (
	"strconv"
	"strings"
)

// Width is a declared bit width: either a concrete bit count or a symbolic
// parameter name whose concrete value is unknown at this analysis level.
type Width struct {
	Bits   int
	Symbol string
}

// Numeric reports whether the width resolved to a concrete bit count.
func (w Width) Numeric() bool {
	return w.Symbol == ""
}

// WidthMismatch records an assignment whose two sides resolve to different
// numeric widths.
type WidthMismatch struct {
	LHS      string `json:"lhs"`
	LHSWidth int    `json:"lhs_width"`
	RHS      string `json:"rhs"`
	RHSWidth int    `json:"rhs_width"`
}

// WidthVocab holds the token sets the width scan must skip. Loaded from
// configuration so the vocabulary can grow without touching this code.
type WidthVocab struct {
	Keywords  map[string]bool
	FSMStates map[string]bool
}

// SignalWidths extracts declared widths from declaration lines. Numeric
// ranges [msb:lsb] resolve to |msb-lsb|+1; parameterized ranges like
// [DATA_WIDTH-1:0] or [PTR_WIDTH:0] record the symbolic name instead.
func SignalWidths(lines []string) map[string]Width {
	decls := map[string]Width{}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if kw := widthDeclPattern.FindString(line); kw == "" {
			continue
		}

		width := Width{Bits: 1}
		if m := numericRangePattern.FindStringSubmatch(line); m != nil {
			msb, _ := strconv.Atoi(m[1])
			lsb, _ := strconv.Atoi(m[2])
			width = Width{Bits: abs(msb-lsb) + 1}
		} else if m := symbolicRangePattern.FindStringSubmatch(line); m != nil {
			width = Width{Symbol: m[1]}
		}

		for _, name := range wordPattern.FindAllString(line, -1) {
			if widthDeclPattern.MatchString(name) || decimalLiteralPattern.MatchString(name) {
				continue
			}
			decls[name] = width
		}
	}
	return decls
}

// DetectWidthMismatches compares declared widths against assignment usage.
// Deliberately conservative: literals, keywords, FSM state labels, and any
// symbolic width are skipped, so false negatives are preferred over false
// positives.
func DetectWidthMismatches(lines []string, vocab WidthVocab) []WidthMismatch {
	decls := SignalWidths(lines)

	var issues []WidthMismatch
	text := strings.Join(lines, " ")
	for _, m := range assignPattern.FindAllStringSubmatch(text, -1) {
		lhs, rhs := m[1], m[2]
		if IsLiteral(rhs) || vocab.Keywords[rhs] || vocab.FSMStates[rhs] {
			continue
		}

		lhsWidth, ok := decls[lhs]
		if !ok {
			lhsWidth = Width{Bits: 1}
		}

		rhsWidth := Width{Bits: 1}
		if rm := numericRangePattern.FindStringSubmatch(rhs); rm != nil {
			msb, _ := strconv.Atoi(rm[1])
			lsb, _ := strconv.Atoi(rm[2])
			rhsWidth = Width{Bits: abs(msb-lsb) + 1}
		} else if rm := symbolicRangePattern.FindStringSubmatch(rhs); rm != nil {
			rhsWidth = Width{Symbol: rm[1]}
		} else if w, ok := decls[rhs]; ok {
			rhsWidth = w
		}

		if lhsWidth.Numeric() && rhsWidth.Numeric() && lhsWidth.Bits != rhsWidth.Bits {
			issues = append(issues, WidthMismatch{
				LHS:      lhs,
				LHSWidth: lhsWidth.Bits,
				RHS:      rhs,
				RHSWidth: rhsWidth.Bits,
			})
		}
	}
	return issues
}

// IsLiteral reports whether a token is a numeric constant or a sized
// SystemVerilog literal such as 8'hFF.
func IsLiteral(token string) bool {
	return decimalLiteralPattern.MatchString(token) || sizedLiteralPattern.MatchString(token)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
