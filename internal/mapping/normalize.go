package mapping

import (
	"regexp"
	"strings"
)

var (
	dutPrefixPattern  = regexp.MustCompile(`^[^.]*\.dut\.`)
	tbPrefixPattern   = regexp.MustCompile(`^[^.]*\.tb\.`)
	topPrefixPattern  = regexp.MustCompile(`^top\.`)
	arrayIndexPattern = regexp.MustCompile(`\[[^\]]*\]`)
)

// Normalize canonicalizes a hierarchical signal name for equality
// comparison:
//
//	soc_tb.dut.uart_busy      -> uart_busy
//	soc_tb.dut.u_uart.tx_busy -> u_uart.tx_busy
//	reg0[31:0]                -> reg0
//
// The function is pure and idempotent.
func Normalize(name string) string {
	name = dutPrefixPattern.ReplaceAllString(name, "")
	name = tbPrefixPattern.ReplaceAllString(name, "")
	name = topPrefixPattern.ReplaceAllString(name, "")
	name = arrayIndexPattern.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

// LastComponent returns the text after the final dot, with any array index
// removed and lowercased. Used by the looser matching strategies.
func LastComponent(name string) string {
	parts := strings.Split(name, ".")
	base := parts[len(parts)-1]
	base = arrayIndexPattern.ReplaceAllString(base, "")
	return strings.ToLower(base)
}

// LastTwoComponents returns the final two dot-delimited components joined,
// for one-level-nested instance signals such as "u_uart.tx_busy". Returns
// "" when the name has fewer than two components.
func LastTwoComponents(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[len(parts)-2:], ".")
}
