// Package classify assigns semantic role labels to RTL signals using a
// configurable naming vocabulary. Its output is the metadata map the
// mapping stage consumes.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/waveeye/sigmap/internal/config"
	"github.com/waveeye/sigmap/internal/extractor"
)

var (
	sensitivityPattern = regexp.MustCompile(`always\s*@\((.*?)\)`)
	assignPattern      = regexp.MustCompile(`(\w+)\s*(?:<=|=)\s*([\w\[\]:]+)`)
	branchPattern      = regexp.MustCompile(`\bif\s*\(|\bcase\s*\(`)
	branchTokenPattern = regexp.MustCompile(`\b\d+'[bhdo][0-9a-fA-F]+\b|\b\w+\b`)
	wordPattern        = regexp.MustCompile(`\b\w+\b`)

	paramBlockPattern  = regexp.MustCompile(`(?s)#\s*\(\s*(parameter\s+.*?\))\s*\)`)
	paramInlinePattern = regexp.MustCompile(`#\(\s*parameter\s+(\w+)`)
	paramLinePattern   = regexp.MustCompile(`^parameter\s+(\w+)`)
	paramNamePattern   = regexp.MustCompile(`^\s*parameter\s+(\w+)`)
	paramAssignPattern = regexp.MustCompile(`^\s*(\w+)\s*(?:=|$)`)
)

// Classifier classifies signals against a loaded vocabulary.
type Classifier struct {
	clock     map[string]bool
	resetLow  map[string]bool
	resetHigh map[string]bool
	control   map[string]bool
	status    map[string]bool
	fsmStates map[string]bool
	keywords  map[string]bool
}

// New builds a Classifier from the configured vocabulary.
func New(vocab config.Vocabulary) *Classifier {
	return &Classifier{
		clock:     config.LowerSet(vocab.ClockKeywords),
		resetLow:  config.LowerSet(vocab.ResetActiveLow),
		resetHigh: config.LowerSet(vocab.ResetActiveHigh),
		control:   config.LowerSet(vocab.ControlSignals),
		status:    config.LowerSet(vocab.StatusFlags),
		fsmStates: config.Set(vocab.FSMStates),
		keywords:  config.Set(vocab.Keywords),
	}
}

// Result holds the classification labels in first-seen order.
type Result struct {
	Module  string
	Order   []string
	Classes map[string]string
}

func (r *Result) set(signal, class string) {
	if _, seen := r.Classes[signal]; !seen {
		r.Order = append(r.Order, signal)
	}
	r.Classes[signal] = class
}

func (r *Result) setIfNew(signal, class string) {
	if _, seen := r.Classes[signal]; !seen {
		r.set(signal, class)
	}
}

// Classify scans prepared RTL lines (comments stripped) and labels every
// signal it can: sensitivity lists, assignment statements, and if/case
// conditions each contribute evidence.
func (c *Classifier) Classify(lines []string) *Result {
	result := &Result{Classes: map[string]string{}}
	if name, ok := extractor.DetectModuleName(lines); ok {
		result.Module = name
	} else {
		result.Module = "unknown_module"
	}

	parameters := DetectParameters(lines)
	declarations := extractor.SignalWidths(lines)
	muxInputs := map[string]bool{}

	// Sorted so the signal order, and with it the output column order,
	// is identical between runs.
	params := make([]string, 0, len(parameters))
	for p := range parameters {
		params = append(params, p)
	}
	sort.Strings(params)
	for _, p := range params {
		result.set(p, "parameter")
	}

	for _, line := range lines {
		if m := sensitivityPattern.FindStringSubmatch(line); m != nil {
			for _, sig := range wordPattern.FindAllString(m[1], -1) {
				switch {
				case parameters[sig]:
					result.set(sig, "parameter")
				case c.isClock(sig):
					result.set(sig, "clock")
				case c.isResetLow(sig):
					result.set(sig, "reset_active_low")
				case c.isResetHigh(sig):
					result.set(sig, "reset_active_high")
				}
			}
		}

		for _, m := range assignPattern.FindAllStringSubmatch(line, -1) {
			lhs, rhs := m[1], m[2]
			if parameters[lhs] {
				result.set(lhs, "parameter")
				continue
			}
			if parameters[rhs] {
				result.set(rhs, "parameter")
				continue
			}
			if c.isStatusFlag(lhs) {
				result.set(lhs, "status_flag")
				continue
			}

			if isAddrSignal(lhs) {
				result.set(lhs, "ADDR_output")
			}
			if isAddrSignal(rhs) {
				result.set(rhs, "ADDR_input")
			}

			switch {
			case c.isClock(lhs):
				result.set(lhs, "clock")
				continue
			case c.isResetLow(lhs):
				result.set(lhs, "reset_active_low")
				continue
			case c.isResetHigh(lhs):
				result.set(lhs, "reset_active_high")
				continue
			case extractor.IsLiteral(lhs) || c.keywords[lhs]:
				continue
			}

			if isFsmSignal(lhs) {
				result.set(lhs, "fsm_control")
			} else if muxInputs[lhs] {
				result.set(lhs, "mux_output")
			} else {
				result.setIfNew(lhs, "control_output")
			}

			if c.fsmStates[rhs] {
				result.set(rhs, "fsm_state")
			}
		}

		if branchPattern.MatchString(line) {
			for _, sig := range uniqueTokens(branchTokenPattern.FindAllString(line, -1)) {
				switch {
				case parameters[sig]:
					result.set(sig, "parameter")
				case isAddrSignal(sig):
					result.set(sig, "Address_register")
				case c.isClock(sig):
					result.set(sig, "clock")
				case c.isResetLow(sig):
					result.set(sig, "reset_active_low")
				case c.isResetHigh(sig):
					result.set(sig, "reset_active_high")
				case extractor.IsLiteral(sig) || c.keywords[sig]:
				case isFsmSignal(sig):
					result.set(sig, "fsm_control")
				case c.fsmStates[sig]:
					result.set(sig, "fsm_state")
				default:
					width, ok := declarations[sig]
					if ok && width.Numeric() && width.Bits > 1 {
						muxInputs[sig] = true
						result.setIfNew(sig, "mux_input")
					} else {
						result.setIfNew(sig, "control_input")
					}
				}
			}
		}
	}

	return result
}

// DetectParameters collects module parameter names from #(parameter ...)
// blocks, inline parameter openers, and standalone parameter lines.
func DetectParameters(lines []string) map[string]bool {
	parameters := map[string]bool{}
	text := strings.Join(lines, " ")

	for _, block := range paramBlockPattern.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(block[1], ",") {
			part = strings.TrimSpace(part)
			if m := paramNamePattern.FindStringSubmatch(part); m != nil {
				parameters[m[1]] = true
			} else if m := paramAssignPattern.FindStringSubmatch(part); m != nil {
				parameters[m[1]] = true
			}
		}
	}

	for _, m := range paramInlinePattern.FindAllStringSubmatch(text, -1) {
		parameters[m[1]] = true
	}

	for _, line := range lines {
		if m := paramLinePattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			parameters[m[1]] = true
		}
	}

	return parameters
}

func (c *Classifier) isClock(sig string) bool     { return c.clock[strings.ToLower(sig)] }
func (c *Classifier) isResetLow(sig string) bool  { return c.resetLow[strings.ToLower(sig)] }
func (c *Classifier) isResetHigh(sig string) bool { return c.resetHigh[strings.ToLower(sig)] }

func (c *Classifier) isStatusFlag(sig string) bool {
	return c.status[strings.ToLower(sig)]
}

func isFsmSignal(sig string) bool {
	return strings.Contains(strings.ToLower(sig), "state")
}

func isAddrSignal(sig string) bool {
	return strings.Contains(strings.ToLower(sig), "addr")
}

func uniqueTokens(tokens []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
