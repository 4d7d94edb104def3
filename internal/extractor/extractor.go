package extractor

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// FileFacts contains all structural information extracted from one RTL file.
type FileFacts struct {
	File      string
	Module    string
	Ports     []string
	Signals   []string
	Instances []Instance
}

// Instance is one module instantiation site.
type Instance struct {
	Submodule string
	Name      string
	Line      int
	// Unterminated is set when the port-connection block reached end of
	// input without a closing ");" and was accepted as-is.
	Unterminated bool
	Bindings     []PortBinding
}

// PortBinding maps a child port name to the raw parent-side expression text.
// The expression is trimmed but never parsed: it may be a bare identifier,
// a concatenation, or a constant.
type PortBinding struct {
	Port string
	Expr string
}

// Extract reads an RTL file and extracts its structural facts.
func Extract(path string) (FileFacts, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileFacts{File: path}, fmt.Errorf("reading file: %w", err)
	}
	return ExtractSource(path, string(content))
}

// ExtractSource extracts structural facts from RTL source text.
// Returns an error only when the text declares no module at all; every
// other malformed construct degrades to partial extraction.
func ExtractSource(path, content string) (FileFacts, error) {
	lines := PrepareLines(content)

	facts := FileFacts{File: path}

	name, ok := DetectModuleName(lines)
	if !ok {
		return facts, fmt.Errorf("no module declaration found in %s", path)
	}
	facts.Module = name
	facts.Ports, facts.Signals = DetectPortsAndSignals(lines)
	facts.Instances = DetectInstantiations(lines)

	return facts, nil
}

// PrepareLines strips comments and drops blank lines, preserving order.
func PrepareLines(content string) []string {
	stripped := StripComments(content)
	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}
	return lines
}

// DetectModuleName returns the first declared module name.
func DetectModuleName(lines []string) (string, bool) {
	for _, line := range lines {
		if name, ok := matchModuleName(line); ok {
			return name, true
		}
	}
	return "", false
}

// DetectPortsAndSignals extracts the module's port list from the module
// header and the internally declared signal names from the whole body.
// Both lists are sorted and de-duplicated.
func DetectPortsAndSignals(lines []string) (ports, signals []string) {
	var headerLines []string
	inHeader := false
	for _, line := range lines {
		if _, ok := matchModuleName(line); ok {
			inHeader = true
		}
		if inHeader {
			headerLines = append(headerLines, line)
			if strings.Contains(line, ");") {
				break
			}
		}
	}
	headerText := strings.Join(headerLines, " ")

	portSet := map[string]bool{}
	for _, m := range portPattern.FindAllStringSubmatch(headerText, -1) {
		portSet[m[1]] = true
	}

	signalSet := map[string]bool{}
	for _, line := range lines {
		for _, m := range signalPattern.FindAllStringSubmatch(line, -1) {
			signalSet[m[1]] = true
		}
	}

	return sortedKeys(portSet), sortedKeys(signalSet)
}

// DetectInstantiations scans for module instantiations. Two shapes are
// recognized: inline ("type [#(params)] name (") and parameterized
// multi-line ("type #(" with ") name (" on a later line).
func DetectInstantiations(lines []string) []Instance {
	var instances []Instance
	n := len(lines)
	i := 0
	for i < n {
		line := lines[i]

		if m := inlineInstPattern.FindStringSubmatch(line); m != nil && !structuralKeywords[m[1]] {
			submodule, instName := m[1], m[2]
			block, closeIdx, terminated := accumulateUntilClose(lines, i)
			instances = append(instances, buildInstance(submodule, instName, i+1, block, terminated))
			i = closeIdx + 1
			continue
		}

		if m := paramInstPattern.FindStringSubmatch(line); m != nil && !structuralKeywords[m[1]] {
			submodule := m[1]
			// The instance name appears on a later ") name (" line; scan
			// forward to find it before the port block can be read.
			found := false
			for j := i; j < n; j++ {
				if mi := paramInstNamePattern.FindStringSubmatch(lines[j]); mi != nil {
					block, closeIdx, terminated := accumulateUntilClose(lines, j)
					instances = append(instances, buildInstance(submodule, mi[1], i+1, block, terminated))
					i = closeIdx + 1
					found = true
					break
				}
			}
			if found {
				continue
			}
			// No instance name matched: best-effort, skip the opener.
		}

		i++
	}
	return instances
}

// accumulateUntilClose joins lines starting at start until one containing
// ");" is seen. An unterminated block is accepted with whatever was
// accumulated; terminated reports whether the close token was found.
func accumulateUntilClose(lines []string, start int) (block string, closeIdx int, terminated bool) {
	parts := []string{lines[start]}
	i := start + 1
	for i < len(lines) && !strings.Contains(lines[i], ");") {
		parts = append(parts, lines[i])
		i++
	}
	if i < len(lines) {
		parts = append(parts, lines[i])
		terminated = true
	}
	return strings.Join(parts, " "), i, terminated
}

func buildInstance(submodule, name string, line int, block string, terminated bool) Instance {
	inst := Instance{
		Submodule:    submodule,
		Name:         name,
		Line:         line,
		Unterminated: !terminated,
	}

	// Port bindings are read only after the instance name's opening paren,
	// so parameter bindings in a "#(...)" list are never mistaken for ports.
	portBlock := block
	namePattern := regexp.MustCompile(regexp.QuoteMeta(name) + `\s*\(`)
	if loc := namePattern.FindStringIndex(block); loc != nil {
		portBlock = block[loc[1]:]
	}

	for _, m := range portBindingPattern.FindAllStringSubmatch(portBlock, -1) {
		inst.Bindings = append(inst.Bindings, PortBinding{
			Port: m[1],
			Expr: strings.TrimSpace(m[2]),
		})
	}
	return inst
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
