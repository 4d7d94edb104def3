package mapping

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Metadata is the external signal-classification input: RTL signal name to
// semantic label, in the file's original order. Order matters because the
// output table lays columns out in metadata iteration order.
type Metadata struct {
	Order   []string
	Classes map[string]string
	Clocks  []string
}

// Class returns a signal's classification label.
func (m *Metadata) Class(signal string) (string, bool) {
	cls, ok := m.Classes[signal]
	return cls, ok
}

// IsClock reports whether the signal carries the clock label.
func (m *Metadata) IsClock(signal string) bool {
	for _, c := range m.Clocks {
		if c == signal {
			return true
		}
	}
	return false
}

// LoadMetadata loads either CSV or JSON metadata. Any other extension is
// an unresolvable-input error.
func LoadMetadata(path string) (*Metadata, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadMetadataCSV(path)
	case ".json":
		return loadMetadataJSON(path)
	default:
		return nil, fmt.Errorf("metadata %s: expected a .csv or .json file", path)
	}
}

// loadMetadataCSV reads the classifier's CSV output: a one-cell module
// preamble row, a header row whose columns contain "signal" and "class",
// then one row per signal.
func loadMetadataCSV(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metadata: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing metadata CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("metadata %s: missing header row", path)
	}

	header := records[1]
	signalCol, classCol := -1, -1
	for i, h := range header {
		lower := strings.ToLower(h)
		if signalCol < 0 && strings.Contains(lower, "signal") {
			signalCol = i
		}
		if classCol < 0 && strings.Contains(lower, "class") {
			classCol = i
		}
	}
	if signalCol < 0 || classCol < 0 {
		return nil, fmt.Errorf("metadata %s: no signal/class columns in header", path)
	}

	meta := &Metadata{Classes: map[string]string{}}
	for _, row := range records[2:] {
		if signalCol >= len(row) || classCol >= len(row) {
			continue
		}
		sig := strings.TrimSpace(row[signalCol])
		cls := strings.TrimSpace(row[classCol])
		if sig == "" {
			continue
		}
		if _, seen := meta.Classes[sig]; !seen {
			meta.Order = append(meta.Order, sig)
		}
		meta.Classes[sig] = cls
		if strings.EqualFold(cls, "clock") {
			meta.Clocks = append(meta.Clocks, sig)
		}
	}
	return meta, nil
}

// loadMetadataJSON reads {"signals": {name: class, ...}}. The object's key
// order is preserved by walking decoder tokens instead of unmarshaling
// into a Go map.
func loadMetadataJSON(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metadata: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("metadata %s: %w", path, err)
	}

	meta := &Metadata{Classes: map[string]string{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("metadata %s: %w", path, err)
		}
		key, _ := keyTok.(string)
		if key != "signals" {
			if err := skipValue(dec); err != nil {
				return nil, fmt.Errorf("metadata %s: %w", path, err)
			}
			continue
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("metadata %s: signals must be an object: %w", path, err)
		}
		for dec.More() {
			sigTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("metadata %s: %w", path, err)
			}
			clsTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("metadata %s: %w", path, err)
			}
			sig, _ := sigTok.(string)
			cls, _ := clsTok.(string)
			if _, seen := meta.Classes[sig]; !seen {
				meta.Order = append(meta.Order, sig)
			}
			meta.Classes[sig] = cls
			if strings.EqualFold(cls, "clock") {
				meta.Clocks = append(meta.Clocks, sig)
			}
		}
		if _, err := dec.Token(); err != nil { // closing }
			return nil, fmt.Errorf("metadata %s: %w", path, err)
		}
	}
	return meta, nil
}

func expectDelim(dec *json.Decoder, d json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != d {
		return fmt.Errorf("expected %q, got %v", d, tok)
	}
	return nil
}

// skipValue consumes one JSON value of any shape.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
