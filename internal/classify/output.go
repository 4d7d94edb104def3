package classify

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
)

// MarshalJSON writes {"module": ..., "signals": {...}} with the signals
// object in classification order, so downstream metadata loading sees the
// same column order every run.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"module":`)
	mod, err := json.Marshal(r.Module)
	if err != nil {
		return nil, err
	}
	buf.Write(mod)
	buf.WriteString(`,"signals":{`)
	for i, sig := range r.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sig)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Classes[sig])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// WriteJSON writes the metadata JSON artifact.
func (r *Result) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling classifications: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes the metadata CSV artifact: a module preamble row, a
// header row, then signal,classification rows.
func (r *Result) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{fmt.Sprintf("module: %s", r.Module)}); err != nil {
		return err
	}
	if err := w.Write([]string{"signal", "classification"}); err != nil {
		return err
	}
	for _, sig := range r.Order {
		if err := w.Write([]string{sig, r.Classes[sig]}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
