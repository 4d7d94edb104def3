package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !reflect.DeepEqual(cfg.TimePrefixes, []string{"time_"}) {
		t.Fatalf("time prefixes: got %v", cfg.TimePrefixes)
	}
	if !reflect.DeepEqual(cfg.FilePatterns, []string{"*.v", "*.sv"}) {
		t.Fatalf("file patterns: got %v", cfg.FilePatterns)
	}
	if !Set(cfg.Vocabulary.ClockKeywords)["clk"] {
		t.Fatalf("expected clk in clock keywords, got %v", cfg.Vocabulary.ClockKeywords)
	}
	if !Set(cfg.Vocabulary.ResetActiveLow)["rst_n"] {
		t.Fatalf("expected rst_n in active-low resets, got %v", cfg.Vocabulary.ResetActiveLow)
	}
	if cfg.Policy.Rules == nil {
		t.Fatalf("policy rules map must be initialized")
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigmap.json")
	content := `{
  "timePrefixes": ["t_"],
  "policy": {"rules": {"width-mismatch": "error"}}
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !reflect.DeepEqual(cfg.TimePrefixes, []string{"t_"}) {
		t.Fatalf("time prefixes not overridden: %v", cfg.TimePrefixes)
	}
	if cfg.Policy.Rules["width-mismatch"] != "error" {
		t.Fatalf("rule severity not loaded: %#v", cfg.Policy.Rules)
	}
	// Untouched sections fall back to defaults.
	if len(cfg.Vocabulary.ClockKeywords) == 0 {
		t.Fatalf("vocabulary defaults not applied")
	}
	if !reflect.DeepEqual(cfg.FilePatterns, []string{"*.v", "*.sv"}) {
		t.Fatalf("file pattern defaults not applied: %v", cfg.FilePatterns)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigmap.yaml")
	content := "filePatterns:\n  - \"*.verilog\"\nvocabulary:\n  clockKeywords:\n    - core_clock\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !reflect.DeepEqual(cfg.FilePatterns, []string{"*.verilog"}) {
		t.Fatalf("file patterns not overridden: %v", cfg.FilePatterns)
	}
	if !reflect.DeepEqual(cfg.Vocabulary.ClockKeywords, []string{"core_clock"}) {
		t.Fatalf("clock keywords not overridden: %v", cfg.Vocabulary.ClockKeywords)
	}
	// Other vocabulary lists still default.
	if len(cfg.Vocabulary.ControlSignals) == 0 {
		t.Fatalf("control signal defaults not applied")
	}
}

func TestLoadFileBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigmap.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigmap.json")

	written := DefaultConfig()
	written.Policy.Rules["unterminated-instance"] = "off"
	if err := written.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !reflect.DeepEqual(loaded.Vocabulary, written.Vocabulary) {
		t.Fatalf("vocabulary changed over the round trip")
	}
	if loaded.Policy.Rules["unterminated-instance"] != "off" {
		t.Fatalf("policy rules changed over the round trip: %#v", loaded.Policy.Rules)
	}
}

func TestLowerSet(t *testing.T) {
	set := LowerSet([]string{"IDLE", "Busy"})
	if !set["idle"] || !set["busy"] {
		t.Fatalf("expected lowercase keys, got %v", set)
	}
}

func TestFindRTLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_top.v", "a_core.sv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("module m; endmodule\n"), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
	}

	cfg := DefaultConfig()
	files, err := cfg.FindRTLFiles(dir)
	if err != nil {
		t.Fatalf("FindRTLFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "a_core.sv"), filepath.Join(dir, "b_top.v")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
}

func TestFindRTLFilesSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.vhd")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	// A direct file path bypasses pattern matching.
	files, err := DefaultConfig().FindRTLFiles(path)
	if err != nil {
		t.Fatalf("FindRTLFiles: %v", err)
	}
	if !reflect.DeepEqual(files, []string{path}) {
		t.Fatalf("expected the file itself, got %v", files)
	}
}

func TestFindRTLFilesEmpty(t *testing.T) {
	if _, err := DefaultConfig().FindRTLFiles(t.TempDir()); err == nil {
		t.Fatalf("expected an error for a directory with no RTL files")
	}
}
