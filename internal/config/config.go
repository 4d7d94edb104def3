package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for sigmap.
type Config struct {
	// Vocabulary holds the signal-naming keyword sets used by
	// classification and the width scan. Loaded data, not compiled-in
	// constants, so naming conventions can grow per project.
	Vocabulary Vocabulary `json:"vocabulary,omitempty" yaml:"vocabulary"`

	// TimePrefixes are the header prefixes that identify the waveform
	// time column (time_ps, time_ns, ...).
	TimePrefixes []string `json:"timePrefixes,omitempty" yaml:"timePrefixes"`

	// FilePatterns are the glob patterns recognized as RTL source.
	FilePatterns []string `json:"filePatterns,omitempty" yaml:"filePatterns"`

	// Policy contains structural-defect rule configuration.
	Policy PolicyConfig `json:"policy,omitempty" yaml:"policy"`
}

// Vocabulary is the swappable signal-naming vocabulary.
type Vocabulary struct {
	ClockKeywords   []string `json:"clockKeywords,omitempty" yaml:"clockKeywords"`
	ResetActiveLow  []string `json:"resetActiveLow,omitempty" yaml:"resetActiveLow"`
	ResetActiveHigh []string `json:"resetActiveHigh,omitempty" yaml:"resetActiveHigh"`
	ControlSignals  []string `json:"controlSignals,omitempty" yaml:"controlSignals"`
	StatusFlags     []string `json:"statusFlags,omitempty" yaml:"statusFlags"`
	FSMStates       []string `json:"fsmStates,omitempty" yaml:"fsmStates"`
	Keywords        []string `json:"keywords,omitempty" yaml:"keywords"`
}

// PolicyConfig maps rule names to severity: "off", "info", "warning",
// "error".
type PolicyConfig struct {
	Rules map[string]string `json:"rules,omitempty" yaml:"rules"`
}

// DefaultConfig returns the built-in vocabulary and options.
func DefaultConfig() *Config {
	return &Config{
		Vocabulary: Vocabulary{
			ClockKeywords: []string{
				"clk", "clock", "aclk", "mclk", "sys_clk", "core_clk",
				"sclk", "bclk", "pclk",
			},
			ResetActiveLow: []string{
				"resetn", "rst_n", "aresetn", "reset_l", "nreset", "sys_resetn",
			},
			ResetActiveHigh: []string{
				"reset", "rst", "areset", "sys_reset", "por",
			},
			ControlSignals: []string{
				"we", "write_enable", "read_enable", "chip_select", "cs",
				"stb", "enable", "wr_en", "rd_en", "clk_en", "ready", "ack",
				"grant_out", "stall", "wait", "valid", "valid_out", "req",
				"cmd_valid", "cmd_ready", "done", "busy", "idle", "grant",
				"ack_in", "ready_in", "int", "irq", "irq_out", "intr",
				"int_req", "interrupt", "interrupt_in", "alert", "gpio_in",
				"gpio_out", "sensor_in", "led", "pwm_out", "data_valid",
				"data_ready",
			},
			StatusFlags: []string{
				"status", "error", "flag", "overflow", "underflow", "zero",
				"carry", "full", "empty",
			},
			FSMStates: []string{
				"IDLE", "RESP", "GO", "ONE", "BUSY", "START", "STOP",
			},
			Keywords: []string{
				"if", "else", "begin", "end", "case", "endcase", "default",
				"posedge", "negedge",
			},
		},
		TimePrefixes: []string{"time_"},
		FilePatterns: []string{"*.v", "*.sv"},
		Policy: PolicyConfig{
			Rules: map[string]string{},
		},
	}
}

// Load finds and loads the configuration file.
// Search order:
//  1. ./sigmap.json
//  2. ./sigmap.yaml
//  3. ./.sigmap.json
//  4. ~/.config/sigmap/config.json
//
// Returns DefaultConfig if no config file is found.
func Load() (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "sigmap.json"),
		filepath.Join(cwd, "sigmap.yaml"),
		filepath.Join(cwd, ".sigmap.json"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "sigmap", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific JSON or YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if len(c.Vocabulary.ClockKeywords) == 0 {
		c.Vocabulary.ClockKeywords = def.Vocabulary.ClockKeywords
	}
	if len(c.Vocabulary.ResetActiveLow) == 0 {
		c.Vocabulary.ResetActiveLow = def.Vocabulary.ResetActiveLow
	}
	if len(c.Vocabulary.ResetActiveHigh) == 0 {
		c.Vocabulary.ResetActiveHigh = def.Vocabulary.ResetActiveHigh
	}
	if len(c.Vocabulary.ControlSignals) == 0 {
		c.Vocabulary.ControlSignals = def.Vocabulary.ControlSignals
	}
	if len(c.Vocabulary.StatusFlags) == 0 {
		c.Vocabulary.StatusFlags = def.Vocabulary.StatusFlags
	}
	if len(c.Vocabulary.FSMStates) == 0 {
		c.Vocabulary.FSMStates = def.Vocabulary.FSMStates
	}
	if len(c.Vocabulary.Keywords) == 0 {
		c.Vocabulary.Keywords = def.Vocabulary.Keywords
	}
	if len(c.TimePrefixes) == 0 {
		c.TimePrefixes = def.TimePrefixes
	}
	if len(c.FilePatterns) == 0 {
		c.FilePatterns = def.FilePatterns
	}
	if c.Policy.Rules == nil {
		c.Policy.Rules = map[string]string{}
	}
}

// Save writes the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Set converts a keyword list to a lookup set.
func Set(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// LowerSet converts a keyword list to a lowercase lookup set.
func LowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}
