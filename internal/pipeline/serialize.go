package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/waveeye/sigmap/internal/graph"
)

func jsonMarshalIndent(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func loadSystemJSON(path string) (*graph.System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph artifact: %w", err)
	}
	var sys graph.System
	if err := json.Unmarshal(data, &sys); err != nil {
		return nil, fmt.Errorf("parsing graph artifact %s: %w", path, err)
	}
	if sys.Modules == nil {
		sys.Modules = map[string]graph.ModuleInfo{}
	}
	return &sys, nil
}
