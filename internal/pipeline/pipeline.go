// Package pipeline wires the analysis stages together: extraction,
// graph building, structural checks, policy evaluation, and the
// waveform-to-RTL mapping run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/waveeye/sigmap/internal/classify"
	"github.com/waveeye/sigmap/internal/config"
	"github.com/waveeye/sigmap/internal/extractor"
	"github.com/waveeye/sigmap/internal/graph"
	"github.com/waveeye/sigmap/internal/mapping"
	"github.com/waveeye/sigmap/internal/policy"
	"github.com/waveeye/sigmap/internal/store"
	"github.com/waveeye/sigmap/internal/validator"
	"github.com/waveeye/sigmap/internal/waveform"
)

// FileError records a per-file failure that did not abort the run.
type FileError struct {
	File string
	Err  error
}

// GraphResult is the output of a connectivity-graph build.
type GraphResult struct {
	System     *graph.System
	FileErrors []FileError
	Policy     *policy.Result
}

// BuildGraph analyzes RTL files into a connectivity graph. A file that
// cannot be read or declares no module is skipped and recorded; the run
// fails only when no file could be analyzed at all.
func BuildGraph(ctx context.Context, files []string, cfg *config.Config) (*GraphResult, error) {
	vocab := extractor.WidthVocab{
		Keywords:  config.Set(cfg.Vocabulary.Keywords),
		FSMStates: config.Set(cfg.Vocabulary.FSMStates),
	}

	var facts []extractor.FileFacts
	var mismatches []extractor.WidthMismatch
	var fileErrors []FileError
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			fileErrors = append(fileErrors, FileError{File: file, Err: err})
			continue
		}
		f, err := extractor.ExtractSource(file, string(content))
		if err != nil {
			fileErrors = append(fileErrors, FileError{File: file, Err: err})
			continue
		}
		facts = append(facts, f)
		mismatches = append(mismatches, extractor.DetectWidthMismatches(extractor.PrepareLines(string(content)), vocab)...)
	}

	if len(facts) == 0 {
		return nil, fmt.Errorf("no RTL file could be analyzed (%d failed)", len(fileErrors))
	}

	sys := graph.Build(facts)
	if flattened := graph.Flatten(sys.Connections); flattened != nil {
		sys.Flattened = flattened
	}
	if missing := graph.DetectMissingPorts(sys); missing != nil {
		sys.MissingPorts = missing
	}
	if mismatches != nil {
		sys.WidthMismatches = mismatches
	}

	engine, err := policy.New()
	if err != nil {
		return nil, fmt.Errorf("initializing policy engine: %w", err)
	}
	policyResult, err := engine.Evaluate(ctx, sys, cfg.Policy.Rules)
	if err != nil {
		return nil, fmt.Errorf("evaluating policy: %w", err)
	}

	return &GraphResult{
		System:     sys,
		FileErrors: fileErrors,
		Policy:     policyResult,
	}, nil
}

// MergePrior folds a previously built graph artifact (JSON or SQLite,
// chosen by extension) into the result, then re-evaluates policy over the
// combined system. Prior-run modules can resolve ports and flattened links
// the current files alone could not.
func (r *GraphResult) MergePrior(ctx context.Context, path string, cfg *config.Config) error {
	prior, err := LoadSystem(path)
	if err != nil {
		return fmt.Errorf("loading prior graph: %w", err)
	}
	merged := graph.Merge(prior, r.System)

	engine, err := policy.New()
	if err != nil {
		return fmt.Errorf("initializing policy engine: %w", err)
	}
	policyResult, err := engine.Evaluate(ctx, merged, cfg.Policy.Rules)
	if err != nil {
		return fmt.Errorf("evaluating policy: %w", err)
	}

	r.System = merged
	r.Policy = policyResult
	return nil
}

// SystemJSON validates the graph against its CUE contract and returns the
// serialized artifact.
func SystemJSON(sys *graph.System) ([]byte, error) {
	v, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("initializing validator: %w", err)
	}
	if err := v.ValidateSystem(sys); err != nil {
		return nil, fmt.Errorf("graph artifact: %w", err)
	}
	data, err := jsonMarshalIndent(sys)
	if err != nil {
		return nil, fmt.Errorf("marshaling graph: %w", err)
	}
	return data, nil
}

// WriteSystemJSON validates the graph against its CUE contract and writes
// the artifact.
func WriteSystemJSON(sys *graph.System, path string) error {
	data, err := SystemJSON(sys)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteSystemStore persists the graph into a SQLite store at dir.
func WriteSystemStore(sys *graph.System, dir string) (string, error) {
	st, err := store.Open(dir)
	if err != nil {
		return "", err
	}
	defer st.Close()
	if err := st.SaveSystem(sys); err != nil {
		return "", fmt.Errorf("saving graph: %w", err)
	}
	return st.DBPath(), nil
}

// LoadSystem reads a previously built graph from a JSON artifact or a
// SQLite store, chosen by extension.
func LoadSystem(path string) (*graph.System, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		st, err := store.OpenPath(path)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.LoadSystem()
	default:
		return loadSystemJSON(path)
	}
}

// MapOptions configures a waveform-to-RTL mapping run.
type MapOptions struct {
	MetadataPath     string
	WaveformPath     string
	OutputPath       string
	ConnectivityPath string
	RTLName          string
}

// MapResult is the outcome of one mapping run.
type MapResult struct {
	OutputPath string
	Filled     []mapping.Filled
}

// RunMap attributes waveform values to metadata signals and writes the
// mapped table. Connectivity is optional; without it, cells with no direct
// observation stay empty.
func RunMap(opts MapOptions, cfg *config.Config) (*MapResult, error) {
	outputPath := opts.OutputPath
	if outputPath == "" {
		if opts.RTLName != "" {
			outputPath = opts.RTLName + "_mapped.csv"
		} else {
			base := strings.TrimSuffix(filepath.Base(opts.WaveformPath), filepath.Ext(opts.WaveformPath))
			outputPath = base + "_mapped.csv"
		}
	}

	meta, err := mapping.LoadMetadata(opts.MetadataPath)
	if err != nil {
		return nil, err
	}
	rec, err := waveform.Load(opts.WaveformPath)
	if err != nil {
		return nil, err
	}

	var connMap graph.ConnMap
	if opts.ConnectivityPath != "" {
		sys, err := LoadSystem(opts.ConnectivityPath)
		if err != nil {
			return nil, fmt.Errorf("loading connectivity: %w", err)
		}
		connMap = graph.BuildConnMap(resolutionEdges(sys))
	}

	table, filled, err := mapping.BuildTable(meta, rec, connMap, cfg.TimePrefixes)
	if err != nil {
		return nil, err
	}

	v, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("initializing validator: %w", err)
	}
	if err := v.ValidateTable(table); err != nil {
		return nil, fmt.Errorf("mapped table: %w", err)
	}

	if err := table.WriteCSV(outputPath); err != nil {
		return nil, err
	}
	return &MapResult{OutputPath: outputPath, Filled: filled}, nil
}

// resolutionEdges collects the connections the resolver may follow: every
// direct edge plus every flattened edge re-shaped as a connection.
func resolutionEdges(sys *graph.System) []graph.Connection {
	edges := append([]graph.Connection{}, sys.Connections...)
	for _, f := range sys.Flattened {
		edges = append(edges, f.AsConnection())
	}
	return edges
}

// RunClassify classifies the signals of an RTL file or directory and
// writes the metadata artifacts.
func RunClassify(path, outPrefix string, cfg *config.Config) (*classify.Result, error) {
	files, err := cfg.FindRTLFiles(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		lines = append(lines, extractor.PrepareLines(string(content))...)
	}

	result := classify.New(cfg.Vocabulary).Classify(lines)

	if err := result.WriteJSON(outPrefix + "_signals.json"); err != nil {
		return nil, err
	}
	if err := result.WriteCSV(outPrefix + "_signals.csv"); err != nil {
		return nil, err
	}
	return result, nil
}

// RunMerge merges every *_mapped.csv table under dir into one output.
func RunMerge(dir, outPath string) (string, []string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*_mapped.csv"))
	if err != nil {
		return "", nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) < 2 {
		return "", files, fmt.Errorf("need at least 2 mapped tables in %s, found %d", dir, len(files))
	}

	merged, err := mapping.MergeAll(files)
	if err != nil {
		return "", files, err
	}

	if outPath == "" {
		outPath = filepath.Join(dir, "all_mapped_values.csv")
	}
	if err := merged.WriteCSV(outPath); err != nil {
		return "", files, err
	}
	return outPath, files, nil
}
