// sigmap-facts dumps the connectivity graph as JSON for downstream tools
// that consume the serialized artifact directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/waveeye/sigmap/internal/config"
	"github.com/waveeye/sigmap/internal/pipeline"
)

func main() {
	output := flag.String("output", "", "write graph JSON to file (default: stdout)")
	flag.StringVar(output, "o", "", "write graph JSON to file (shorthand)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sigmap-facts [--output file] <rtl-file>...")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	var files []string
	for _, arg := range args {
		found, err := cfg.FindRTLFiles(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		files = append(files, found...)
	}

	result, err := pipeline.BuildGraph(context.Background(), files, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, fe := range result.FileErrors {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s: %v\n", fe.File, fe.Err)
	}

	if *output == "" {
		data, err := pipeline.SystemJSON(result.System)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if err := pipeline.WriteSystemJSON(result.System, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
