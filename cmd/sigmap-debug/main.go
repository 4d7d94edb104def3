// sigmap-debug dumps the raw extractor output for one RTL file. Useful
// when a connection is missing from the graph and the question is whether
// extraction or graph building lost it.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/waveeye/sigmap/internal/extractor"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: sigmap-debug <rtl-file>")
		os.Exit(1)
	}

	facts, err := extractor.Extract(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	spew.Config.Indent = "  "
	spew.Config.DisablePointerAddresses = true
	spew.Dump(facts)
}
