package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waveeye/sigmap/internal/pipeline"
)

var (
	graphOutPrefix string
	graphWriteDB   bool
	graphPrior     string
)

var graphCmd = &cobra.Command{
	Use:   "graph <rtl-file-or-dir>...",
	Short: "Build the hierarchy connectivity graph from RTL sources",
	Long: `Scans RTL files for module declarations and instantiations, builds
the connectivity graph (direct and flattened connections), runs the
structural checks, and writes <prefix>_system.json.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		for _, arg := range args {
			found, err := cfg.FindRTLFiles(arg)
			if err != nil {
				return err
			}
			files = append(files, found...)
		}
		if verbose {
			fmt.Printf("Analyzing %d RTL files\n", len(files))
		}

		result, err := pipeline.BuildGraph(cmd.Context(), files, cfg)
		if err != nil {
			return err
		}

		if graphPrior != "" {
			if verbose {
				fmt.Printf("Merging prior graph from %s\n", graphPrior)
			}
			if err := result.MergePrior(cmd.Context(), graphPrior, cfg); err != nil {
				return err
			}
		}

		result.Render(os.Stdout)

		jsonPath := graphOutPrefix + "_system.json"
		if err := pipeline.WriteSystemJSON(result.System, jsonPath); err != nil {
			return err
		}
		fmt.Printf("\nSystem connectivity written to %s\n", jsonPath)

		if graphWriteDB {
			dbPath, err := pipeline.WriteSystemStore(result.System, ".")
			if err != nil {
				return err
			}
			fmt.Printf("Graph store written to %s\n", dbPath)
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphOutPrefix, "output", "o", "sigmap", "output file prefix")
	graphCmd.Flags().BoolVar(&graphWriteDB, "db", false, "also persist the graph into .sigmap/graph.db")
	graphCmd.Flags().StringVar(&graphPrior, "prior", "", "previously built graph (JSON or .db) to merge into this run")
	rootCmd.AddCommand(graphCmd)
}
