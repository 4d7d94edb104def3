package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waveeye/sigmap/internal/pipeline"
)

var mergeOut string

var mergeCmd = &cobra.Command{
	Use:   "merge <dir>",
	Short: "Merge mapped tables into one",
	Long: `Merges every *_mapped.csv table in the directory column-wise into
a single table. The first table's columns win; later tables contribute
only columns with new headers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, files, err := pipeline.RunMerge(args[0], mergeOut)
		if err != nil {
			return err
		}

		if verbose {
			fmt.Printf("Merged %d tables:\n", len(files))
			for _, f := range files {
				fmt.Printf("  - %s\n", f)
			}
		}
		fmt.Printf("Merged table written to %s\n", outPath)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOut, "output", "o", "", "output file (default <dir>/all_mapped_values.csv)")
	rootCmd.AddCommand(mergeCmd)
}
