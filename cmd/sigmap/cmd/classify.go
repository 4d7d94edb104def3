package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waveeye/sigmap/internal/pipeline"
)

var classifyOutPrefix string

var classifyCmd = &cobra.Command{
	Use:   "classify <rtl-file-or-dir>",
	Short: "Classify RTL signals into semantic roles",
	Long: `Labels every signal the vocabulary recognizes (clock, reset,
control, status, FSM, mux, address, parameter) and writes the metadata
artifacts <prefix>_signals.json and <prefix>_signals.csv consumed by
'sigmap map'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := pipeline.RunClassify(args[0], classifyOutPrefix, cfg)
		if err != nil {
			return err
		}

		if verbose {
			fmt.Println("Signal Classification:")
			for _, sig := range result.Order {
				fmt.Printf("  %s -> %s\n", sig, result.Classes[sig])
			}
		}
		fmt.Printf("Classified %d signals of module %s\n", len(result.Order), result.Module)
		fmt.Printf("Metadata written to %s_signals.json and %s_signals.csv\n", classifyOutPrefix, classifyOutPrefix)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyOutPrefix, "output", "o", "sigmap", "output file prefix")
	rootCmd.AddCommand(classifyCmd)
}
