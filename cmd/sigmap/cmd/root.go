package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waveeye/sigmap/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sigmap",
	Short: "sigmap - map waveform samples onto RTL signal hierarchies",
	Long: `sigmap reconciles the two independently-named views of the same
physical signals: the hierarchical names an RTL design declares and the
column names a waveform trace records.

It extracts module instantiation structure from RTL source, builds a
hierarchy connectivity graph, and uses that graph to attribute sampled
waveform values to the correct RTL signal even when a value was only
recorded under a different hierarchical alias.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sigmap.json or ./sigmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
