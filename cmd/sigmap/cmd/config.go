package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waveeye/sigmap/internal/config"
)

var configInitOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the sigmap configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default vocabulary",
	Long: `Writes the built-in defaults (naming vocabulary, time-column
prefixes, file patterns, policy rules) to a config file so they can be
edited for a project. Refuses to overwrite an existing file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configInitOut); err == nil {
			return fmt.Errorf("%s already exists, not overwriting", configInitOut)
		}
		if err := config.DefaultConfig().Save(configInitOut); err != nil {
			return err
		}
		fmt.Printf("Default configuration written to %s\n", configInitOut)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitOut, "output", "o", "sigmap.json", "config file to write")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
