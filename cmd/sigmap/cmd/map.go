package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waveeye/sigmap/internal/pipeline"
)

var (
	mapConnectivity string
	mapRTLName      string
)

var mapCmd = &cobra.Command{
	Use:   "map <metadata.{json,csv}> <waveform.csv> [output.csv]",
	Short: "Map waveform values to RTL signals",
	Long: `Builds the output table: one column per metadata signal, one row
per waveform sample. Cells whose signal has no direct waveform column are
filled through the connectivity graph when one is supplied; unknown (x)
and high-impedance (z) values propagate, truly absent values stay empty.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pipeline.MapOptions{
			MetadataPath:     args[0],
			WaveformPath:     args[1],
			ConnectivityPath: mapConnectivity,
			RTLName:          mapRTLName,
		}
		if len(args) == 3 {
			opts.OutputPath = args[2]
		}

		result, err := pipeline.RunMap(opts, cfg)
		if err != nil {
			return err
		}

		for _, f := range result.Filled {
			fmt.Printf("Filled %s from connected signal %s\n", f.Signal, f.Source)
		}
		fmt.Printf("OK: %s\n", result.OutputPath)
		return nil
	},
}

func init() {
	mapCmd.Flags().StringVarP(&mapConnectivity, "connectivity", "c", "", "connectivity graph (JSON artifact or .db store) for cross-module resolution")
	mapCmd.Flags().StringVar(&mapRTLName, "rtl-name", "", "RTL module name used for the default output file name")
	rootCmd.AddCommand(mapCmd)
}
