package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safing/osicons/info"
	"github.com/safing/osicons/log"
)

var (
	outputFormat string

	rootCmd = &cobra.Command{
		Use:               "oslookup",
		Short:             "look up icons and names of operating systems",
		PersistentPreRunE: checkOutputFormat,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "set output format: text, json or yaml")
}

func main() {
	// Not using the logger.
	log.SetLogLevel(log.CriticalLevel)

	// Set meta info.
	info.Set("OS Lookup", "0.1.0", "GPLv3")
	rootCmd.Version = info.Version()

	// Start root command.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkOutputFormat(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}
