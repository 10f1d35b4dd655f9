package main

import (
	"github.com/spf13/cobra"

	"github.com/safing/osicons/osimage"
	"github.com/safing/osicons/utils/osdetail"
)

type lookupResult struct {
	Input string `json:"input" yaml:"input"`
	osimage.Result
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(hostCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <os>...",
	Short: "Look up the given OS strings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]lookupResult, 0, len(args))
		for _, arg := range args {
			results = append(results, lookupResult{
				Input:  arg,
				Result: osimage.Lookup(arg),
			})
		}
		return writeResults(cmd.OutOrStdout(), results)
	},
}

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List the icon of every known OS",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeImages(cmd.OutOrStdout(), osimage.AllImages())
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List all known OS descriptors in match order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCatalog(cmd.OutOrStdout(), osimage.Catalog())
	},
}

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Look up the OS of this host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		banner, result, err := osdetail.HostOS(cmd.Context())
		if err != nil {
			return err
		}
		return writeResults(cmd.OutOrStdout(), []lookupResult{{
			Input:  banner,
			Result: result,
		}})
	},
}
