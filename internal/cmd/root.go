// Package cmd wires the CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "bucketview",
	Short: "REST backend for browsing and managing object storage buckets",
	Long: `bucketview serves a REST API over an S3 or S3-compatible bucket:
folder-style listings synthesized from delimited keys, version history,
bulk and prefix deletion, and restore of deleted or superseded objects.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
