package main

import (
	"fmt"

	"github.com/aretw0/flowcraft"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowcraft",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flowcraft version %s\n", flowcraft.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
