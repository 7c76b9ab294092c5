package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/litbook"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of litbook",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("litbook version %s\n", strings.TrimSpace(litbook.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
