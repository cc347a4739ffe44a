package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burrowtool/burrow/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the burrow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("burrow %s\n", server.Version)
	},
}
