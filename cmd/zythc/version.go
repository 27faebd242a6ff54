package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the zythc and Go version used to build this tool",
	Run: func(cmd *cobra.Command, _ []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok || info.Main.Version == "" {
			cmd.Println("version: unknown")
			return
		}
		cmd.Println("zythc version\t", info.Main.Version)
		cmd.Println("go version\t", info.GoVersion)
	},
}
