package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the covmerge module version and the Go toolchain it was built with.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(versionLines(debug.ReadBuildInfo())...)
		},
	}
}

func versionLines(info *debug.BuildInfo, ok bool) []any {
	if !ok || info.Main.Version == "" {
		return []any{"version: unknown"}
	}

	return []any{"covmerge", info.Main.Version, "(" + info.GoVersion + ")"}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
