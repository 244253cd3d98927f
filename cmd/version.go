package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the aac-doc version",
		Long:  "Displays the aac-doc release, its module path and the Go version it was built with.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			for _, line := range versionLines(info, ok) {
				cmd.Println(line)
			}
		},
	}
}

// versionLines formats build information; local builds report an unknown version.
func versionLines(info *debug.BuildInfo, ok bool) []string {
	if !ok || info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return []string{"aac-doc version unknown"}
	}

	return []string{
		"aac-doc " + info.Main.Version,
		"module  " + info.Main.Path,
		"go      " + info.GoVersion,
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
