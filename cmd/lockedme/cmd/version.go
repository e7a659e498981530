package cmd

import (
	"fmt"

	internal "github.com/ZanzyTHEbar/lockedme/lockedme"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// SetVersionInfo records the build information printed by the version
// command.
func SetVersionInfo(v, commit, built string) {
	version, gitCommit, buildTime = v, commit, built
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Needs no configuration or directory.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n",
				internal.DefaultAppDisplayName, version, gitCommit, buildTime)
		},
	}
}
