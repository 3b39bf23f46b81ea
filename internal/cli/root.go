// Package cli implements the ghpages command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"ghpages.dev/ghpages/internal/tui"
)

// globalFlags holds persistent flags shared by every command
type globalFlags struct {
	debug bool
}

// newSplog creates the logger for a command run. Console output goes to the
// command's stdout and everything is also written to the rotating log file.
func (g *globalFlags) newSplog(cmd *cobra.Command) (*tui.Splog, error) {
	return tui.NewSplogWithOptions(tui.SplogOptions{
		Writer:  cmd.OutOrStdout(),
		LogFile: tui.GetLogFilePath(),
		Debug:   g.debug || os.Getenv("DEBUG") != "",
	})
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "ghpages",
		Short: "Publish files to a gh-pages branch",
		Long: `ghpages publishes a directory of built files to a branch of a git
remote, gh-pages by default. A working copy of the remote is kept in a cache
directory and reused between runs.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Show debug output")

	rootCmd.AddCommand(newPublishCmd(g))
	rootCmd.AddCommand(newCleanCmd(g))
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
