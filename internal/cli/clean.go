package cli

import (
	"github.com/spf13/cobra"

	"ghpages.dev/ghpages/internal/git"
	"ghpages.dev/ghpages/internal/repo"
)

func newCleanCmd(g *globalFlags) *cobra.Command {
	var f remoteFlags

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the cached working copy of the remote",
		Long: `Remove the cached working copy of the remote. The next publish makes a
fresh clone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			splog, err := g.newSplog(cmd)
			if err != nil {
				return err
			}
			defer splog.Close()

			opts, err := f.options(cmd.Flags())
			if err != nil {
				return err
			}

			dir, err := repo.Clean(cmd.Context(), git.NewCLIAdapter(), repo.PrepareOptions{
				RemoteURL: opts.RemoteURL,
				Origin:    opts.Origin,
				CacheDir:  opts.CacheDir,
				WorkDir:   opts.WorkDir,
			})
			if err != nil {
				return err
			}
			splog.Info("Removed %s.", dir)
			return nil
		},
	}

	f.register(cmd.Flags())
	return cmd
}
