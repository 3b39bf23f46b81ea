package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ghpages.dev/ghpages/internal/config"
	"ghpages.dev/ghpages/internal/git"
	"ghpages.dev/ghpages/internal/github"
	"ghpages.dev/ghpages/internal/publish"
	"ghpages.dev/ghpages/internal/tui"
	"ghpages.dev/ghpages/internal/utils"
)

const defaultSourceDir = "dist"

// isInteractive reports whether progress and prompts may use the terminal
var isInteractive = tui.IsInteractive

type publishFlags struct {
	remoteFlags
	branch  string
	message string
	noPush  bool
	force   bool
	yes     bool
	open    bool
}

func newPublishCmd(g *globalFlags) *cobra.Command {
	var f publishFlags

	cmd := &cobra.Command{
		Use:   "publish [dir]",
		Short: "Publish a directory to the pages branch",
		Long: `Publish the files of a directory (default "dist") to a branch of a git
remote. The branch content is replaced by the directory: files missing from
the directory are deleted from the branch. Nothing is committed when the
content did not change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaultSourceDir
			if len(args) > 0 {
				dir = args[0]
			}
			return runPublish(cmd, g, &f, dir)
		},
	}

	f.register(cmd.Flags())
	return cmd
}

func (f *publishFlags) register(flags *pflag.FlagSet) {
	f.remoteFlags.register(flags)
	flags.StringVarP(&f.branch, "branch", "b", config.DefaultBranch, "Branch to publish to")
	flags.StringVarP(&f.message, "message", "m", "", `Commit message (default "Update <timestamp>")`)
	flags.BoolVar(&f.noPush, "no-push", false, "Commit in the working copy without pushing")
	flags.BoolVarP(&f.force, "force", "f", false, "Add files even when they are ignored")
	flags.BoolVarP(&f.yes, "yes", "y", false, "Skip the push confirmation")
	flags.BoolVar(&f.open, "open", false, "Open the GitHub Pages site after pushing")
}

// options layers publish flags over the shared remote options
func (f *publishFlags) options(flags *pflag.FlagSet) (config.Options, error) {
	opts, err := f.remoteFlags.options(flags)
	if err != nil {
		return config.Options{}, err
	}

	if flags.Changed("branch") {
		opts.Branch = f.branch
	}
	if flags.Changed("message") {
		opts.Message = f.message
	}
	if flags.Changed("no-push") {
		opts.Push = !f.noPush
	}
	if flags.Changed("force") {
		opts.Force = f.force
	}
	return opts, opts.Validate()
}

func runPublish(cmd *cobra.Command, g *globalFlags, f *publishFlags, dir string) error {
	ctx := cmd.Context()

	splog, err := g.newSplog(cmd)
	if err != nil {
		return err
	}
	defer splog.Close()

	opts, err := f.options(cmd.Flags())
	if err != nil {
		return err
	}

	files, err := publish.FilesFromDir(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		splog.Warn("No files found in %s.", dir)
		return nil
	}

	interactive := isInteractive()
	if opts.Push && interactive && !f.yes {
		ok, err := tui.ConfirmPush(opts.Branch, opts.Origin)
		if err != nil {
			return err
		}
		if !ok {
			opts.Push = false
			splog.Info("Changes will be committed but not pushed.")
		}
	}

	splog.Info("Publishing %d files from %s to %s...", len(files), dir, tui.ColorBranch(opts.Branch))
	result, err := execute(ctx, splog, opts, files, interactive)
	if err != nil {
		return err
	}

	splog.Info("%s", result)
	if !result.Pushed {
		return nil
	}
	if url := reportPagesURL(ctx, splog, result.RemoteURL); url != "" && f.open {
		if err := utils.OpenBrowser(ctx, url); err != nil {
			splog.Warn("Could not open %s: %v", url, err)
		}
	}
	return nil
}

// execute runs the publisher, showing a progress view on interactive terminals
func execute(ctx context.Context, splog *tui.Splog, opts config.Options, files []*publish.File, interactive bool) (*publish.Result, error) {
	descriptions := publish.StepDescriptions(opts)

	if !interactive {
		p := publish.New(git.NewCLIAdapter(),
			publish.WithLogger(splog),
			publish.WithReporter(tui.NewLogProgressReporter(splog, descriptions)),
		)
		return p.Publish(ctx, opts, files, nil)
	}

	reporter := tui.NewChannelProgressReporter()

	done := make(chan bool, 1)
	tuiErr := make(chan error, 1)
	go func() {
		if err := tui.RunProgressTUI("Publishing to "+opts.Branch, descriptions, reporter.Updates(), done); err != nil {
			tuiErr <- err
		}
	}()

	// The progress view owns the terminal until the reporter is closed
	splog.SetQuiet(true)
	p := publish.New(git.NewCLIAdapter(), publish.WithLogger(splog), publish.WithReporter(reporter))
	result, err := p.Publish(ctx, opts, files, nil)
	reporter.Close()

	select {
	case <-done:
	case err := <-tuiErr:
		splog.Debug("TUI error: %v", err)
	}
	splog.SetQuiet(false)

	return result, err
}

// reportPagesURL prints and returns the Pages site of a GitHub remote.
// Lookup failures are only logged since the publish already succeeded.
func reportPagesURL(ctx context.Context, splog *tui.Splog, remoteURL string) string {
	if _, _, ok := github.ParseRepoURL(remoteURL); !ok {
		return ""
	}

	token, err := github.Token(ctx)
	if err != nil {
		splog.Debug("Skipping Pages lookup: %v", err)
		return ""
	}
	client, err := github.NewClient(ctx, token, os.Getenv("GHPAGES_GITHUB_API_URL"))
	if err != nil {
		splog.Debug("Skipping Pages lookup: %v", err)
		return ""
	}

	url, err := github.PagesURL(ctx, client, remoteURL)
	if err != nil {
		splog.Debug("Pages lookup failed: %v", err)
		return ""
	}
	if url != "" {
		splog.Info("Site: %s", tui.ColorURL(url))
	}
	return url
}
