package cli

import (
	"os"

	"github.com/spf13/pflag"

	"ghpages.dev/ghpages/internal/config"
	ghperrors "ghpages.dev/ghpages/internal/errors"
)

// remoteFlags select the remote and its working copy
type remoteFlags struct {
	configPath string
	remoteURL  string
	origin     string
	cacheDir   string
}

func (f *remoteFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.configPath, "config", "", "Config file (default ./"+config.FileName+" when present)")
	flags.StringVar(&f.remoteURL, "remote-url", "", "Remote to publish to (default: URL of --origin in the current repository)")
	flags.StringVar(&f.origin, "origin", config.DefaultOrigin, "Name of the remote")
	flags.StringVar(&f.cacheDir, "cache-dir", "", "Working copy location (default: per-remote directory under the user cache)")
}

// options loads the config file and environment, then applies the flags the user set
func (f *remoteFlags) options(flags *pflag.FlagSet) (config.Options, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return config.Options{}, ghperrors.NewFilesystemError("getwd", ".", err)
	}

	opts, err := config.Load(workDir, f.configPath)
	if err != nil {
		return config.Options{}, err
	}

	if flags.Changed("remote-url") {
		opts.RemoteURL = f.remoteURL
	}
	if flags.Changed("origin") {
		opts.Origin = f.origin
	}
	if flags.Changed("cache-dir") {
		opts.CacheDir = f.cacheDir
	}
	return opts, nil
}
