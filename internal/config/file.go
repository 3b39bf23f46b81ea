package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	ghperrors "ghpages.dev/ghpages/internal/errors"
)

// FileName is the config file looked up in the working directory
const FileName = ".ghpages.yml"

// Load layers the config file and environment over the defaults.
// path selects the config file; when empty, FileName in workDir is used if it
// exists. An explicit path that does not exist is an error.
func Load(workDir, path string) (Options, error) {
	opts := Default()
	opts.WorkDir = workDir

	explicit := path != ""
	if !explicit {
		path = filepath.Join(workDir, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return Options{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		opts.WorkDir = workDir
	case ghperrors.IsNotExist(err) && !explicit:
		// No config file
	default:
		return Options{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := ApplyEnv(&opts, os.LookupEnv); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ApplyEnv overrides opts from GHPAGES_* variables found by lookup
func ApplyEnv(opts *Options, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"GHPAGES_REMOTE_URL": &opts.RemoteURL,
		"GHPAGES_ORIGIN":     &opts.Origin,
		"GHPAGES_BRANCH":     &opts.Branch,
		"GHPAGES_CACHE_DIR":  &opts.CacheDir,
		"GHPAGES_MESSAGE":    &opts.Message,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"GHPAGES_PUSH":  &opts.Push,
		"GHPAGES_FORCE": &opts.Force,
	}
	for key, dst := range bools {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", key, v, err)
		}
		*dst = b
	}
	return nil
}
