package config

import (
	"fmt"
	"strings"
	"time"

	ghperrors "ghpages.dev/ghpages/internal/errors"
)

const (
	// DefaultOrigin is the remote name read and pushed to
	DefaultOrigin = "origin"
	// DefaultBranch is the branch files are published to
	DefaultBranch = "gh-pages"
)

// Options controls a publish run
type Options struct {
	// RemoteURL is the repository to publish to. When empty it is read from
	// the Origin remote of the repository containing WorkDir.
	RemoteURL string `yaml:"remote_url"`
	Origin    string `yaml:"origin"`
	Branch    string `yaml:"branch"`
	// CacheDir holds the working copy. Empty means DefaultCacheDir(RemoteURL).
	CacheDir string `yaml:"cache_dir"`
	Push     bool   `yaml:"push"`
	// Force stages files matched by ignore rules
	Force bool `yaml:"force"`
	// Message is the commit message. Empty means DefaultMessage at commit time.
	Message string `yaml:"message"`

	WorkDir string `yaml:"-"`
}

// Default returns the built-in options
func Default() Options {
	return Options{
		Origin: DefaultOrigin,
		Branch: DefaultBranch,
		Push:   true,
	}
}

// Validate rejects options no publish run can use
func (o Options) Validate() error {
	if strings.TrimSpace(o.Origin) == "" {
		return fmt.Errorf("origin must not be empty")
	}
	if strings.TrimSpace(o.Branch) == "" {
		return ghperrors.NewInvalidBranchError(o.Branch, fmt.Errorf("branch must not be empty"))
	}
	if strings.ContainsAny(o.Branch, " ~^:?*[\\") || strings.HasPrefix(o.Branch, "-") || strings.Contains(o.Branch, "..") {
		return ghperrors.NewInvalidBranchError(o.Branch, fmt.Errorf("not a valid branch name"))
	}
	return nil
}

// CommitMessage returns Message, or the default message for now
func (o Options) CommitMessage(now time.Time) string {
	if o.Message != "" {
		return o.Message
	}
	return DefaultMessage(now)
}

// DefaultMessage is the commit message used when none is configured
func DefaultMessage(now time.Time) string {
	return "Update " + now.UTC().Format(time.RFC3339)
}
