package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	ghperrors "ghpages.dev/ghpages/internal/errors"
)

// clone clones url into dir. Any failure is reported as a NetworkOrAuthError
// carrying git's own message.
func clone(ctx context.Context, r *CommandRunner, url, dir string) (Repo, error) {
	if _, err := r.Run(ctx, "clone", "--quiet", "--", url, dir); err != nil {
		return Repo{}, ghperrors.NewNetworkOrAuthError("clone", url, err)
	}
	if !IsRepository(dir) {
		return Repo{}, ghperrors.NewRepositoryNotFoundError(dir, fmt.Errorf("clone of %s produced no repository", url))
	}
	return Repo{Dir: dir}, nil
}

// NormalizeRemoteURL returns a local path remote as a clean absolute path,
// resolving a relative one against base (the process working directory when
// base is empty). URLs and scp-like "host:path" remotes are returned as is.
// Git records local clone sources as absolute paths, so normalized URLs
// compare equal to the origin of a clone.
func NormalizeRemoteURL(url, base string) string {
	url = strings.TrimSpace(url)
	if url == "" || !isLocalPath(url) {
		return url
	}
	if !filepath.IsAbs(url) {
		url = filepath.Join(base, url)
	}
	abs, err := filepath.Abs(url)
	if err != nil {
		return filepath.Clean(url)
	}
	return abs
}

// isLocalPath follows git's rule: a colon before the first slash makes the
// remote scp-like ssh, anything with a scheme is a URL.
func isLocalPath(url string) bool {
	if strings.Contains(url, "://") {
		return false
	}
	if filepath.VolumeName(url) != "" {
		return true
	}
	colon := strings.Index(url, ":")
	if colon < 0 {
		return true
	}
	slash := strings.Index(url, "/")
	return slash >= 0 && slash < colon
}
