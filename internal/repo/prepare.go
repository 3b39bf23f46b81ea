package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"ghpages.dev/ghpages/internal/config"
	ghperrors "ghpages.dev/ghpages/internal/errors"
	"ghpages.dev/ghpages/internal/git"
)

// PrepareOptions selects the remote and the working copy location
type PrepareOptions struct {
	// RemoteURL to publish to. When empty, the URL of Origin in the
	// repository containing WorkDir is used. Relative local paths are
	// resolved against WorkDir, or the repository they were read from.
	RemoteURL string
	Origin    string
	// CacheDir holds the working copy. Empty means config.DefaultCacheDir.
	CacheDir string
	WorkDir  string
}

// Prepared is the outcome of Prepare
type Prepared struct {
	Handle    *Handle
	RemoteURL string
	CacheDir  string
	// Reused is true when an existing clone of RemoteURL was found in CacheDir
	Reused bool
}

// Prepare returns a Handle on a working copy of the remote in the cache
// directory. A cache directory already holding a clone of the same remote is
// reused after fetching. Anything else in it is removed and a fresh clone is
// made.
func Prepare(ctx context.Context, adapter git.Adapter, opts PrepareOptions) (*Prepared, error) {
	if opts.Origin == "" {
		opts.Origin = config.DefaultOrigin
	}

	remoteURL, cacheDir, err := Locate(ctx, adapter, opts)
	if err != nil {
		return nil, err
	}

	if cachedURL(ctx, adapter, cacheDir, opts.Origin) == remoteURL {
		h, err := New(ctx, adapter, git.Repo{Dir: cacheDir})
		if err != nil {
			return nil, err
		}
		if h, err = h.Discard(ctx); err != nil {
			return nil, err
		}
		if h, err = h.Fetch(ctx, opts.Origin); err != nil {
			return nil, err
		}
		return &Prepared{Handle: h, RemoteURL: remoteURL, CacheDir: cacheDir, Reused: true}, nil
	}

	repo, err := freshClone(ctx, adapter, remoteURL, cacheDir)
	if err != nil {
		return nil, err
	}
	h, err := New(ctx, adapter, repo)
	if err != nil {
		return nil, err
	}
	return &Prepared{Handle: h, RemoteURL: remoteURL, CacheDir: cacheDir}, nil
}

// Locate resolves the remote URL and the absolute cache directory Prepare
// would use, without touching the filesystem.
func Locate(ctx context.Context, adapter git.Adapter, opts PrepareOptions) (remoteURL, cacheDir string, err error) {
	if opts.Origin == "" {
		opts.Origin = config.DefaultOrigin
	}
	if remoteURL, err = resolveRemoteURL(ctx, adapter, opts); err != nil {
		return "", "", err
	}

	cacheDir = opts.CacheDir
	if cacheDir == "" {
		cacheDir = config.DefaultCacheDir(remoteURL)
	}
	if cacheDir, err = filepath.Abs(cacheDir); err != nil {
		return "", "", ghperrors.NewFilesystemError("resolve", opts.CacheDir, err)
	}
	return remoteURL, cacheDir, nil
}

// Clean removes the cached working copy for the remote and returns its path.
// A missing cache directory is not an error.
func Clean(ctx context.Context, adapter git.Adapter, opts PrepareOptions) (string, error) {
	_, cacheDir, err := Locate(ctx, adapter, opts)
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(cacheDir); err != nil {
		return "", ghperrors.NewFilesystemError("remove", cacheDir, err)
	}
	return cacheDir, nil
}

func resolveRemoteURL(ctx context.Context, adapter git.Adapter, opts PrepareOptions) (string, error) {
	if opts.RemoteURL != "" {
		return git.NormalizeRemoteURL(opts.RemoteURL, opts.WorkDir), nil
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", ghperrors.NewFilesystemError("getwd", ".", err)
		}
		workDir = wd
	}

	work, err := git.FindRepository(workDir)
	if err != nil {
		return "", err
	}
	url, err := adapter.GetRemoteURL(ctx, work, opts.Origin)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", ghperrors.NewRepositoryNotFoundError(work.Dir, fmt.Errorf("no remote named %q", opts.Origin))
	}
	return git.NormalizeRemoteURL(url, work.Dir), nil
}

// cachedURL returns the normalized origin URL of the repository rooted at
// dir, or "" when dir is not a repository.
func cachedURL(ctx context.Context, adapter git.Adapter, dir, origin string) string {
	if !git.IsRepository(dir) {
		return ""
	}
	url, err := adapter.GetRemoteURL(ctx, git.Repo{Dir: dir}, origin)
	if err != nil {
		return ""
	}
	return git.NormalizeRemoteURL(url, dir)
}

// freshClone replaces dir with a new clone of url. The clone is made in a
// sibling directory and renamed into place, so a failed clone leaves no
// partial working copy behind.
func freshClone(ctx context.Context, adapter git.Adapter, url, dir string) (git.Repo, error) {
	if err := os.RemoveAll(dir); err != nil {
		return git.Repo{}, ghperrors.NewFilesystemError("remove", dir, err)
	}

	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return git.Repo{}, ghperrors.NewFilesystemError("mkdir", parent, err)
	}

	tmp := filepath.Join(parent, ".ghpages-clone-"+uuid.NewString())
	if _, err := adapter.Clone(ctx, url, tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return git.Repo{}, err
	}
	if err := os.Rename(tmp, dir); err != nil {
		_ = os.RemoveAll(tmp)
		return git.Repo{}, ghperrors.NewFilesystemError("rename", dir, err)
	}
	return git.Repo{Dir: dir}, nil
}
