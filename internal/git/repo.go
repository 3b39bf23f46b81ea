package git

import (
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	ghperrors "ghpages.dev/ghpages/internal/errors"
)

// Repo is an opaque reference to a local working copy
type Repo struct {
	Dir string
}

// String returns the working copy directory
func (r Repo) String() string {
	return r.Dir
}

// FindRepository locates the repository containing dir, walking up parent
// directories like git itself does. It fails with a RepositoryNotFoundError
// when dir is not inside a working copy.
func FindRepository(dir string) (Repo, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return Repo{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return Repo{}, ghperrors.NewRepositoryNotFoundError(absPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return Repo{}, ghperrors.NewRepositoryNotFoundError(absPath, err)
	}

	return Repo{Dir: worktree.Filesystem.Root()}, nil
}

// IsRepository reports whether dir itself is the root of a working copy.
// Parent directories are not searched.
func IsRepository(dir string) bool {
	_, err := openExact(dir)
	return err == nil
}

// openExact opens the repository rooted exactly at dir
func openExact(dir string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          false,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, ghperrors.NewRepositoryNotFoundError(dir, err)
	}
	return repo, nil
}

// remoteURL reads remote.<name>.url from the repository config.
// A repository without that remote yields "".
func remoteURL(dir, remote string) (string, error) {
	repo, err := openExact(dir)
	if err != nil {
		return "", err
	}

	cfg, err := repo.Config()
	if err != nil {
		return "", fmt.Errorf("failed to read config of %s: %w", dir, err)
	}

	rc, ok := cfg.Remotes[remote]
	if !ok || len(rc.URLs) == 0 {
		return "", nil
	}
	return rc.URLs[0], nil
}
