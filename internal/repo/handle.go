// Package repo tracks a publishing working copy and its derived git state.
package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	ghperrors "ghpages.dev/ghpages/internal/errors"
	"ghpages.dev/ghpages/internal/git"
)

// Handle is a working copy plus the state derived from it. Handles are
// values: every mutating method runs the git operation and returns a new,
// fully refreshed Handle, leaving the receiver untouched.
type Handle struct {
	repo    git.Repo
	adapter git.Adapter

	CurrentBranch  string
	LocalBranches  []string
	RemoteBranches []string
	Staged         map[string]git.FileStatus
	Commits        []git.Commit
}

// New returns a refreshed Handle for repo
func New(ctx context.Context, adapter git.Adapter, repo git.Repo) (*Handle, error) {
	h := &Handle{repo: repo, adapter: adapter}
	return h.Refresh(ctx)
}

// Dir returns the working copy directory
func (h *Handle) Dir() string {
	return h.repo.Dir
}

// Repo returns the underlying repository reference
func (h *Handle) Repo() git.Repo {
	return h.repo
}

// Refresh re-reads every derived field from the working copy
func (h *Handle) Refresh(ctx context.Context) (*Handle, error) {
	next := &Handle{repo: h.repo, adapter: h.adapter}

	var err error
	if next.CurrentBranch, err = h.adapter.CurrentBranch(ctx, h.repo); err != nil {
		return nil, err
	}
	if next.LocalBranches, err = h.adapter.BranchesLocal(ctx, h.repo); err != nil {
		return nil, err
	}
	if next.RemoteBranches, err = h.adapter.BranchesRemote(ctx, h.repo); err != nil {
		return nil, err
	}
	if next.Staged, err = h.adapter.Status(ctx, h.repo); err != nil {
		return nil, err
	}
	if next.Commits, err = h.adapter.Commits(ctx, h.repo, next.CurrentBranch, git.DefaultHistoryLimit); err != nil {
		return nil, err
	}
	return next, nil
}

// HasLocalBranch reports whether name exists as a local branch
func (h *Handle) HasLocalBranch(name string) bool {
	return lo.Contains(h.LocalBranches, name)
}

// HasRemoteBranch reports whether remote/name exists as a remote-tracking branch
func (h *Handle) HasRemoteBranch(remote, name string) bool {
	return lo.Contains(h.RemoteBranches, remote+"/"+name)
}

// Unborn reports whether the current branch has no commits yet
func (h *Handle) Unborn() bool {
	return !h.HasLocalBranch(h.CurrentBranch)
}

// CheckoutBranch checks out name. The current branch of an empty
// repository cannot be checked out by git, so asking for it only refreshes.
func (h *Handle) CheckoutBranch(ctx context.Context, name string) (*Handle, error) {
	if name == h.CurrentBranch && h.Unborn() {
		return h.Refresh(ctx)
	}
	if err := h.adapter.Checkout(ctx, h.repo, name); err != nil {
		return nil, err
	}
	return h.Refresh(ctx)
}

// CreateBranch creates name at HEAD without checking it out
func (h *Handle) CreateBranch(ctx context.Context, name string) (*Handle, error) {
	if err := h.adapter.CreateBranch(ctx, h.repo, name); err != nil {
		return nil, err
	}
	return h.Refresh(ctx)
}

// CreateAndCheckoutBranch creates name and checks it out. A failed checkout
// leaves the created branch in place.
func (h *Handle) CreateAndCheckoutBranch(ctx context.Context, name string) (*Handle, error) {
	created, err := h.CreateBranch(ctx, name)
	if err != nil {
		return nil, err
	}
	return created.CheckoutBranch(ctx, name)
}

// AddFiles stages pathspec
func (h *Handle) AddFiles(ctx context.Context, pathspec string, opts git.AddOptions) (*Handle, error) {
	if err := h.adapter.Add(ctx, h.repo, pathspec, opts); err != nil {
		return nil, err
	}
	return h.Refresh(ctx)
}

// RemoveFiles removes pathspec from the index and, unless opts.Cached, from disk
func (h *Handle) RemoveFiles(ctx context.Context, pathspec string, opts git.RemoveOptions) (*Handle, error) {
	if err := h.adapter.Remove(ctx, h.repo, pathspec, opts); err != nil {
		return nil, err
	}
	return h.Refresh(ctx)
}

// Commit records the staged changes with message. Modified and deleted
// tracked files are included even when they were not staged.
func (h *Handle) Commit(ctx context.Context, message string) (*Handle, error) {
	if err := h.adapter.Commit(ctx, h.repo, message, git.CommitOptions{All: true}); err != nil {
		return nil, err
	}
	return h.Refresh(ctx)
}

// Pull merges the current branch from remote
func (h *Handle) Pull(ctx context.Context, remote string) (*Handle, error) {
	if _, err := h.adapter.RunRaw(ctx, h.repo, "pull", map[string]any{"quiet": true, "no-rebase": true}, []string{remote, h.CurrentBranch}); err != nil {
		return nil, h.remoteError(ctx, "pull "+h.CurrentBranch, remote, err)
	}
	return h.Refresh(ctx)
}

// Push pushes the current branch to remote and sets it as upstream
func (h *Handle) Push(ctx context.Context, remote string) (*Handle, error) {
	if _, err := h.adapter.RunRaw(ctx, h.repo, "push", map[string]any{"set-upstream": true, "quiet": true}, []string{remote, h.CurrentBranch}); err != nil {
		return nil, h.remoteError(ctx, "push "+h.CurrentBranch, remote, err)
	}
	return h.Refresh(ctx)
}

// Fetch updates the remote-tracking branches of remote, dropping deleted ones
func (h *Handle) Fetch(ctx context.Context, remote string) (*Handle, error) {
	if _, err := h.adapter.RunRaw(ctx, h.repo, "fetch", map[string]any{"quiet": true, "prune": true}, []string{remote}); err != nil {
		return nil, h.remoteError(ctx, "fetch", remote, err)
	}
	return h.Refresh(ctx)
}

// ResetBranch points the current branch at ref, dropping local commits and
// uncommitted changes, including an unfinished merge.
func (h *Handle) ResetBranch(ctx context.Context, ref string) (*Handle, error) {
	if _, err := h.adapter.RunRaw(ctx, h.repo, "reset", map[string]any{"hard": true, "quiet": true}, []string{ref}); err != nil {
		return nil, fmt.Errorf("failed to reset %s to %s: %w", h.CurrentBranch, ref, err)
	}
	return h.Refresh(ctx)
}

// Discard drops uncommitted changes and untracked files, including ignored
// ones, so a reused working copy starts from its last commit.
func (h *Handle) Discard(ctx context.Context) (*Handle, error) {
	if h.Unborn() {
		if _, err := h.adapter.RunRaw(ctx, h.repo, "read-tree", map[string]any{"empty": true}, nil); err != nil {
			return nil, fmt.Errorf("failed to reset index: %w", err)
		}
	} else if _, err := h.adapter.RunRaw(ctx, h.repo, "reset", map[string]any{"hard": true, "quiet": true}, nil); err != nil {
		return nil, fmt.Errorf("failed to reset working copy: %w", err)
	}
	if _, err := h.adapter.RunRaw(ctx, h.repo, "clean", map[string]any{"d": true, "f": true, "x": true, "q": true}, nil); err != nil {
		return nil, fmt.Errorf("failed to clean working copy: %w", err)
	}
	return h.Refresh(ctx)
}

// remoteError attributes a failed pull or push to the remote's URL
func (h *Handle) remoteError(ctx context.Context, op, remote string, err error) error {
	url, lookupErr := h.adapter.GetRemoteURL(ctx, h.repo, remote)
	if lookupErr != nil || strings.TrimSpace(url) == "" {
		url = remote
	}
	return ghperrors.NewNetworkOrAuthError(op, url, err)
}
