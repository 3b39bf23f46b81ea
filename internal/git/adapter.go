package git

import (
	"context"
	"time"
)

// ChangeType is the single-letter change code git reports for an index entry
type ChangeType string

const (
	// ChangeAdded is a path new to the index
	ChangeAdded ChangeType = "A"
	// ChangeModified is a path whose content changed
	ChangeModified ChangeType = "M"
	// ChangeDeleted is a path removed from the index
	ChangeDeleted ChangeType = "D"
	// ChangeTypeChanged is a path whose file type changed (e.g. file to symlink)
	ChangeTypeChanged ChangeType = "T"
)

// FileStatus is the change metadata for one staged path
type FileStatus struct {
	Type ChangeType
}

// Commit is one entry of a branch's history
type Commit struct {
	ID          string
	Message     string
	CommittedAt time.Time
}

// AddOptions contains options for staging files
type AddOptions struct {
	// Force stages paths that ignore files would otherwise exclude
	Force bool
}

// RemoveOptions contains options for removing files from the index
type RemoveOptions struct {
	Recursive     bool
	Cached        bool
	Force         bool
	IgnoreUnmatch bool
}

// CommitOptions contains options for creating a commit
type CommitOptions struct {
	// All stages modified and deleted tracked files before committing
	All bool
}

// Adapter defines the git primitives the publisher is built on.
// Every call blocks until the underlying git process exits and reports
// failures as errors from the internal/errors taxonomy, wrapping the
// original git output.
type Adapter interface {
	// Repository access
	GetRemoteURL(ctx context.Context, repo Repo, remote string) (string, error)
	Clone(ctx context.Context, url, dir string) (Repo, error)

	// Branch management
	CurrentBranch(ctx context.Context, repo Repo) (string, error)
	BranchesLocal(ctx context.Context, repo Repo) ([]string, error)
	BranchesRemote(ctx context.Context, repo Repo) ([]string, error)
	Checkout(ctx context.Context, repo Repo, name string) error
	CreateBranch(ctx context.Context, repo Repo, name string) error

	// Index and history
	Add(ctx context.Context, repo Repo, pathspec string, opts AddOptions) error
	Remove(ctx context.Context, repo Repo, pathspec string, opts RemoveOptions) error
	Commit(ctx context.Context, repo Repo, message string, opts CommitOptions) error
	Status(ctx context.Context, repo Repo) (map[string]FileStatus, error)
	Commits(ctx context.Context, repo Repo, branch string, limit int) ([]Commit, error)

	// Low-level passthrough (pull, push, ...)
	RunRaw(ctx context.Context, repo Repo, command string, flags map[string]any, args []string) (string, error)
}

// CLIAdapter implements Adapter by running the git binary
type CLIAdapter struct {
	env []string
}

// NewCLIAdapter returns an Adapter backed by the git binary on PATH.
// env is appended to the environment of every git process.
func NewCLIAdapter(env ...string) *CLIAdapter {
	return &CLIAdapter{env: env}
}

func (a *CLIAdapter) runner(dir string) *CommandRunner {
	r := NewCommandRunner(dir)
	if len(a.env) > 0 {
		r = r.WithEnv(a.env...)
	}
	return r
}

// GetRemoteURL returns the URL configured for remote in repo
func (a *CLIAdapter) GetRemoteURL(_ context.Context, repo Repo, remote string) (string, error) {
	return remoteURL(repo.Dir, remote)
}

// Clone clones url into dir
func (a *CLIAdapter) Clone(ctx context.Context, url, dir string) (Repo, error) {
	return clone(ctx, a.runner(""), url, dir)
}

// CurrentBranch returns the branch HEAD points at
func (a *CLIAdapter) CurrentBranch(ctx context.Context, repo Repo) (string, error) {
	return currentBranch(ctx, a.runner(repo.Dir))
}

// BranchesLocal returns the names of local branches
func (a *CLIAdapter) BranchesLocal(ctx context.Context, repo Repo) ([]string, error) {
	return branchesLocal(ctx, a.runner(repo.Dir))
}

// BranchesRemote returns remote-tracking branches as "remote/name"
func (a *CLIAdapter) BranchesRemote(ctx context.Context, repo Repo) ([]string, error) {
	return branchesRemote(ctx, a.runner(repo.Dir))
}

// Checkout checks out an existing local or remote-tracking branch
func (a *CLIAdapter) Checkout(ctx context.Context, repo Repo, name string) error {
	return checkoutBranch(ctx, a.runner(repo.Dir), name)
}

// CreateBranch creates a branch at HEAD without checking it out
func (a *CLIAdapter) CreateBranch(ctx context.Context, repo Repo, name string) error {
	return createBranch(ctx, a.runner(repo.Dir), name)
}

// Add stages pathspec
func (a *CLIAdapter) Add(ctx context.Context, repo Repo, pathspec string, opts AddOptions) error {
	return add(ctx, a.runner(repo.Dir), pathspec, opts)
}

// Remove removes pathspec from the index (and the working tree unless Cached)
func (a *CLIAdapter) Remove(ctx context.Context, repo Repo, pathspec string, opts RemoveOptions) error {
	return remove(ctx, a.runner(repo.Dir), pathspec, opts)
}

// Commit records the index as a new commit
func (a *CLIAdapter) Commit(ctx context.Context, repo Repo, message string, opts CommitOptions) error {
	return commit(ctx, a.runner(repo.Dir), message, opts)
}

// Status returns the staged paths of repo
func (a *CLIAdapter) Status(ctx context.Context, repo Repo) (map[string]FileStatus, error) {
	return stagedFiles(ctx, a.runner(repo.Dir))
}

// Commits returns up to limit commits reachable from branch, newest first
func (a *CLIAdapter) Commits(ctx context.Context, repo Repo, branch string, limit int) ([]Commit, error) {
	return commits(ctx, a.runner(repo.Dir), branch, limit)
}

// RunRaw runs `git <command> <flags...> <args...>` in repo
func (a *CLIAdapter) RunRaw(ctx context.Context, repo Repo, command string, flags map[string]any, args []string) (string, error) {
	cmdArgs := append([]string{command}, FlagArgs(flags)...)
	cmdArgs = append(cmdArgs, args...)
	return a.runner(repo.Dir).Run(ctx, cmdArgs...)
}
