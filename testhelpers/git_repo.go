package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo represents a Git working copy used by tests
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", "--quiet", "-b", "main", dir)
	cmd.Env = gitEnv()
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return &GitRepo{Dir: dir}, nil
}

// NewBareRepo initializes a bare repository whose HEAD points at main.
// Tests use it as the remote that publishing pushes to.
func NewBareRepo(dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "init", "--quiet", "--bare", dir)
	cmd.Env = gitEnv()
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to init bare repo: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return &GitRepo{Dir: dir}, nil
}

// NewGitRepoFromURL clones a repository from a remote URL.
func NewGitRepoFromURL(dir string, repoURL string) (*GitRepo, error) {
	cmd := exec.Command("git", "clone", "--quiet", repoURL, dir)
	cmd.Env = gitEnv()
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to clone repo: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return &GitRepo{Dir: dir}, nil
}

// gitEnv isolates test git processes from the developer's global config.
// Identity comes from the GIT_AUTHOR_*/GIT_COMMITTER_* variables the scene sets.
func gitEnv() []string {
	return append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1", "GIT_TERMINAL_PROMPT=0")
}

// RunGitCommand executes a git command and returns an error if it fails.
func (r *GitRepo) RunGitCommand(args ...string) error {
	_, err := r.RunGitCommandAndGetOutput(args...)
	return err
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = gitEnv()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s failed: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// WriteFile writes contents to a path relative to the working copy,
// creating parent directories as needed.
func (r *GitRepo) WriteFile(path, contents string) error {
	full := filepath.Join(r.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(contents), 0o600)
}

// ReadFile reads a path relative to the working copy
func (r *GitRepo) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileExists reports whether path exists in the working copy
func (r *GitRepo) FileExists(path string) bool {
	_, err := os.Stat(filepath.Join(r.Dir, filepath.FromSlash(path)))
	return err == nil
}

// CreateChange writes a file and stages it.
func (r *GitRepo) CreateChange(path, contents string) error {
	if err := r.WriteFile(path, contents); err != nil {
		return err
	}
	return r.RunGitCommand("add", "--", path)
}

// CreateChangeAndCommit writes and stages a file, then commits it.
func (r *GitRepo) CreateChangeAndCommit(path, contents, message string) error {
	if err := r.CreateChange(path, contents); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "--quiet", "-m", message)
}

// AddRemote registers url under name
func (r *GitRepo) AddRemote(name, url string) error {
	return r.RunGitCommand("remote", "add", name, url)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", "--quiet", "-b", name)
}

// CreateOrphanBranch checks out a new branch with no history and an empty index
func (r *GitRepo) CreateOrphanBranch(name string) error {
	if err := r.RunGitCommand("checkout", "--quiet", "--orphan", name); err != nil {
		return err
	}
	return r.RunGitCommand("rm", "-r", "-f", "--quiet", "--ignore-unmatch", "--", ".")
}

// CheckoutBranch checks out an existing branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", "--quiet", name)
}

// PushBranch pushes branch to remote
func (r *GitRepo) PushBranch(remote, branch string) error {
	return r.RunGitCommand("push", "--quiet", remote, branch)
}

// CurrentBranchName returns the current branch name.
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.RunGitCommandAndGetOutput("symbolic-ref", "--short", "HEAD")
}

// GetLocalBranches returns the names of all local branches.
func (r *GitRepo) GetLocalBranches() ([]string, error) {
	return r.refNames("refs/heads/")
}

// GetRemoteBranches returns remote-tracking branches as "remote/name"
func (r *GitRepo) GetRemoteBranches() ([]string, error) {
	return r.refNames("refs/remotes/")
}

func (r *GitRepo) refNames(prefix string) ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("for-each-ref", "--format=%(refname:short)", prefix)
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(output), nil
}

// ListCommitMessages returns the commit subjects reachable from ref, newest first.
func (r *GitRepo) ListCommitMessages(ref string) ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("log", "--format=%s", ref, "--")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(output), nil
}

// GetRevision resolves ref to a commit SHA
func (r *GitRepo) GetRevision(ref string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", "--verify", ref+"^{commit}")
}

// ShowFile returns the contents of path as committed on ref. It works on
// bare repositories.
func (r *GitRepo) ShowFile(ref, path string) (string, error) {
	return r.RunGitCommandAndGetOutput("show", ref+":"+path)
}

// ListFiles returns the paths tracked on ref
func (r *GitRepo) ListFiles(ref string) ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("ls-tree", "-r", "--name-only", ref)
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(output), nil
}

func nonEmptyLines(s string) []string {
	lines := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
