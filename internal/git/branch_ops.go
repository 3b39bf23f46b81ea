package git

import (
	"context"
	"fmt"
	"strings"

	ghperrors "ghpages.dev/ghpages/internal/errors"
)

// currentBranch returns the branch HEAD points at, including an unborn one
func currentBranch(ctx context.Context, r *CommandRunner) (string, error) {
	name, err := r.Run(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("HEAD is not on a branch")
	}
	return name, nil
}

// hasCommits reports whether HEAD resolves to a commit
func hasCommits(ctx context.Context, r *CommandRunner) bool {
	_, err := r.Run(ctx, "rev-parse", "--verify", "-q", "HEAD")
	return err == nil
}

func branchesLocal(ctx context.Context, r *CommandRunner) ([]string, error) {
	names, err := r.RunLines(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("failed to list local branches: %w", err)
	}
	return names, nil
}

func branchesRemote(ctx context.Context, r *CommandRunner) ([]string, error) {
	lines, err := r.RunLines(ctx, append([]string{"branch"}, FlagArgs(map[string]any{"r": true})...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}

	names := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		// "origin/HEAD -> origin/main" is a symbolic ref, not a branch
		if strings.Contains(line, " -> ") {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}

// checkoutBranch checks out an existing branch. A name that only exists on
// a remote gets a local tracking branch (git's default DWIM behavior). The
// trailing "--" keeps a tracked path of the same name from being read as a
// pathspec.
func checkoutBranch(ctx context.Context, r *CommandRunner, branchName string) error {
	_, err := r.Run(ctx, "checkout", "--quiet", branchName, "--")
	if err != nil {
		if isUnknownRevision(err) {
			return ghperrors.NewInvalidBranchError(branchName, err)
		}
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// createBranch creates branchName at HEAD. On an unborn HEAD (freshly
// cloned empty repository) there is no commit to branch from, so HEAD is
// repointed at the new name instead.
func createBranch(ctx context.Context, r *CommandRunner, branchName string) error {
	if !hasCommits(ctx, r) {
		if _, err := r.Run(ctx, "symbolic-ref", "HEAD", "refs/heads/"+branchName); err != nil {
			return fmt.Errorf("failed to create branch %s: %w", branchName, err)
		}
		return nil
	}

	if _, err := r.Run(ctx, "branch", branchName); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branchName, err)
	}
	return nil
}

func isUnknownRevision(err error) bool {
	msg := stderrOf(err)
	return strings.Contains(msg, "did not match any file(s) known to git") ||
		strings.Contains(msg, "invalid reference") ||
		strings.Contains(msg, "unknown revision")
}
