// Package testhelpers provides testing utilities for ghpages,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected local
// branches. On a bare remote these are the published branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")

	sort.Strings(branches)
	want := append([]string{}, expected...)
	sort.Strings(want)

	require.Equal(t, want, branches, "Branches do not match")
}

// ExpectCommits asserts that the newest commits on branch have the expected
// subjects, newest first.
func ExpectCommits(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	messages, err := repo.ListCommitMessages(branch)
	require.NoError(t, err, "Failed to list commits")

	if len(messages) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(messages))
		return
	}
	require.Equal(t, expected, messages[:len(expected)], "Commits do not match")
}

// ExpectTree asserts that branch tracks exactly the given paths
func ExpectTree(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	files, err := repo.ListFiles(branch)
	require.NoError(t, err, "Failed to list files on %s", branch)

	want := append([]string{}, expected...)
	sort.Strings(want)
	sort.Strings(files)

	require.Equal(t, want, files, "Files on %s do not match", branch)
}

// ExpectFile asserts the committed contents of path on branch
func ExpectFile(t *testing.T, repo *GitRepo, branch, path, expected string) {
	t.Helper()

	contents, err := repo.ShowFile(branch, path)
	require.NoError(t, err, "Failed to read %s on %s", path, branch)
	require.Equal(t, expected, contents, "Contents of %s on %s do not match", path, branch)
}
