package publish

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ghpages.dev/ghpages/internal/config"
	ghperrors "ghpages.dev/ghpages/internal/errors"
)

func TestCleanPath(t *testing.T) {
	valid := map[string]string{
		"index.html":          "index.html",
		"./a/b.txt":           "a/b.txt",
		"a//b/../c.txt":       "a/c.txt",
		".gitignore":          ".gitignore",
		".github/CODEOWNERS":  ".github/CODEOWNERS",
		"docs/.git-keep/file": "docs/.git-keep/file",
	}
	for in, want := range valid {
		got, err := cleanPath(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{"", ".", "..", "../x", "a/../../x", "/abs", ".git", ".git/HEAD", "./.git/config"} {
		_, err := cleanPath(in)
		require.ErrorIs(t, err, ghperrors.ErrFilesystem, in)
	}
}

func TestStepDescriptions(t *testing.T) {
	opts := config.Default()
	opts.Branch = "docs"
	opts.Origin = "upstream"

	descriptions := StepDescriptions(opts)
	require.Len(t, descriptions, int(StepPush)+1)
	require.Equal(t, "Check out docs", descriptions[StepResolveBranch])
	require.Equal(t, "Pull docs from upstream", descriptions[StepSync])
	require.Equal(t, "Push to upstream", descriptions[StepPush])
}
