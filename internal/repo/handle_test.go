package repo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ghperrors "ghpages.dev/ghpages/internal/errors"
	"ghpages.dev/ghpages/internal/git"
	"ghpages.dev/ghpages/internal/repo"
	"ghpages.dev/ghpages/testhelpers"
)

func newHandle(t *testing.T, scene *testhelpers.Scene) *repo.Handle {
	t.Helper()
	adapter := git.NewCLIAdapter()
	require.NoError(t, os.MkdirAll(filepath.Dir(scene.CacheDir), 0o755))
	r, err := adapter.Clone(context.Background(), scene.RemoteURL(), scene.CacheDir)
	require.NoError(t, err)
	h, err := repo.New(context.Background(), adapter, r)
	require.NoError(t, err)
	return h
}

func TestHandleRefresh(t *testing.T) {
	t.Run("derives state from the working copy", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.PagesSceneSetup)
		h := newHandle(t, scene)

		require.Equal(t, scene.CacheDir, h.Dir())
		require.Equal(t, "main", h.CurrentBranch)
		require.Equal(t, []string{"main"}, h.LocalBranches)
		require.ElementsMatch(t, []string{"origin/main", "origin/gh-pages"}, h.RemoteBranches)
		require.Empty(t, h.Staged)
		require.Len(t, h.Commits, 1)
		require.Equal(t, "initial", h.Commits[0].Message)

		require.True(t, h.HasLocalBranch("main"))
		require.False(t, h.HasLocalBranch("gh-pages"))
		require.True(t, h.HasRemoteBranch("origin", "gh-pages"))
		require.False(t, h.HasRemoteBranch("upstream", "gh-pages"))
		require.False(t, h.Unborn())
	})

	t.Run("empty remote has an unborn branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		h := newHandle(t, scene)

		require.NotEmpty(t, h.CurrentBranch)
		require.True(t, h.Unborn())
		require.Empty(t, h.LocalBranches)
		require.Empty(t, h.RemoteBranches)
		require.Empty(t, h.Commits)
	})
}

func TestHandleMutations(t *testing.T) {
	t.Run("mutations return a new handle and leave the receiver alone", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)
		ctx := context.Background()

		created, err := h.CreateBranch(ctx, "gh-pages")
		require.NoError(t, err)
		require.NotSame(t, h, created)
		require.Equal(t, "main", created.CurrentBranch)
		require.True(t, created.HasLocalBranch("gh-pages"))
		require.False(t, h.HasLocalBranch("gh-pages"))

		checked, err := created.CheckoutBranch(ctx, "gh-pages")
		require.NoError(t, err)
		require.Equal(t, "gh-pages", checked.CurrentBranch)
		require.Equal(t, "main", created.CurrentBranch)
	})

	t.Run("checkout of a missing branch fails with its name", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)

		_, err := h.CheckoutBranch(context.Background(), "does-not-exist")
		require.ErrorIs(t, err, ghperrors.ErrInvalidBranch)
		require.Contains(t, err.Error(), "does-not-exist")
	})

	t.Run("create and checkout on an unborn branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		h := newHandle(t, scene)

		h, err := h.CreateAndCheckoutBranch(context.Background(), "gh-pages")
		require.NoError(t, err)
		require.Equal(t, "gh-pages", h.CurrentBranch)
		require.True(t, h.Unborn())
	})

	t.Run("stage, commit and push", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)
		ctx := context.Background()
		work := &testhelpers.GitRepo{Dir: h.Dir()}

		h, err := h.CreateAndCheckoutBranch(ctx, "gh-pages")
		require.NoError(t, err)

		require.NoError(t, work.WriteFile("index.html", "hello"))
		h, err = h.AddFiles(ctx, ".", git.AddOptions{})
		require.NoError(t, err)
		require.Equal(t, map[string]git.FileStatus{"index.html": {Type: git.ChangeAdded}}, h.Staged)

		h, err = h.Commit(ctx, "publish")
		require.NoError(t, err)
		require.Empty(t, h.Staged)
		require.Equal(t, "publish", h.Commits[0].Message)

		h, err = h.Push(ctx, "origin")
		require.NoError(t, err)
		require.True(t, h.HasRemoteBranch("origin", "gh-pages"))
		testhelpers.ExpectFile(t, scene.Remote, "gh-pages", "index.html", "hello")
	})

	t.Run("commit includes unstaged changes to tracked files", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)
		work := &testhelpers.GitRepo{Dir: h.Dir()}

		require.NoError(t, work.WriteFile("README.md", "# changed\n"))
		h, err := h.Commit(context.Background(), "edit readme")
		require.NoError(t, err)
		require.Equal(t, "edit readme", h.Commits[0].Message)
		testhelpers.ExpectFile(t, work, "main", "README.md", "# changed")
	})

	t.Run("reset branch takes a rewritten remote history", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)
		ctx := context.Background()

		require.NoError(t, scene.Seed.CreateOrphanBranch("rewrite"))
		require.NoError(t, scene.Seed.CreateChangeAndCommit("new.txt", "new", "rewritten"))
		require.NoError(t, scene.Seed.RunGitCommand("push", "--quiet", "--force", "origin", "rewrite:main"))

		_, err := h.Pull(ctx, "origin")
		require.Error(t, err)

		h, err = h.Fetch(ctx, "origin")
		require.NoError(t, err)
		h, err = h.ResetBranch(ctx, "origin/main")
		require.NoError(t, err)
		require.Equal(t, "main", h.CurrentBranch)
		require.Len(t, h.Commits, 1)
		require.Equal(t, "rewritten", h.Commits[0].Message)
		require.Empty(t, h.Staged)
		require.NoFileExists(t, filepath.Join(h.Dir(), "README.md"))
	})

	t.Run("remove files clears the tree", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)

		h, err := h.RemoveFiles(context.Background(), ".", git.RemoveOptions{Recursive: true, Force: true, IgnoreUnmatch: true})
		require.NoError(t, err)
		require.Equal(t, map[string]git.FileStatus{"README.md": {Type: git.ChangeDeleted}}, h.Staged)
		require.NoFileExists(t, filepath.Join(h.Dir(), "README.md"))
	})

	t.Run("pull brings in remote commits", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)

		require.NoError(t, scene.Seed.CreateChangeAndCommit("CHANGELOG.md", "v2", "second"))
		require.NoError(t, scene.Seed.PushBranch("origin", "main"))

		h, err := h.Pull(context.Background(), "origin")
		require.NoError(t, err)
		require.Equal(t, "second", h.Commits[0].Message)
		require.FileExists(t, filepath.Join(h.Dir(), "CHANGELOG.md"))
	})

	t.Run("push to a missing remote is a network error", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)
		require.NoError(t, os.RemoveAll(scene.Remote.Dir))

		_, err := h.Push(context.Background(), "origin")
		require.ErrorIs(t, err, ghperrors.ErrNetworkOrAuth)
		require.Contains(t, err.Error(), scene.Remote.Dir)
	})
}

func TestHandleFetchAndDiscard(t *testing.T) {
	t.Run("fetch sees new remote branches", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)
		require.False(t, h.HasRemoteBranch("origin", "gh-pages"))

		require.NoError(t, scene.Seed.CreateAndCheckoutBranch("gh-pages"))
		require.NoError(t, scene.Seed.PushBranch("origin", "gh-pages"))

		h, err := h.Fetch(context.Background(), "origin")
		require.NoError(t, err)
		require.True(t, h.HasRemoteBranch("origin", "gh-pages"))
	})

	t.Run("discard resets tracked and untracked changes", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		h := newHandle(t, scene)
		work := &testhelpers.GitRepo{Dir: h.Dir()}

		require.NoError(t, work.CreateChange("README.md", "dirty"))
		require.NoError(t, work.WriteFile("stray.txt", "left over"))

		h, err := h.Discard(context.Background())
		require.NoError(t, err)
		require.Empty(t, h.Staged)
		require.NoFileExists(t, filepath.Join(h.Dir(), "stray.txt"))

		contents, err := work.ReadFile("README.md")
		require.NoError(t, err)
		require.Equal(t, "# project\n", contents)
	})

	t.Run("discard on an unborn branch empties the index", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		h := newHandle(t, scene)
		work := &testhelpers.GitRepo{Dir: h.Dir()}

		require.NoError(t, work.CreateChange("a.txt", "a"))
		h, err := h.Refresh(context.Background())
		require.NoError(t, err)
		require.Len(t, h.Staged, 1)

		h, err = h.Discard(context.Background())
		require.NoError(t, err)
		require.Empty(t, h.Staged)
		require.NoFileExists(t, filepath.Join(h.Dir(), "a.txt"))
	})
}
