package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"ghpages.dev/ghpages/internal/config"
	ghperrors "ghpages.dev/ghpages/internal/errors"
	"ghpages.dev/ghpages/internal/tui"
	"ghpages.dev/ghpages/testhelpers"
)

// runCLI executes the root command in-process and returns its output
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GHPAGES_LOG_FILE", filepath.Join(t.TempDir(), "ghpages.log"))
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = tui.IsInteractive })

	cmd := NewRootCmd("1.2.3", "abc123", "2024-01-02")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func siteDir(t *testing.T, pairs ...string) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i+1 < len(pairs); i += 2 {
		full := filepath.Join(dir, filepath.FromSlash(pairs[i]))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(pairs[i+1]), 0o600))
	}
	return dir
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Equal(t, "ghpages 1.2.3 (commit abc123, built 2024-01-02)\n", out)
}

func TestPublishCmd(t *testing.T) {
	t.Run("publishes and pushes by default", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		site := siteDir(t, "index.html", "<h1>hi</h1>", "js/app.js", "x")

		out, err := runCLI(t, "publish", site, "--remote-url", scene.RemoteURL(), "--cache-dir", scene.CacheDir, "-m", "Deploy")
		require.NoError(t, err, out)
		require.Contains(t, out, "Publishing 2 files from "+site)
		require.Contains(t, out, "  ✓ Prepare working copy")
		require.Contains(t, out, "published 2 files to gh-pages")

		testhelpers.ExpectTree(t, scene.Remote, "gh-pages", []string{"index.html", "js/app.js"})
		testhelpers.ExpectCommits(t, scene.Remote, "gh-pages", []string{"Deploy"})
	})

	t.Run("branch and no-push flags", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		site := siteDir(t, "a.txt", "a")

		out, err := runCLI(t, "publish", site, "--remote-url", scene.RemoteURL(), "--cache-dir", scene.CacheDir, "-b", "docs", "--no-push")
		require.NoError(t, err, out)
		require.Contains(t, out, "committed")
		require.Contains(t, out, "not pushed")

		testhelpers.ExpectBranches(t, scene.Remote, []string{"main"})
		testhelpers.ExpectTree(t, &testhelpers.GitRepo{Dir: scene.CacheDir}, "docs", []string{"a.txt"})
	})

	t.Run("second run reports no changes", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		site := siteDir(t, "a.txt", "a")
		args := []string{"publish", site, "--remote-url", scene.RemoteURL(), "--cache-dir", scene.CacheDir}

		_, err := runCLI(t, args...)
		require.NoError(t, err)
		out, err := runCLI(t, args...)
		require.NoError(t, err, out)
		require.Contains(t, out, "No files have changed.")
		require.Contains(t, out, "no changes to gh-pages")
	})

	t.Run("force publishes ignored files", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		site := siteDir(t, ".gitignore", "*.map\n", "app.js", "x", "app.js.map", "y")

		_, err := runCLI(t, "publish", site, "--remote-url", scene.RemoteURL(), "--cache-dir", scene.CacheDir, "--force")
		require.NoError(t, err)
		testhelpers.ExpectTree(t, scene.Remote, "gh-pages", []string{".gitignore", "app.js", "app.js.map"})
	})

	t.Run("empty directory publishes nothing", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		out, err := runCLI(t, "publish", siteDir(t), "--remote-url", scene.RemoteURL(), "--cache-dir", scene.CacheDir)
		require.NoError(t, err)
		require.Contains(t, out, "No files found")
		require.NoDirExists(t, scene.CacheDir)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := runCLI(t, "publish", filepath.Join(t.TempDir(), "dist"), "--remote-url", "https://example.com/x.git")
		require.ErrorIs(t, err, ghperrors.ErrFilesystem)
	})

	t.Run("invalid branch is rejected before any work", func(t *testing.T) {
		cache := filepath.Join(t.TempDir(), "cache")
		_, err := runCLI(t, "publish", siteDir(t, "a", "a"), "--remote-url", "https://example.com/x.git", "--cache-dir", cache, "-b", "a..b")
		require.ErrorIs(t, err, ghperrors.ErrInvalidBranch)
		require.NoDirExists(t, cache)
	})

	t.Run("unreachable remote", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		_, err := runCLI(t, "publish", siteDir(t, "a", "a"), "--remote-url", scene.Path("nope.git"), "--cache-dir", scene.CacheDir)
		require.ErrorIs(t, err, ghperrors.ErrNetworkOrAuth)
	})
}

func parseOptions(t *testing.T, args ...string) (config.Options, error) {
	t.Helper()
	var f publishFlags
	flags := pflag.NewFlagSet("publish", pflag.ContinueOnError)
	f.register(flags)
	require.NoError(t, flags.Parse(args))
	return f.options(flags)
}

func TestPublishOptions(t *testing.T) {
	t.Run("flags override the config file and environment", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "pages.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("branch: from-file\nmessage: From file\nforce: true\npush: false\n"), 0o600))
		t.Setenv("GHPAGES_ORIGIN", "upstream")

		opts, err := parseOptions(t, "--config", configPath, "-b", "from-flag", "--remote-url", "https://example.com/x.git")
		require.NoError(t, err)
		require.Equal(t, "from-flag", opts.Branch)
		require.Equal(t, "From file", opts.Message)
		require.Equal(t, "upstream", opts.Origin)
		require.Equal(t, "https://example.com/x.git", opts.RemoteURL)
		require.True(t, opts.Force)
		require.False(t, opts.Push)
	})

	t.Run("unset flags keep configured values", func(t *testing.T) {
		t.Setenv("GHPAGES_BRANCH", "from-env")
		t.Setenv("GHPAGES_PUSH", "false")

		opts, err := parseOptions(t)
		require.NoError(t, err)
		require.Equal(t, "from-env", opts.Branch)
		require.Equal(t, "origin", opts.Origin)
		require.False(t, opts.Push)
	})

	t.Run("no-push wins over the environment", func(t *testing.T) {
		t.Setenv("GHPAGES_PUSH", "true")

		opts, err := parseOptions(t, "--no-push")
		require.NoError(t, err)
		require.False(t, opts.Push)
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		_, err := parseOptions(t, "--config", filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
	})
}

func TestCleanCmd(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	site := siteDir(t, "a.txt", "a")

	_, err := runCLI(t, "publish", site, "--remote-url", scene.RemoteURL(), "--cache-dir", scene.CacheDir, "--no-push")
	require.NoError(t, err)
	require.DirExists(t, scene.CacheDir)

	out, err := runCLI(t, "clean", "--remote-url", scene.RemoteURL(), "--cache-dir", scene.CacheDir)
	require.NoError(t, err)
	require.Contains(t, out, "Removed "+scene.CacheDir)
	require.NoDirExists(t, scene.CacheDir)
}

func TestReportPagesURL(t *testing.T) {
	mock := testhelpers.NewMockGitHubServerConfig()
	mock.AddSite("me", "site", "gh-pages", "https://me.github.io/site/")
	server := testhelpers.NewMockGitHubServer(t, mock)
	t.Setenv("GHPAGES_GITHUB_API_URL", server.URL)
	t.Setenv("GITHUB_TOKEN", "secret")

	var out bytes.Buffer
	splog, err := tui.NewSplogWithOptions(tui.SplogOptions{Writer: &out})
	require.NoError(t, err)

	url := reportPagesURL(context.Background(), splog, "git@github.com:me/site.git")
	require.Equal(t, "https://me.github.io/site/", url)
	require.Contains(t, out.String(), "Site: https://me.github.io/site/")
	require.Equal(t, []string{"Bearer secret"}, mock.Authorizations)

	out.Reset()
	require.Empty(t, reportPagesURL(context.Background(), splog, "/srv/git/site.git"))
	require.Empty(t, reportPagesURL(context.Background(), splog, "https://github.com/me/unpublished.git"))
	require.Empty(t, out.String())
	require.Equal(t, 2, mock.RequestCount())
}
