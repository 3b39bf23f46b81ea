// Package scenario provides a high-level test scenario that combines a Scene,
// a site directory and the ghpages binary to provide a terse API for
// end-to-end CLI tests.
package scenario

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ghpages.dev/ghpages/testhelpers"
)

// Scenario runs the ghpages binary from the seed repository of a Scene
type Scenario struct {
	T          *testing.T
	Scene      *testhelpers.Scene
	SiteDir    string
	BinaryPath string
}

// NewScenario creates a new Scenario with an optional setup function.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	scene := testhelpers.NewScene(t, setup)
	// Keep logs and the default cache inside the scene
	t.Setenv("GHPAGES_LOG_FILE", scene.Path("logs", "ghpages.log"))
	t.Setenv("XDG_CACHE_HOME", scene.Path("xdg-cache"))

	siteDir := scene.Path("site")
	require.NoError(t, os.MkdirAll(siteDir, 0o755))

	return &Scenario{T: t, Scene: scene, SiteDir: siteDir}
}

// WithBinaryPath sets the path to the ghpages binary for RunCli methods.
func (s *Scenario) WithBinaryPath(path string) *Scenario {
	s.BinaryPath = path
	return s
}

// WithSiteFile writes a file into the site directory
func (s *Scenario) WithSiteFile(path, contents string) *Scenario {
	s.T.Helper()
	full := filepath.Join(s.SiteDir, filepath.FromSlash(path))
	require.NoError(s.T, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(s.T, os.WriteFile(full, []byte(contents), 0o600))
	return s
}

// WithoutSiteFile deletes a file from the site directory
func (s *Scenario) WithoutSiteFile(path string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, os.Remove(filepath.Join(s.SiteDir, filepath.FromSlash(path))))
	return s
}

func (s *Scenario) command(args ...string) *exec.Cmd {
	s.T.Helper()
	if s.BinaryPath == "" {
		s.T.Fatal("BinaryPath not set. Call WithBinaryPath first.")
	}
	cmd := exec.Command(s.BinaryPath, args...)
	cmd.Dir = s.Scene.Seed.Dir
	cmd.Env = os.Environ()
	return cmd
}

// RunCli executes a ghpages command and requires it to succeed
func (s *Scenario) RunCli(args ...string) *Scenario {
	s.T.Helper()
	output, err := s.command(args...).CombinedOutput()
	require.NoError(s.T, err, "CLI command failed: ghpages %v\nOutput: %s", args, string(output))
	return s
}

// RunCliAndGetOutput executes a ghpages command and returns its output
func (s *Scenario) RunCliAndGetOutput(args ...string) (string, error) {
	s.T.Helper()
	output, err := s.command(args...).CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("ghpages %v: %w", args, err)
	}
	return string(output), nil
}

// RunExpectError executes a ghpages command, expects it to fail and returns its output
func (s *Scenario) RunExpectError(args ...string) string {
	s.T.Helper()
	output, err := s.command(args...).CombinedOutput()
	require.Error(s.T, err, "expected CLI command to fail: ghpages %v\nOutput: %s", args, string(output))
	return string(output)
}

// ExpectRemoteTree asserts the files on a branch of the remote
func (s *Scenario) ExpectRemoteTree(branch string, paths []string) *Scenario {
	s.T.Helper()
	testhelpers.ExpectTree(s.T, s.Scene.Remote, branch, paths)
	return s
}

// ExpectRemoteFile asserts the content of a file on a branch of the remote
func (s *Scenario) ExpectRemoteFile(branch, path, contents string) *Scenario {
	s.T.Helper()
	testhelpers.ExpectFile(s.T, s.Scene.Remote, branch, path, contents)
	return s
}

// ExpectRemoteCommits asserts the newest commit messages of a branch of the remote
func (s *Scenario) ExpectRemoteCommits(branch string, messages []string) *Scenario {
	s.T.Helper()
	testhelpers.ExpectCommits(s.T, s.Scene.Remote, branch, messages)
	return s
}

// ExpectRemoteBranches asserts the branches of the remote
func (s *Scenario) ExpectRemoteBranches(branches []string) *Scenario {
	s.T.Helper()
	testhelpers.ExpectBranches(s.T, s.Scene.Remote, branches)
	return s
}
