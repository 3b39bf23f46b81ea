package testhelpers

import (
	"path/filepath"
	"testing"
)

// Scene is a throwaway publishing environment: a bare remote, a seed
// working copy wired to it as origin, and an unused cache directory
// path for the publisher to clone into.
type Scene struct {
	Dir      string
	Remote   *GitRepo
	Seed     *GitRepo
	CacheDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene under t.TempDir().
// Git identity and config isolation are applied with t.Setenv, so scenes
// cannot be used from parallel tests.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	dir := t.TempDir()

	remote, err := NewBareRepo(filepath.Join(dir, "remote.git"))
	if err != nil {
		t.Fatalf("Failed to create remote: %v", err)
	}

	seed, err := NewGitRepo(filepath.Join(dir, "seed"))
	if err != nil {
		t.Fatalf("Failed to create seed repo: %v", err)
	}
	if err := seed.AddRemote("origin", remote.Dir); err != nil {
		t.Fatalf("Failed to add origin: %v", err)
	}

	scene := &Scene{
		Dir:      dir,
		Remote:   remote,
		Seed:     seed,
		CacheDir: filepath.Join(dir, "cache", "repo"),
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// RemoteURL returns the URL the publisher should clone
func (s *Scene) RemoteURL() string {
	return s.Remote.Dir
}

// Path returns an absolute path inside the scene directory
func (s *Scene) Path(elem ...string) string {
	return filepath.Join(append([]string{s.Dir}, elem...)...)
}

// BasicSceneSetup pushes a single commit on main to the remote.
func BasicSceneSetup(scene *Scene) error {
	if err := scene.Seed.CreateChangeAndCommit("README.md", "# project\n", "initial"); err != nil {
		return err
	}
	return scene.Seed.PushBranch("origin", "main")
}

// PagesSceneSetup extends BasicSceneSetup with an existing gh-pages branch
// holding index.html and old.html.
func PagesSceneSetup(scene *Scene) error {
	if err := BasicSceneSetup(scene); err != nil {
		return err
	}
	if err := scene.Seed.CreateOrphanBranch("gh-pages"); err != nil {
		return err
	}
	if err := scene.Seed.CreateChange("index.html", "<h1>old</h1>"); err != nil {
		return err
	}
	if err := scene.Seed.CreateChangeAndCommit("old.html", "stale", "old site"); err != nil {
		return err
	}
	if err := scene.Seed.PushBranch("origin", "gh-pages"); err != nil {
		return err
	}
	return scene.Seed.CheckoutBranch("main")
}

// DocsSceneSetup pushes a main branch tracking docs/index.md and a separate
// docs branch holding index.html, so the branch name is also a path on main.
func DocsSceneSetup(scene *Scene) error {
	if err := scene.Seed.CreateChangeAndCommit("docs/index.md", "# docs\n", "initial"); err != nil {
		return err
	}
	if err := scene.Seed.PushBranch("origin", "main"); err != nil {
		return err
	}
	if err := scene.Seed.CreateOrphanBranch("docs"); err != nil {
		return err
	}
	if err := scene.Seed.CreateChangeAndCommit("index.html", "<h1>docs</h1>", "docs site"); err != nil {
		return err
	}
	if err := scene.Seed.PushBranch("origin", "docs"); err != nil {
		return err
	}
	return scene.Seed.CheckoutBranch("main")
}
