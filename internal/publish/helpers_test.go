package publish_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"

	"ghpages.dev/ghpages/internal/git"
)

// fakeAdapter scripts repository state and records mutating calls
type fakeAdapter struct {
	calls   []string
	queries int

	current string
	local   []string
	remote  []string
	// stageOnAdd is what Status reports after Add
	stageOnAdd map[string]git.FileStatus
	staged     map[string]git.FileStatus
	commits    []git.Commit
	commitOpts []git.CommitOptions
	fail       map[string]error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		current: "main",
		local:   []string{"main"},
		remote:  []string{"origin/main"},
		fail:    map[string]error{},
	}
}

func (f *fakeAdapter) record(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.fail[name]
}

func (f *fakeAdapter) GetRemoteURL(context.Context, git.Repo, string) (string, error) {
	f.queries++
	return "https://example.com/site.git", nil
}

func (f *fakeAdapter) Clone(_ context.Context, _ string, dir string) (git.Repo, error) {
	if err := f.record("Clone"); err != nil {
		return git.Repo{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return git.Repo{}, err
	}
	return git.Repo{Dir: dir}, nil
}

func (f *fakeAdapter) CurrentBranch(context.Context, git.Repo) (string, error) {
	f.queries++
	return f.current, nil
}

func (f *fakeAdapter) BranchesLocal(context.Context, git.Repo) ([]string, error) {
	f.queries++
	return append([]string{}, f.local...), nil
}

func (f *fakeAdapter) BranchesRemote(context.Context, git.Repo) ([]string, error) {
	f.queries++
	return append([]string{}, f.remote...), nil
}

func (f *fakeAdapter) Checkout(_ context.Context, _ git.Repo, name string) error {
	if err := f.record("Checkout", name); err != nil {
		return err
	}
	f.current = name
	if !lo.Contains(f.local, name) {
		f.local = append(f.local, name)
	}
	return nil
}

func (f *fakeAdapter) CreateBranch(_ context.Context, _ git.Repo, name string) error {
	if err := f.record("CreateBranch", name); err != nil {
		return err
	}
	f.local = append(f.local, name)
	return nil
}

func (f *fakeAdapter) Add(_ context.Context, _ git.Repo, pathspec string, opts git.AddOptions) error {
	if err := f.record("Add", pathspec, fmt.Sprintf("force=%t", opts.Force)); err != nil {
		return err
	}
	f.staged = f.stageOnAdd
	return nil
}

func (f *fakeAdapter) Remove(_ context.Context, _ git.Repo, pathspec string, _ git.RemoveOptions) error {
	return f.record("Remove", pathspec)
}

func (f *fakeAdapter) Commit(_ context.Context, _ git.Repo, message string, opts git.CommitOptions) error {
	if err := f.record("Commit", message); err != nil {
		return err
	}
	f.commitOpts = append(f.commitOpts, opts)
	f.staged = nil
	f.commits = append([]git.Commit{{ID: fmt.Sprintf("%040d", len(f.commits)+1), Message: message}}, f.commits...)
	return nil
}

func (f *fakeAdapter) Status(context.Context, git.Repo) (map[string]git.FileStatus, error) {
	f.queries++
	return f.staged, nil
}

func (f *fakeAdapter) Commits(context.Context, git.Repo, string, int) ([]git.Commit, error) {
	f.queries++
	return f.commits, nil
}

func (f *fakeAdapter) RunRaw(_ context.Context, _ git.Repo, command string, _ map[string]any, args []string) (string, error) {
	if err := f.record("RunRaw", append([]string{command}, args...)...); err != nil {
		return "", err
	}
	return "", f.fail["RunRaw "+command]
}

// recordingReporter collects progress events as strings
type recordingReporter struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingReporter) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingReporter) StepStarted(i int, _ string) { r.add(fmt.Sprintf("start %d", i)) }
func (r *recordingReporter) StepCompleted(i int)         { r.add(fmt.Sprintf("done %d", i)) }
func (r *recordingReporter) StepSkipped(i int, _ string) { r.add(fmt.Sprintf("skip %d", i)) }
func (r *recordingReporter) StepFailed(i int, _ error)   { r.add(fmt.Sprintf("fail %d", i)) }

// captureLogger keeps formatted info messages
type captureLogger struct {
	infos []string
}

func (l *captureLogger) Info(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Debug(string, ...interface{}) {}
