package publish

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/samber/lo"

	"ghpages.dev/ghpages/internal/config"
	ghperrors "ghpages.dev/ghpages/internal/errors"
	"ghpages.dev/ghpages/internal/git"
	"ghpages.dev/ghpages/internal/repo"
)

// Result describes what a publish run did
type Result struct {
	Dir           string
	Branch        string
	RemoteURL     string
	CreatedBranch bool
	// Staged is the number of paths that differed from the branch
	Staged    int
	Committed bool
	CommitID  string
	Pushed    bool
	// Files is the number of files written to the working tree
	Files int
}

// Publisher runs publish batches against git repositories
type Publisher struct {
	adapter  git.Adapter
	logger   Logger
	reporter Reporter
	now      func() time.Time
}

// Option configures a Publisher
type Option func(*Publisher)

// WithLogger sets the logger
func WithLogger(l Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

// WithReporter sets the progress reporter
func WithReporter(r Reporter) Option {
	return func(p *Publisher) { p.reporter = r }
}

// WithClock sets the clock used for default commit messages
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// New returns a Publisher running git through adapter
func New(adapter git.Adapter, opts ...Option) *Publisher {
	p := &Publisher{
		adapter:  adapter,
		logger:   nopLogger{},
		reporter: nopReporter{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes files to opts.Branch in a single run
func (p *Publisher) Publish(ctx context.Context, opts config.Options, files []*File, emit func(*File)) (*Result, error) {
	stream := p.NewStream(opts, emit)
	for _, f := range files {
		if err := stream.Write(f); err != nil {
			return nil, err
		}
	}
	return stream.End(ctx)
}

type run struct {
	*Publisher
	opts   config.Options
	emit   func(*File)
	handle *repo.Handle
	result *Result
}

func (p *Publisher) publishBatch(ctx context.Context, opts config.Options, batch *Batch, emit func(*File)) (*Result, error) {
	result := &Result{Branch: opts.Branch}
	if batch.Len() == 0 {
		p.logger.Debug("Nothing to publish.")
		return result, nil
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &run{Publisher: p, opts: opts, emit: emit, result: result}
	steps := []struct {
		step Step
		fn   func(context.Context, []*File) (skip string, err error)
	}{
		{StepPrepare, r.prepare},
		{StepResolveBranch, r.resolveBranch},
		{StepSync, r.sync},
		{StepClear, r.clear},
		{StepWrite, r.write},
		{StepStage, r.stage},
		{StepCommit, r.commit},
		{StepPush, r.push},
	}

	descriptions := StepDescriptions(opts)
	skipRest := ""
	for _, s := range steps {
		idx := int(s.step)
		if skipRest != "" {
			p.reporter.StepSkipped(idx, skipRest)
			continue
		}

		p.reporter.StepStarted(idx, descriptions[idx])
		p.logger.Debug("%s", descriptions[idx])

		skip, err := s.fn(ctx, batch.Files())
		if err != nil {
			p.reporter.StepFailed(idx, err)
			return nil, err
		}
		switch {
		case skip == "":
			p.reporter.StepCompleted(idx)
		case s.step == StepStage:
			p.reporter.StepCompleted(idx)
			skipRest = skip
		default:
			p.reporter.StepSkipped(idx, skip)
		}
	}
	return result, nil
}

func (r *run) prepare(ctx context.Context, _ []*File) (string, error) {
	prepared, err := repo.Prepare(ctx, r.adapter, repo.PrepareOptions{
		RemoteURL: r.opts.RemoteURL,
		Origin:    r.opts.Origin,
		CacheDir:  r.opts.CacheDir,
		WorkDir:   r.opts.WorkDir,
	})
	if err != nil {
		return "", err
	}

	r.handle = prepared.Handle
	r.result.Dir = prepared.CacheDir
	r.result.RemoteURL = prepared.RemoteURL
	if prepared.Reused {
		r.logger.Debug("Reusing working copy in %s", prepared.CacheDir)
	} else {
		r.logger.Debug("Cloned %s into %s", prepared.RemoteURL, prepared.CacheDir)
	}
	return "", nil
}

// resolveBranch prefers a local branch, then a remote one, and creates the
// branch when neither exists.
func (r *run) resolveBranch(ctx context.Context, _ []*File) (string, error) {
	branch := r.opts.Branch

	var err error
	switch {
	case r.handle.HasLocalBranch(branch), r.handle.HasRemoteBranch(r.opts.Origin, branch):
		r.handle, err = r.handle.CheckoutBranch(ctx, branch)
	default:
		r.handle, err = r.handle.CreateAndCheckoutBranch(ctx, branch)
		r.result.CreatedBranch = err == nil
	}
	return "", err
}

func (r *run) sync(ctx context.Context, _ []*File) (string, error) {
	if r.result.CreatedBranch {
		return "new branch", nil
	}
	if !r.handle.HasRemoteBranch(r.opts.Origin, r.opts.Branch) {
		return "branch not on remote", nil
	}

	pulled, err := r.handle.Pull(ctx, r.opts.Origin)
	if err == nil {
		r.handle = pulled
		return "", nil
	}

	// The pull fetched but could not merge, e.g. the remote branch was
	// rewritten. Its content is replaced below, so take the remote history.
	fetched, fetchErr := r.handle.Fetch(ctx, r.opts.Origin)
	if fetchErr != nil || !fetched.HasRemoteBranch(r.opts.Origin, r.opts.Branch) {
		return "", err
	}
	upstream := r.opts.Origin + "/" + r.opts.Branch
	r.logger.Info("Could not merge %s, resetting %s to it.", upstream, r.opts.Branch)
	r.logger.Debug("Pull failed: %v", err)
	r.handle, err = fetched.ResetBranch(ctx, upstream)
	return "", err
}

// clear removes every tracked file from the index and working tree so the
// new batch replaces the branch content entirely
func (r *run) clear(ctx context.Context, _ []*File) (string, error) {
	var err error
	r.handle, err = r.handle.RemoveFiles(ctx, ".", git.RemoveOptions{
		Recursive:     true,
		Force:         true,
		IgnoreUnmatch: true,
	})
	return "", err
}

func (r *run) write(_ context.Context, files []*File) (string, error) {
	cleaned := make([]string, len(files))
	for i, f := range files {
		p, err := cleanPath(f.Path)
		if err != nil {
			return "", err
		}
		cleaned[i] = p
	}

	fs := osfs.New(r.handle.Dir())
	for i, f := range files {
		if dir := path.Dir(cleaned[i]); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return "", ghperrors.NewFilesystemError("mkdir", dir, err)
			}
		}
		if err := util.WriteFile(fs, cleaned[i], f.Contents, 0o644); err != nil {
			return "", ghperrors.NewFilesystemError("write", cleaned[i], err)
		}
		r.result.Files++
		r.emit(f)
	}

	r.logger.Debug("Wrote %d files: %v", len(files), lo.Slice(cleaned, 0, 10))
	return "", nil
}

func (r *run) stage(ctx context.Context, _ []*File) (string, error) {
	var err error
	r.handle, err = r.handle.AddFiles(ctx, ".", git.AddOptions{Force: r.opts.Force})
	if err != nil {
		return "", err
	}

	r.result.Staged = len(r.handle.Staged)
	if r.result.Staged == 0 {
		r.logger.Info("No files have changed.")
		return "no files have changed", nil
	}
	r.logger.Debug("Staged %d changes", r.result.Staged)
	return "", nil
}

func (r *run) commit(ctx context.Context, _ []*File) (string, error) {
	var err error
	r.handle, err = r.handle.Commit(ctx, r.opts.CommitMessage(r.now()))
	if err != nil {
		return "", err
	}

	r.result.Committed = true
	if head, ok := lo.First(r.handle.Commits); ok {
		r.result.CommitID = head.ID
	}
	return "", nil
}

func (r *run) push(ctx context.Context, _ []*File) (string, error) {
	if !r.opts.Push {
		return "push disabled", nil
	}

	var err error
	r.handle, err = r.handle.Push(ctx, r.opts.Origin)
	if err != nil {
		return "", err
	}
	r.result.Pushed = true
	r.logger.Info("Pushed %s to %s.", r.opts.Branch, r.result.RemoteURL)
	return "", nil
}

func (r *Result) String() string {
	switch {
	case r.Pushed:
		return fmt.Sprintf("published %d files to %s (%s)", r.Files, r.Branch, shortID(r.CommitID))
	case r.Committed:
		return fmt.Sprintf("committed %d files to %s (%s), not pushed", r.Files, r.Branch, shortID(r.CommitID))
	default:
		return fmt.Sprintf("no changes to %s", r.Branch)
	}
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
