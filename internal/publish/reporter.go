package publish

import (
	"fmt"

	"ghpages.dev/ghpages/internal/config"
)

// Step identifies a publish phase
type Step int

// Publish phases in execution order
const (
	StepPrepare Step = iota
	StepResolveBranch
	StepSync
	StepClear
	StepWrite
	StepStage
	StepCommit
	StepPush
)

// Reporter receives progress for each publish phase
type Reporter interface {
	StepStarted(stepIndex int, description string)
	StepCompleted(stepIndex int)
	StepSkipped(stepIndex int, reason string)
	StepFailed(stepIndex int, err error)
}

// Logger is the logging surface the publisher needs. *tui.Splog satisfies it.
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// StepDescriptions returns the label of every phase for opts, indexed by Step
func StepDescriptions(opts config.Options) []string {
	return []string{
		StepPrepare:       "Prepare working copy",
		StepResolveBranch: fmt.Sprintf("Check out %s", opts.Branch),
		StepSync:          fmt.Sprintf("Pull %s from %s", opts.Branch, opts.Origin),
		StepClear:         "Clear working tree",
		StepWrite:         "Write files",
		StepStage:         "Stage changes",
		StepCommit:        "Commit",
		StepPush:          fmt.Sprintf("Push to %s", opts.Origin),
	}
}

type nopReporter struct{}

func (nopReporter) StepStarted(int, string) {}
func (nopReporter) StepCompleted(int)       {}
func (nopReporter) StepSkipped(int, string) {}
func (nopReporter) StepFailed(int, error)   {}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}
