package tui

import (
	"sync"
)

// ProgressUpdate is a single publish step transition
type ProgressUpdate struct {
	Type        string // "started", "completed", "skipped", "failed"
	StepIndex   int
	Description string
	Reason      string
	Error       error
}

const (
	updateStarted   = "started"
	updateCompleted = "completed"
	updateSkipped   = "skipped"
	updateFailed    = "failed"
)

// ChannelProgressReporter implements publish.Reporter using channels
type ChannelProgressReporter struct {
	updates chan ProgressUpdate
	once    sync.Once
}

// NewChannelProgressReporter creates a new channel-based progress reporter
func NewChannelProgressReporter() *ChannelProgressReporter {
	return &ChannelProgressReporter{
		updates: make(chan ProgressUpdate, 100),
	}
}

// Updates returns the channel for receiving updates
func (r *ChannelProgressReporter) Updates() <-chan ProgressUpdate {
	return r.updates
}

// Close closes the update channel (safe to call multiple times)
func (r *ChannelProgressReporter) Close() {
	r.once.Do(func() {
		close(r.updates)
	})
}

// StepStarted reports that a step has started
func (r *ChannelProgressReporter) StepStarted(stepIndex int, description string) {
	r.updates <- ProgressUpdate{Type: updateStarted, StepIndex: stepIndex, Description: description}
}

// StepCompleted reports that a step has completed
func (r *ChannelProgressReporter) StepCompleted(stepIndex int) {
	r.updates <- ProgressUpdate{Type: updateCompleted, StepIndex: stepIndex}
}

// StepSkipped reports that a step was not needed
func (r *ChannelProgressReporter) StepSkipped(stepIndex int, reason string) {
	r.updates <- ProgressUpdate{Type: updateSkipped, StepIndex: stepIndex, Reason: reason}
}

// StepFailed reports that a step has failed
func (r *ChannelProgressReporter) StepFailed(stepIndex int, err error) {
	r.updates <- ProgressUpdate{Type: updateFailed, StepIndex: stepIndex, Error: err}
}

// LogProgressReporter implements publish.Reporter by writing one line per
// finished step. It is used when no TTY is available.
type LogProgressReporter struct {
	splog        *Splog
	descriptions []string
}

// NewLogProgressReporter creates a reporter that logs through splog
func NewLogProgressReporter(splog *Splog, descriptions []string) *LogProgressReporter {
	return &LogProgressReporter{splog: splog, descriptions: descriptions}
}

func (r *LogProgressReporter) describe(stepIndex int) string {
	if stepIndex >= 0 && stepIndex < len(r.descriptions) {
		return r.descriptions[stepIndex]
	}
	return "step"
}

// StepStarted implements publish.Reporter
func (r *LogProgressReporter) StepStarted(stepIndex int, description string) {
	r.splog.Debug("  ⋯ %s...", description)
}

// StepCompleted implements publish.Reporter
func (r *LogProgressReporter) StepCompleted(stepIndex int) {
	r.splog.Info("  ✓ %s", r.describe(stepIndex))
}

// StepSkipped implements publish.Reporter
func (r *LogProgressReporter) StepSkipped(stepIndex int, reason string) {
	r.splog.Debug("  - %s (skipped: %s)", r.describe(stepIndex), reason)
}

// StepFailed implements publish.Reporter
func (r *LogProgressReporter) StepFailed(stepIndex int, err error) {
	r.splog.Info("  ✗ %s failed: %v", r.describe(stepIndex), err)
}
