package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressStep is one line of the publish progress view
type ProgressStep struct {
	Description string
	Status      string
	Reason      string
	Error       error
}

const (
	statusPending = "pending"
	statusRunning = "running"
	statusDone    = "done"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// StepUpdateMsg is sent when a step status changes
type StepUpdateMsg struct {
	StepIndex   int
	Status      string
	Description string
	Reason      string
	Error       error
}

// ProgressModel is the bubbletea model for publish progress
type ProgressModel struct {
	title    string
	steps    []ProgressStep
	spinner  spinner.Model
	done     bool
	quitting bool
	updates  <-chan ProgressUpdate
}

// NewProgressModel creates a progress model with every step pending
func NewProgressModel(title string, stepDescriptions []string) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	steps := make([]ProgressStep, len(stepDescriptions))
	for i, desc := range stepDescriptions {
		steps[i] = ProgressStep{Description: desc, Status: statusPending}
	}

	return ProgressModel{title: title, steps: steps, spinner: s}
}

// Steps returns a copy of the current step states
func (m ProgressModel) Steps() []ProgressStep {
	return append([]ProgressStep(nil), m.steps...)
}

// Done reports whether every step has finished or one has failed
func (m ProgressModel) Done() bool {
	return m.done
}

// Init initializes the bubbletea model
func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkForUpdates())
}

func updateMsg(update ProgressUpdate) tea.Msg {
	msg := StepUpdateMsg{StepIndex: update.StepIndex, Description: update.Description}
	switch update.Type {
	case updateStarted:
		msg.Status = statusRunning
	case updateCompleted:
		msg.Status = statusDone
	case updateSkipped:
		msg.Status = statusSkipped
		msg.Reason = update.Reason
	case updateFailed:
		msg.Status = statusFailed
		msg.Error = update.Error
	default:
		return nil
	}
	return msg
}

// checkForUpdates polls the update channel
func (m ProgressModel) checkForUpdates() tea.Cmd {
	if m.updates == nil {
		return nil
	}

	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		select {
		case update, ok := <-m.updates:
			if !ok {
				return tea.Quit()
			}
			return updateMsg(update)
		default:
			return nil
		}
	})
}

// Update handles message updates for the bubbletea model
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == keyCtrlC || msg.String() == keyQuit {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, tea.Batch(cmd, m.checkForUpdates())

	case StepUpdateMsg:
		if msg.StepIndex >= 0 && msg.StepIndex < len(m.steps) {
			step := &m.steps[msg.StepIndex]
			step.Status = msg.Status
			if msg.Description != "" {
				step.Description = msg.Description
			}
			step.Reason = msg.Reason
			step.Error = msg.Error
		}
		m.done = m.finished()
		return m, m.checkForUpdates()
	}

	return m, nil
}

func (m ProgressModel) finished() bool {
	for _, step := range m.steps {
		switch step.Status {
		case statusFailed:
			return true
		case statusPending, statusRunning:
			return false
		}
	}
	return true
}

// View renders the TUI
func (m ProgressModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.title + ":\n\n")

	for i, step := range m.steps {
		var icon, status string
		switch step.Status {
		case statusPending:
			icon = dimStyle.Render("○")
			status = dimStyle.Render("pending")
		case statusRunning:
			icon = m.spinner.View()
			status = spinnerStyle.Render("running...")
		case statusDone:
			icon = doneStyle.Render("✓")
			status = doneStyle.Render("done")
		case statusSkipped:
			icon = skipStyle.Render("-")
			status = skipStyle.Render("skipped")
			if step.Reason != "" {
				status += dimStyle.Render(" (" + step.Reason + ")")
			}
		case statusFailed:
			icon = errorStyle.Render("✗")
			status = errorStyle.Render("failed")
			if step.Error != nil {
				status += " " + errorStyle.Render("→ "+step.Error.Error())
			}
		}
		fmt.Fprintf(&b, "  %s %d. %s %s\n", icon, i+1, step.Description, status)
	}

	if m.done {
		completed, skipped, failed := 0, 0, 0
		for _, step := range m.steps {
			switch step.Status {
			case statusDone:
				completed++
			case statusSkipped:
				skipped++
			case statusFailed:
				failed++
			}
		}
		b.WriteString("\n")
		if failed > 0 {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Completed: %d, Failed: %d", completed, failed)))
		} else {
			b.WriteString(doneStyle.Render(fmt.Sprintf("✓ %d steps completed, %d skipped", completed, skipped)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RunProgressTUI renders progress from updates until the channel is closed
func RunProgressTUI(title string, stepDescriptions []string, updates <-chan ProgressUpdate, done chan<- bool) error {
	m := NewProgressModel(title, stepDescriptions)
	m.updates = updates

	program := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	_, err := program.Run()

	// Signal completion after the program has restored the terminal
	if done != nil {
		select {
		case done <- true:
		default:
		}
	}

	return err
}
