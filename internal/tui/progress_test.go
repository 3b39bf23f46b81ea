package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, updates <-chan ProgressUpdate) []ProgressUpdate {
	t.Helper()
	var got []ProgressUpdate
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return got
			}
			got = append(got, u)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for channel to be drained")
		}
	}
}

func TestChannelProgressReporter(t *testing.T) {
	t.Run("forwards every event in order", func(t *testing.T) {
		reporter := NewChannelProgressReporter()
		boom := errors.New("boom")

		reporter.StepStarted(0, "Prepare working copy")
		reporter.StepCompleted(0)
		reporter.StepSkipped(2, "new branch")
		reporter.StepFailed(3, boom)
		reporter.Close()

		got := drain(t, reporter.Updates())
		require.Equal(t, []ProgressUpdate{
			{Type: updateStarted, StepIndex: 0, Description: "Prepare working copy"},
			{Type: updateCompleted, StepIndex: 0},
			{Type: updateSkipped, StepIndex: 2, Reason: "new branch"},
			{Type: updateFailed, StepIndex: 3, Error: boom},
		}, got)
	})

	t.Run("close can be called multiple times", func(t *testing.T) {
		reporter := NewChannelProgressReporter()
		require.NotPanics(t, func() {
			reporter.Close()
			reporter.Close()
		})
		require.Empty(t, drain(t, reporter.Updates()))
	})
}

func TestLogProgressReporter(t *testing.T) {
	var out bytes.Buffer
	splog, err := NewSplogWithOptions(SplogOptions{Writer: &out})
	require.NoError(t, err)

	reporter := NewLogProgressReporter(splog, []string{"Prepare working copy", "Check out gh-pages", "Pull gh-pages from origin"})
	reporter.StepStarted(0, "Prepare working copy")
	reporter.StepCompleted(0)
	reporter.StepSkipped(2, "new branch")
	reporter.StepFailed(1, errors.New("no such branch"))

	require.Equal(t, "  ✓ Prepare working copy\n  ✗ Check out gh-pages failed: no such branch\n", out.String())
}

func TestProgressModel(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	apply := func(m ProgressModel, updates ...ProgressUpdate) ProgressModel {
		for _, u := range updates {
			next, _ := m.Update(updateMsg(u))
			m = next.(ProgressModel)
		}
		return m
	}

	descriptions := []string{"Prepare working copy", "Check out gh-pages", "Pull gh-pages from origin"}

	t.Run("successful run", func(t *testing.T) {
		m := NewProgressModel("Publishing", descriptions)
		require.False(t, m.Done())
		require.Contains(t, m.View(), "1. Prepare working copy pending")

		m = apply(m,
			ProgressUpdate{Type: updateStarted, StepIndex: 0, Description: "Prepare working copy"},
			ProgressUpdate{Type: updateCompleted, StepIndex: 0},
			ProgressUpdate{Type: updateStarted, StepIndex: 1, Description: "Check out gh-pages"},
		)
		require.False(t, m.Done())
		require.Equal(t, statusRunning, m.Steps()[1].Status)

		m = apply(m,
			ProgressUpdate{Type: updateCompleted, StepIndex: 1},
			ProgressUpdate{Type: updateSkipped, StepIndex: 2, Reason: "new branch"},
		)
		require.True(t, m.Done())

		view := m.View()
		require.Contains(t, view, "Publishing:")
		require.Contains(t, view, "✓ 1. Prepare working copy done")
		require.Contains(t, view, "3. Pull gh-pages from origin skipped (new branch)")
		require.Contains(t, view, "✓ 2 steps completed, 1 skipped")
	})

	t.Run("failure ends the run", func(t *testing.T) {
		m := NewProgressModel("Publishing", descriptions)
		m = apply(m,
			ProgressUpdate{Type: updateStarted, StepIndex: 0},
			ProgressUpdate{Type: updateFailed, StepIndex: 0, Error: errors.New("clone failed")},
		)
		require.True(t, m.Done())
		view := m.View()
		require.Contains(t, view, "✗ 1. Prepare working copy failed → clone failed")
		require.Contains(t, view, "Completed: 0, Failed: 1")
	})

	t.Run("out of range updates are ignored", func(t *testing.T) {
		m := apply(NewProgressModel("Publishing", descriptions), ProgressUpdate{Type: updateCompleted, StepIndex: 9})
		require.False(t, m.Done())
		require.Nil(t, updateMsg(ProgressUpdate{Type: "waiting"}))
	})
}
