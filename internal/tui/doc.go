// Package tui provides the terminal user interface for ghpages.
//
// It handles:
//   - Structured logging and status reporting (Splog)
//   - Publish progress, either as a bubbletea view or as plain log lines
//   - Confirmation prompts (using survey)
package tui
