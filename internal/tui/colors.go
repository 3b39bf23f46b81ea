package tui

import "github.com/charmbracelet/lipgloss"

var (
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	branchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Underline(true)
)

// ColorBranch highlights a branch name
func ColorBranch(name string) string {
	return branchStyle.Render(name)
}

// ColorURL highlights a URL
func ColorURL(url string) string {
	return urlStyle.Render(url)
}

// ColorDim renders secondary text
func ColorDim(text string) string {
	return dimStyle.Render(text)
}
