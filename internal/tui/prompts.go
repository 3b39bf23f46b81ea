package tui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// ConfirmPush asks whether to push branch to remote. Returns false when the
// prompt is interrupted.
func ConfirmPush(branch, remote string) (bool, error) {
	confirm := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Push %s to %s?", branch, remote),
		Default: true,
	}
	if err := survey.AskOne(prompt, &confirm); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirm, nil
}
