package github

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// ErrNoToken is returned when no GitHub credentials are available
var ErrNoToken = errors.New("no GitHub token found")

// Token gets a GitHub token from the environment or the gh CLI
func Token(ctx context.Context) (string, error) {
	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(name); token != "" {
			return token, nil
		}
	}

	if _, err := exec.LookPath("gh"); err != nil {
		return "", ErrNoToken
	}
	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
