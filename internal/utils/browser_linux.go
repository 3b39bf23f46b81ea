//go:build linux

package utils

import (
	"context"
	"os/exec"
)

// OpenBrowser opens a URL in the default browser without waiting for it to exit
func OpenBrowser(ctx context.Context, url string) error {
	return exec.CommandContext(ctx, "xdg-open", url).Start()
}
