package tui

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	keyCtrlC = "ctrl+c"
	keyQuit  = "q"
)

// IsTTY returns true if we can use a TTY for interactive TUI
func IsTTY() bool {
	if !((isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))) {
		return false
	}
	// stdin and stdout may be terminals without a controlling tty (e.g. some CI runners)
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// IsInteractive reports whether prompts and the progress view may be used.
// GHPAGES_NON_INTERACTIVE forces plain output.
func IsInteractive() bool {
	if os.Getenv("GHPAGES_NON_INTERACTIVE") != "" {
		return false
	}
	return IsTTY()
}
