package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If GHPAGES_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.ghpages/logs/ghpages.log
func GetLogFilePath() string {
	if customPath := os.Getenv("GHPAGES_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "ghpages.log"
	}

	return filepath.Join(homeDir, ".ghpages", "logs", "ghpages.log")
}
