package config

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// CacheRoot is the directory holding every cached working copy
func CacheRoot() string {
	return filepath.Join(xdg.CacheHome, "ghpages", "repos")
}

// DefaultCacheDir returns the working copy directory for remoteURL.
// The same URL always maps to the same directory, so repeated publishes
// reuse the clone.
func DefaultCacheDir(remoteURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(remoteURL)))
	return filepath.Join(CacheRoot(), hex.EncodeToString(sum[:])[:16])
}
