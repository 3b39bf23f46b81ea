// Package git provides low-level Git operations for publishing.
//
// It wraps git command execution behind the Adapter interface:
//   - Repository access (clone, remote URL lookup)
//   - Branch management (list, create, checkout)
//   - Index operations (add, remove, staged status)
//   - Commits and raw passthrough commands (pull, push)
//
// This package should be the only place where direct git commands are executed.
package git
