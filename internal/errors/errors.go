// Package errors provides sentinel errors and custom error types for ghpages.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Sentinel errors for the publish error taxonomy
var (
	// ErrRepositoryNotFound indicates a directory that was expected to hold a git repository does not
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrNetworkOrAuth indicates clone, pull or push failed talking to the remote
	ErrNetworkOrAuth = errors.New("remote operation failed")

	// ErrInvalidBranch indicates a checkout of a branch that exists neither locally nor remotely
	ErrInvalidBranch = errors.New("invalid branch")

	// ErrUnsupportedContent indicates an incoming file carries stream content
	ErrUnsupportedContent = errors.New("stream content is not supported")

	// ErrFilesystem indicates a working tree or cache directory write failed
	ErrFilesystem = errors.New("filesystem error")
)

// RepositoryNotFoundError is returned when Path does not contain a git repository
type RepositoryNotFoundError struct {
	Path string
	Err  error
}

func (e *RepositoryNotFoundError) Error() string {
	msg := fmt.Sprintf("failed to find git repository in %s", e.Path)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrRepositoryNotFound
func (e *RepositoryNotFoundError) Is(target error) bool {
	return target == ErrRepositoryNotFound
}

func (e *RepositoryNotFoundError) Unwrap() error {
	return e.Err
}

// NewRepositoryNotFoundError creates a new RepositoryNotFoundError
func NewRepositoryNotFoundError(path string, err error) *RepositoryNotFoundError {
	return &RepositoryNotFoundError{Path: path, Err: err}
}

// NetworkOrAuthError wraps a failed clone, pull or push.
// The message of the underlying git error is kept verbatim so callers can
// match on substrings such as "Permission to" or "not found".
type NetworkOrAuthError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkOrAuthError) Error() string {
	target := e.URL
	if target == "" {
		target = "remote"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s failed", e.Op, target)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, target, e.Err)
}

// Is returns true if the target error is ErrNetworkOrAuth
func (e *NetworkOrAuthError) Is(target error) bool {
	return target == ErrNetworkOrAuth
}

func (e *NetworkOrAuthError) Unwrap() error {
	return e.Err
}

// NewNetworkOrAuthError creates a new NetworkOrAuthError
func NewNetworkOrAuthError(op, url string, err error) *NetworkOrAuthError {
	return &NetworkOrAuthError{Op: op, URL: url, Err: err}
}

// InvalidBranchError represents a checkout of a branch git does not know
type InvalidBranchError struct {
	BranchName string
	Err        error
}

func (e *InvalidBranchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid branch %s: %v", e.BranchName, e.Err)
	}
	return fmt.Sprintf("invalid branch %s", e.BranchName)
}

// Is returns true if the target error is ErrInvalidBranch
func (e *InvalidBranchError) Is(target error) bool {
	return target == ErrInvalidBranch
}

func (e *InvalidBranchError) Unwrap() error {
	return e.Err
}

// NewInvalidBranchError creates a new InvalidBranchError
func NewInvalidBranchError(branchName string, err error) *InvalidBranchError {
	return &InvalidBranchError{BranchName: branchName, Err: err}
}

// UnsupportedContentError is raised for incoming files with stream content
type UnsupportedContentError struct {
	Path string
}

func (e *UnsupportedContentError) Error() string {
	return ErrUnsupportedContent.Error()
}

// Is returns true if the target error is ErrUnsupportedContent
func (e *UnsupportedContentError) Is(target error) bool {
	return target == ErrUnsupportedContent
}

// NewUnsupportedContentError creates a new UnsupportedContentError
func NewUnsupportedContentError(path string) *UnsupportedContentError {
	return &UnsupportedContentError{Path: path}
}

// FilesystemError wraps a failed write under the working tree or cache directory
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	if code := e.Code(); code != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, code, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Is returns true if the target error is ErrFilesystem
func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Code returns the symbolic OS error code (ENOENT, ENOTDIR, EACCES, ...)
// of the underlying error, or "" when there is none.
func (e *FilesystemError) Code() string {
	var errno syscall.Errno
	if !errors.As(e.Err, &errno) {
		return ""
	}
	if name, ok := errnoNames[errno]; ok {
		return name
	}
	return fmt.Sprintf("ERRNO%d", int(errno))
}

var errnoNames = map[syscall.Errno]string{
	syscall.ENOENT:  "ENOENT",
	syscall.ENOTDIR: "ENOTDIR",
	syscall.EISDIR:  "EISDIR",
	syscall.EACCES:  "EACCES",
	syscall.EPERM:   "EPERM",
	syscall.EEXIST:  "EEXIST",
	syscall.EROFS:   "EROFS",
	syscall.ENOSPC:  "ENOSPC",
}

// NewFilesystemError creates a new FilesystemError
func NewFilesystemError(op, path string, err error) *FilesystemError {
	return &FilesystemError{Op: op, Path: path, Err: err}
}

// IsNotExist reports whether err is a missing-path error, wrapped or not
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
