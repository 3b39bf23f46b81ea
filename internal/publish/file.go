// Package publish writes batches of files to a branch of a git repository
// and optionally pushes the result.
package publish

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	ghperrors "ghpages.dev/ghpages/internal/errors"
)

// File is one record of a publish batch.
//
// A File with neither Contents nor Stream is a null record: it is passed
// downstream untouched and never written. A File with a Stream cannot be
// published.
type File struct {
	// Path is relative to the root of the published branch, using "/"
	Path     string
	Contents []byte
	Stream   io.Reader
}

// NewFile returns a File holding contents at path
func NewFile(path string, contents []byte) *File {
	if contents == nil {
		contents = []byte{}
	}
	return &File{Path: path, Contents: contents}
}

// IsNull reports whether f carries no content
func (f *File) IsNull() bool {
	return f.Contents == nil && f.Stream == nil
}

// IsStream reports whether f carries streamed content
func (f *File) IsStream() bool {
	return f.Stream != nil
}

// cleanPath normalizes p to a slash separated path inside the working tree.
// Absolute paths, paths leaving the tree and paths into .git are rejected.
func cleanPath(p string) (string, error) {
	slashed := filepath.ToSlash(p)
	if slashed == "" || path.IsAbs(slashed) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", ghperrors.NewFilesystemError("write", p, fmt.Errorf("path must be relative to the branch root"))
	}

	cleaned := path.Clean(slashed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ghperrors.NewFilesystemError("write", p, fmt.Errorf("path escapes the working tree"))
	}
	if cleaned == ".git" || strings.HasPrefix(cleaned, ".git/") {
		return "", ghperrors.NewFilesystemError("write", p, fmt.Errorf("path is inside the .git directory"))
	}
	return cleaned, nil
}
