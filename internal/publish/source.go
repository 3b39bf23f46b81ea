package publish

import (
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	ghperrors "ghpages.dev/ghpages/internal/errors"
)

// FilesFromDir reads every file below root into File records with paths
// relative to root. .git directories are skipped.
func FilesFromDir(root string) ([]*File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, ghperrors.NewFilesystemError("read", root, err)
	}
	if !info.IsDir() {
		return nil, ghperrors.NewFilesystemError("read", root, &os.PathError{Op: "read", Path: root, Err: syscall.ENOTDIR})
	}

	fs := osfs.New(root)
	var files []*File
	err = util.Walk(fs, ".", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := fs.Stat(p)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !info.Mode().IsRegular() {
			return nil
		}

		contents, err := util.ReadFile(fs, p)
		if err != nil {
			return err
		}
		files = append(files, NewFile(filepath.ToSlash(p), contents))
		return nil
	})
	if err != nil {
		return nil, ghperrors.NewFilesystemError("read", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
