package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gistit/gistit/internal/gist"
	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-git/v6"
	"github.com/samber/lo"
)

// IsReservedName reports whether a file name collides with the clone itself.
func IsReservedName(name string) bool {
	return name == gist.PlaceholderFile || name == git.GitDirName
}

// Workspace is a local clone of a gist.
type Workspace struct {
	GistID string
	Dir    string

	repo *git.Repository
	fs   billy.Filesystem
}

// Repository returns the clone.
func (w *Workspace) Repository() *git.Repository {
	return w.repo
}

// CopyFiles copies files into the worktree root under their base names.
// Relative paths are resolved against baseDir. It returns the names written.
func (w *Workspace) CopyFiles(baseDir string, files []string) ([]string, error) {
	dupes := lo.FindDuplicatesBy(files, filepath.Base)
	if len(dupes) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateFile, filepath.Base(dupes[0]))
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		src := file
		if !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, src)
		}

		name := filepath.Base(src)
		if IsReservedName(name) {
			return nil, fmt.Errorf("%w: %s: reserved name", ErrCopyFailed, name)
		}

		if err := w.copyFile(src, name); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCopyFailed, file, err)
		}

		names = append(names, name)
	}

	return names, nil
}

func (w *Workspace) copyFile(src, name string) error {
	in, err := os.Open(src)
	if err != nil {
		return err //nolint:wrapcheck //wrapped by caller
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err //nolint:wrapcheck //wrapped by caller
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}

	out, err := w.fs.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err //nolint:wrapcheck //wrapped by caller
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err //nolint:wrapcheck //wrapped by caller
	}

	return out.Close() //nolint:wrapcheck //wrapped by caller
}

// RemovePlaceholder deletes the file the gist was created with.
func (w *Workspace) RemovePlaceholder() error {
	err := w.fs.Remove(gist.PlaceholderFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove placeholder: %w", err)
	}

	return nil
}
