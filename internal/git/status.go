package git

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DefaultStagePolicy stages paths that were modified, added or deleted in the
// working tree. Unchanged paths are never re-staged.
func DefaultStagePolicy(_ string, status Status) bool {
	return status.Has(StatusWorktreeModified | StatusWorktreeNew | StatusWorktreeDeleted)
}

// Stager applies a StagePolicy to the paths of a working tree.
type Stager struct {
	policy StagePolicy
	logger *zap.Logger
}

func NewStager(policy StagePolicy, logger *zap.Logger) *Stager {
	if policy == nil {
		policy = DefaultStagePolicy
	}

	return &Stager{
		policy: policy,
		logger: logger,
	}
}

// Stage runs the policy over paths, or over every known path when none are
// given, and updates idx for the accepted ones. It returns the staged paths.
func (s *Stager) Stage(src StatusSource, idx Index, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = src.Paths()
	}

	staged := make([]string, 0, len(paths))
	for _, p := range paths {
		name, err := normalizePath(p)
		if err != nil {
			s.logger.Error("failed to resolve path", zap.String("path", p), zap.Error(err))
			return nil, err
		}

		status, err := src.Status(name)
		if err != nil {
			s.logger.Error("failed to get path status", zap.String("path", name), zap.Error(err))
			return nil, fmt.Errorf("%w: %s: %w", ErrStatusUnresolved, name, err)
		}

		if !s.policy(name, status) {
			continue
		}

		if status.Has(StatusWorktreeDeleted) {
			err = idx.Remove(name)
		} else {
			err = idx.Add(name)
		}
		if err != nil {
			s.logger.Error("failed to update index", zap.String("path", name), zap.Error(err))
			return nil, fmt.Errorf("%w: staging %s: %w", ErrCommitFailed, name, err)
		}

		s.logger.Debug("path staged", zap.String("path", name), zap.Uint16("status", uint16(status)))
		staged = append(staged, name)
	}

	return staged, nil
}

// normalizePath converts p into a slash separated path relative to the
// working tree root.
func normalizePath(p string) (string, error) {
	if p == "" || filepath.IsAbs(p) || path.IsAbs(p) {
		return "", fmt.Errorf("%w: %q is outside the working tree", ErrStatusUnresolved, p)
	}

	name := path.Clean(filepath.ToSlash(p))
	if name == "." || name == ".." || strings.HasPrefix(name, "../") || name == ".git" || strings.HasPrefix(name, ".git/") {
		return "", fmt.Errorf("%w: %q is outside the working tree", ErrStatusUnresolved, p)
	}

	return name, nil
}

// worktreeStatus is a StatusSource snapshot taken from a go-git worktree.
type worktreeStatus struct {
	status  git.Status
	indexed []string
}

func newWorktreeStatus(repo *git.Repository, wt *git.Worktree) (*worktreeStatus, error) {
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatusUnresolved, err)
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("%w: reading index: %w", ErrStatusUnresolved, err)
	}

	indexed := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		indexed = append(indexed, e.Name)
	}

	return &worktreeStatus{
		status:  status,
		indexed: indexed,
	}, nil
}

// Paths implements StatusSource.
func (w *worktreeStatus) Paths() []string {
	paths := lo.Uniq(append(slices.Clone(w.indexed), lo.Keys(w.status)...))
	slices.Sort(paths)
	return paths
}

// Status implements StatusSource.
func (w *worktreeStatus) Status(name string) (Status, error) {
	fs, ok := w.status[name]
	if !ok {
		return StatusCurrent, nil
	}

	return statusFromFileStatus(fs), nil
}

func statusFromFileStatus(fs *git.FileStatus) Status {
	var s Status

	switch fs.Staging {
	case git.Added, git.Copied:
		s |= StatusIndexNew
	case git.Modified:
		s |= StatusIndexModified
	case git.Deleted:
		s |= StatusIndexDeleted
	case git.Renamed:
		s |= StatusIndexRenamed
	case git.UpdatedButUnmerged:
		s |= StatusConflicted
	case git.Unmodified, git.Untracked:
	}

	switch fs.Worktree {
	case git.Untracked:
		s |= StatusWorktreeNew
	case git.Modified:
		s |= StatusWorktreeModified
	case git.Deleted:
		s |= StatusWorktreeDeleted
	case git.Renamed:
		s |= StatusWorktreeRenamed
	case git.UpdatedButUnmerged:
		s |= StatusConflicted
	case git.Unmodified, git.Added, git.Copied:
	}

	return s
}

// worktreeIndex stages paths through a go-git worktree, which writes the
// index to disk after every change.
type worktreeIndex struct {
	wt *git.Worktree
}

// Add implements Index.
func (i worktreeIndex) Add(name string) error {
	_, err := i.wt.Add(name)
	return err //nolint:wrapcheck //wrapped by the stager
}

// Remove implements Index.
func (i worktreeIndex) Remove(name string) error {
	_, err := i.wt.Remove(name)
	return err //nolint:wrapcheck //wrapped by the stager
}
