package workspace

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/transport"
	githttp "github.com/go-git/go-git/v6/plumbing/transport/http"
	"go.uber.org/zap"
)

type Service struct {
	paths  *pathBuilder
	config Config

	logger *zap.Logger
}

func NewService(config Config, logger *zap.Logger) *Service {
	return &Service{
		paths:  newPathBuilder(config.BaseDir),
		config: config,

		logger: logger,
	}
}

// Prepare clones the gist into its own directory under the base directory.
func (s *Service) Prepare(ctx context.Context, gistID, pullURL string) (*Workspace, error) {
	dir, err := s.paths.BuildPath(gistID)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("gist_id", gistID), zap.String("directory", dir))

	if _, statErr := os.Stat(dir); statErr == nil {
		logger.Error("workspace directory already exists")
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, dir)
	}

	logger.Info("cloning gist", zap.String("url", pullURL))

	repo, err := git.PlainCloneContext(ctx, dir, &git.CloneOptions{
		URL:  pullURL,
		Auth: s.auth(pullURL),
	})
	if err != nil {
		logger.Error("failed to clone gist", zap.Error(err))
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %w", ErrCloneFailed, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		logger.Error("failed to get worktree", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCloneFailed, err)
	}

	logger.Info("gist cloned")

	return &Workspace{
		GistID: gistID,
		Dir:    dir,
		repo:   repo,
		fs:     wt.Filesystem,
	}, nil
}

// Cleanup removes the clone unless the configuration keeps it.
func (s *Service) Cleanup(ws *Workspace) error {
	if ws == nil {
		return nil
	}

	if s.config.KeepClone {
		s.logger.Info("keeping workspace", zap.String("directory", ws.Dir))
		return nil
	}

	if err := os.RemoveAll(ws.Dir); err != nil {
		s.logger.Error("failed to remove workspace", zap.String("directory", ws.Dir), zap.Error(err))
		return fmt.Errorf("failed to remove workspace: %w", err)
	}

	s.logger.Debug("workspace removed", zap.String("directory", ws.Dir))

	return nil
}

func (s *Service) auth(pullURL string) transport.AuthMethod {
	if s.config.Token == "" || !strings.HasPrefix(pullURL, "https://") {
		return nil
	}

	return &githttp.BasicAuth{
		Username: s.config.Username,
		Password: s.config.Token,
	}
}
