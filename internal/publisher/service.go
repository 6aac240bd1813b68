package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gistit/gistit/internal/gist"
	"github.com/gistit/gistit/internal/publications"
	"github.com/gistit/gistit/internal/workspace"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Service creates a gist, fills its clone with the requested files and pushes
// them. Every attempt is recorded, failed ones included.
type Service struct {
	gists        GistService
	workspaces   WorkspaceService
	git          GitService
	publications PublicationsService

	metrics   *Metrics
	validator *validator.Validate
	logger    *zap.Logger
}

func NewService(
	gists GistService,
	workspaces WorkspaceService,
	git GitService,
	publications PublicationsService,
	metrics *Metrics,
	validator *validator.Validate,
	logger *zap.Logger,
) *Service {
	return &Service{
		gists:        gists,
		workspaces:   workspaces,
		git:          git,
		publications: publications,

		metrics:   metrics,
		validator: validator,
		logger:    logger,
	}
}

func (s *Service) Publish(ctx context.Context, req Request) (*publications.Publication, error) {
	if err := s.validate(req); err != nil {
		s.logger.Error("invalid publish request", zap.Error(err))
		return nil, err
	}

	started := time.Now()
	draft := publications.PublicationDraft{
		Description: req.Description,
		Public:      req.Public,
		Status:      publications.StatusSuccess,
	}

	err := s.publish(ctx, req, &draft)
	if err != nil {
		draft.Status = publications.StatusFailed
		draft.Error = err.Error()
	}

	s.metrics.observe(string(draft.Status), len(draft.Files), started)

	publication, recErr := s.publications.Record(ctx, draft)
	if err != nil {
		if recErr != nil {
			s.logger.Warn("failed to record failed publication", zap.Error(recErr))
		}
		return nil, err
	}
	if recErr != nil {
		return nil, fmt.Errorf("gist %s published, but not recorded: %w", draft.HTMLURL, recErr)
	}

	return publication, nil
}

func (s *Service) publish(ctx context.Context, req Request, draft *publications.PublicationDraft) error {
	descriptor, err := s.gists.Create(ctx, gist.Draft{
		Description: req.Description,
		Public:      req.Public,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	draft.GistID = descriptor.ID
	draft.HTMLURL = descriptor.HTMLURL

	logger := s.logger.With(zap.String("gist_id", descriptor.ID))

	ws, err := s.workspaces.Prepare(ctx, descriptor.ID, descriptor.PullURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	defer func() {
		if cleanErr := s.workspaces.Cleanup(ws); cleanErr != nil {
			logger.Warn("failed to clean up workspace", zap.Error(cleanErr))
		}
	}()

	names, err := ws.CopyFiles(req.BaseDir, req.Files)
	if err != nil {
		logger.Error("failed to copy files", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	if rmErr := ws.RemovePlaceholder(); rmErr != nil {
		logger.Error("failed to remove placeholder", zap.Error(rmErr))
		return fmt.Errorf("%w: %w", ErrPublishFailed, rmErr)
	}

	result, err := s.git.CommitAndPush(ctx, ws.Repository(), descriptor.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	draft.Files = names
	draft.Commit = result.Commit.String()

	logger.Info("files published",
		zap.Strings("files", names),
		zap.String("html_url", descriptor.HTMLURL),
	)

	return nil
}

// validate checks the request shape and that every file exists before a gist
// is created for it.
func (s *Service) validate(req Request) error {
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if dupes := lo.FindDuplicatesBy(req.Files, filepath.Base); len(dupes) > 0 {
		return fmt.Errorf("%w: %w: %s", ErrInvalidRequest, workspace.ErrDuplicateFile, filepath.Base(dupes[0]))
	}

	var errs []error
	for _, file := range req.Files {
		if name := filepath.Base(file); workspace.IsReservedName(name) {
			errs = append(errs, fmt.Errorf("%s: reserved name", name))
			continue
		}

		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(req.BaseDir, path)
		}

		info, err := os.Stat(path)
		switch {
		case err != nil:
			errs = append(errs, err)
		case info.IsDir():
			errs = append(errs, fmt.Errorf("%s is a directory", file))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(errs...))
	}

	return nil
}
