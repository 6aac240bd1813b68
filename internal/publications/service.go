package publications

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	publications *Repository

	logger *zap.Logger
}

func NewService(publications *Repository, logger *zap.Logger) *Service {
	return &Service{
		publications: publications,

		logger: logger,
	}
}

// Record stores the outcome of a publish attempt.
func (s *Service) Record(ctx context.Context, draft PublicationDraft) (*Publication, error) {
	logger := s.logger.With(zap.String("gist_id", draft.GistID), zap.String("status", string(draft.Status)))

	publication, err := s.publications.Create(ctx, &draft)
	if err != nil {
		logger.Error("failed to record publication", zap.Error(err))
		return nil, err
	}

	logger.Info("publication recorded", zap.String("id", publication.ID.String()))
	return publication, nil
}

// Get retrieves a publication by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Publication, error) {
	s.logger.Debug("getting publication", zap.String("id", id.String()))

	publication, err := s.publications.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get publication", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	return publication, nil
}

// GetByGist retrieves the publication of a gist.
func (s *Service) GetByGist(ctx context.Context, gistID string) (*Publication, error) {
	publication, err := s.publications.GetByGist(ctx, gistID)
	if err != nil {
		s.logger.Error("failed to get publication", zap.String("gist_id", gistID), zap.Error(err))
		return nil, err
	}

	return publication, nil
}

// List retrieves publications, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Publication, error) {
	s.logger.Debug("listing publications", zap.Int("limit", limit))

	publications, err := s.publications.List(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list publications", zap.Error(err))
		return nil, err
	}

	return publications, nil
}
