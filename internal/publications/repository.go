package publications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gistit/gistit/pkg/badgerfx"
	"github.com/google/uuid"
)

type Repository struct {
	db       *badger.DB
	entities *badgerfx.Repository[*publicationModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db:       db,
		entities: badgerfx.NewRepository(func() *publicationModel { return new(publicationModel) }),
	}
}

// Create stores a publish attempt.
func (r *Repository) Create(_ context.Context, draft *PublicationDraft) (*Publication, error) {
	model := newPublicationModel(draft, time.Now())

	err := r.db.Update(func(txn *badger.Txn) error {
		return r.entities.Write(txn, model)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create publication: %w", err)
	}

	return newPublication(model), nil
}

// GetByID retrieves a publication by its ID.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*Publication, error) {
	var model *publicationModel

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		model, err = r.entities.Read(txn, prefixByID+id.String())
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}

	return newPublication(model), nil
}

// GetByGist retrieves the publication of a gist.
func (r *Repository) GetByGist(_ context.Context, gistID string) (*Publication, error) {
	var model *publicationModel

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		model, err = r.entities.ReadByIndex(txn, prefixByGist+gistID)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w for gist: %s", ErrNotFound, gistID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}

	return newPublication(model), nil
}

// List returns publications newest first. A positive limit caps the result.
func (r *Repository) List(_ context.Context, limit int) ([]Publication, error) {
	var models []*publicationModel

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchSize = 10

		var err error
		models, err = r.entities.List(txn, prefixByID, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}

	if limit > 0 && len(models) > limit {
		models = models[:limit]
	}

	publications := make([]Publication, 0, len(models))
	for _, m := range models {
		publications = append(publications, *newPublication(m))
	}

	return publications, nil
}
