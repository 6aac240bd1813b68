package publications

import (
	"encoding/json"
	"time"

	"github.com/gistit/gistit/internal/storage"
	"github.com/gistit/gistit/pkg/badgerfx"
)

const (
	prefix = "publication:"

	prefixByID   = prefix + "id:"
	prefixByGist = prefix + "gist:"
)

// publicationModel is the stored form of a publish attempt.
type publicationModel struct {
	storage.BaseEntity

	GistID  string `json:"gist_id"`
	HTMLURL string `json:"html_url"`

	Commit      string   `json:"commit"`
	Files       []string `json:"files"`
	Description string   `json:"description"`
	Public      bool     `json:"public"`

	Status Status `json:"status"`
	Error  string `json:"error"`
}

func newPublicationModel(draft *PublicationDraft, now time.Time) *publicationModel {
	if draft == nil {
		return nil
	}

	return &publicationModel{
		BaseEntity:  storage.NewBaseEntity(now),
		GistID:      draft.GistID,
		HTMLURL:     draft.HTMLURL,
		Commit:      draft.Commit,
		Files:       draft.Files,
		Description: draft.Description,
		Public:      draft.Public,
		Status:      draft.Status,
		Error:       draft.Error,
	}
}

func newPublication(model *publicationModel) *Publication {
	if model == nil {
		return nil
	}

	return &Publication{
		PublicationDraft: PublicationDraft{
			GistID:      model.GistID,
			HTMLURL:     model.HTMLURL,
			Commit:      model.Commit,
			Files:       model.Files,
			Description: model.Description,
			Public:      model.Public,
			Status:      model.Status,
			Error:       model.Error,
		},
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
	}
}

// StorageKey implements badgerfx.Entity.
func (m *publicationModel) StorageKey() string {
	return prefixByID + m.ID.String()
}

// StorageIndexes implements badgerfx.Entity.
func (m *publicationModel) StorageIndexes() []string {
	if m.GistID == "" {
		return nil
	}

	return []string{prefixByGist + m.GistID}
}

// MarshalStorage implements badgerfx.Entity.
func (m *publicationModel) MarshalStorage() ([]byte, error) {
	return json.Marshal(m) //nolint:wrapcheck //wrapped by repository
}

// UnmarshalStorage implements badgerfx.Entity.
func (m *publicationModel) UnmarshalStorage(data []byte) error {
	return json.Unmarshal(data, m) //nolint:wrapcheck //wrapped by repository
}

var _ badgerfx.Entity = (*publicationModel)(nil)
