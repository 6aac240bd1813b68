package publications

import (
	"time"

	"github.com/google/uuid"
)

// POSTRequest represents the request payload for publishing files.
type POSTRequest struct {
	BaseDir     string   `json:"base_dir"    validate:"required"`
	Files       []string `json:"files"       validate:"required,min=1,dive,required"`
	Description string   `json:"description" validate:"max=1024"`
	Public      bool     `json:"public"`
}

// PublicationResponse represents a recorded publish attempt.
type PublicationResponse struct {
	ID          uuid.UUID `json:"id"`
	GistID      string    `json:"gist_id,omitempty"`
	HTMLURL     string    `json:"html_url,omitempty"`
	Commit      string    `json:"commit,omitempty"`
	Files       []string  `json:"files"`
	Description string    `json:"description"`
	Public      bool      `json:"public"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
