package publications

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSuccess Status = "success" // Files are on the gist
	StatusFailed  Status = "failed"  // Publishing stopped with an error
)

type PublicationDraft struct {
	// Gist
	GistID  string // Empty when the gist could not be created
	HTMLURL string

	// Content
	Commit      string // Commit pushed to the gist
	Files       []string
	Description string
	Public      bool

	// Outcome
	Status Status
	Error  string
}

type Publication struct {
	PublicationDraft

	ID        uuid.UUID
	CreatedAt time.Time
}
