package publisher

import (
	"context"

	"github.com/gistit/gistit/internal/gist"
	"github.com/gistit/gistit/internal/git"
	"github.com/gistit/gistit/internal/publications"
	"github.com/gistit/gistit/internal/workspace"
	gogit "github.com/go-git/go-git/v6"
)

// Request describes files to publish as a new gist.
type Request struct {
	// Directory relative file paths are resolved against
	BaseDir     string   `validate:"required"`
	Files       []string `validate:"required,min=1,dive,required"`
	Description string   `validate:"max=1024"`
	Public      bool
}

type GistService interface {
	Create(ctx context.Context, draft gist.Draft) (*gist.Descriptor, error)
}

type WorkspaceService interface {
	Prepare(ctx context.Context, gistID, pullURL string) (*workspace.Workspace, error)
	Cleanup(ws *workspace.Workspace) error
}

type GitService interface {
	CommitAndPush(ctx context.Context, repo *gogit.Repository, id string) (*git.Result, error)
}

type PublicationsService interface {
	Record(ctx context.Context, draft publications.PublicationDraft) (*publications.Publication, error)
}
