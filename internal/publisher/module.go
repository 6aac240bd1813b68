package publisher

import (
	"github.com/gistit/gistit/internal/gist"
	"github.com/gistit/gistit/internal/git"
	"github.com/gistit/gistit/internal/publications"
	"github.com/gistit/gistit/internal/workspace"
	"github.com/go-core-fx/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"publisher",
		logger.WithNamedLogger("publisher"),
		fx.Provide(
			func() *Metrics { return NewMetrics(prometheus.DefaultRegisterer) },
			func(c *gist.Client) GistService { return c },
			func(s *workspace.Service) WorkspaceService { return s },
			func(s *git.Service) GitService { return s },
			func(s *publications.Service) PublicationsService { return s },
			fx.Private,
		),
		fx.Provide(NewService),
	)
}
