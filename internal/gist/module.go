package gist

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"gist",
		logger.WithNamedLogger("gist"),
		fx.Provide(NewClient),
	)
}
