package publications

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"publications",
		logger.WithNamedLogger("publications"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewService),
	)
}
