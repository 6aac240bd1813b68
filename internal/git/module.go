package git

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"git",
		logger.WithNamedLogger("git"),
		fx.Provide(func() AgentDialer { return DialSSHAgent }, fx.Private),
		fx.Provide(
			fx.Annotate(NewAgentCredentials, fx.As(new(CredentialProvider))),
			fx.Private,
		),
		fx.Provide(NewService),
	)
}
