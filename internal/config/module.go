package config

import (
	"github.com/gistit/gistit/internal/gist"
	"github.com/gistit/gistit/internal/git"
	"github.com/gistit/gistit/internal/workspace"
	"github.com/gistit/gistit/pkg/badgerfx"
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir: cfg.Storage.DataDir,
			}
		}),
		fx.Provide(func(cfg Config) gist.Config {
			return gist.Config{
				Host:     cfg.Gist.Host,
				Username: cfg.Gist.Username,
				Token:    cfg.Gist.Token,
			}
		}),
		fx.Provide(func(cfg Config) git.Config {
			return git.Config{
				SSHUser:          cfg.Git.SSHUser,
				SSHHost:          cfg.Git.SSHHost,
				CommitMessage:    cfg.Git.CommitMessage,
				AllowEmptyCommit: cfg.Git.AllowEmptyCommit,
				Author: git.Identity{
					Name:  cfg.Git.AuthorName,
					Email: cfg.Git.AuthorEmail,
				},
				KeyFingerprint: cfg.Git.SSHKeyFingerprint,
			}
		}),
		fx.Provide(func(cfg Config) workspace.Config {
			return workspace.Config{
				BaseDir:   cfg.Workspace.BaseDir,
				KeepClone: cfg.Workspace.KeepClone,
				Username:  cfg.Gist.Username,
				Token:     cfg.Gist.Token,
			}
		}),
	)
}
