package internal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/gistit/gistit/internal/config"
	"github.com/gistit/gistit/internal/gist"
	"github.com/gistit/gistit/internal/git"
	"github.com/gistit/gistit/internal/publications"
	"github.com/gistit/gistit/internal/publisher"
	"github.com/gistit/gistit/internal/server"
	"github.com/gistit/gistit/internal/workspace"
	"github.com/gistit/gistit/pkg/badgerfx"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	version = "0.1.0"

	startTimeout = 15 * time.Second
)

func Run() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type publishFlags struct {
	files       []string
	description string
	public      bool
	host        string
}

func newRootCmd() *cobra.Command {
	var flags publishFlags

	rootCmd := &cobra.Command{
		Use:           "gistit -f FILE [-f FILE...]",
		Short:         "Publish files as a GitHub gist",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, flags)
		},
	}

	rootCmd.Flags().StringArrayVarP(&flags.files, "file", "f", nil, "file to publish, repeatable")
	rootCmd.Flags().StringVarP(&flags.description, "description", "d", "", "gist description")
	rootCmd.Flags().BoolVarP(&flags.public, "public", "p", false, "create a public gist")
	rootCmd.Flags().StringVarP(&flags.host, "hostname", "n", "", "GitHub host, github.com by default")
	_ = rootCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(newHistoryCmd(), newServeCmd())

	return rootCmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded publications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var svc *publications.Service

			return runOnce(cmd.Context(), fx.Populate(&svc), func(ctx context.Context) error {
				items, err := svc.List(ctx, limit)
				if err != nil {
					return err //nolint:wrapcheck //logged by the service
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CREATED\tSTATUS\tGIST\tFILES")
				for _, p := range items {
					target := p.HTMLURL
					if p.Status == publications.StatusFailed {
						target = p.Error
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						p.CreatedAt.Local().Format(time.DateTime), p.Status, target, strings.Join(p.Files, ","),
					)
				}

				return w.Flush() //nolint:wrapcheck //terminal output
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of publications to show, 0 for all")

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the publications HTTP API",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fx.New(serveModules()).Run()
		},
	}
}

func serveModules() fx.Option {
	return fx.Options(
		coreModules(),
		healthfx.Module(),
		fiberfx.Module(),
		server.Module(),
		fx.Supply(healthfx.Version{Version: version, ReleaseID: 1}),
		lifecycleLogging(),
	)
}

func runPublish(cmd *cobra.Command, flags publishFlags) error {
	baseDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	var svc *publisher.Service

	options := []fx.Option{fx.Populate(&svc)}
	if flags.host != "" {
		options = append(options, fx.Decorate(withHost(flags.host)))
	}

	return runOnce(cmd.Context(), fx.Options(options...), func(ctx context.Context) error {
		publication, pubErr := svc.Publish(ctx, publisher.Request{
			BaseDir:     baseDir,
			Files:       flags.files,
			Description: flags.description,
			Public:      flags.public,
		})
		if pubErr != nil {
			return pubErr //nolint:wrapcheck //logged by the service
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Create Gist. Open URL %s\n", publication.HTMLURL)
		return nil
	})
}

// withHost points the gist api and the ssh remote at another GitHub host.
func withHost(host string) func(config.Config) config.Config {
	return func(cfg config.Config) config.Config {
		if cfg.Git.SSHHost == "gist."+cfg.Gist.Host {
			cfg.Git.SSHHost = "gist." + host
		}
		cfg.Gist.Host = host

		return cfg
	}
}

// runOnce starts the application, runs fn and stops the application again.
func runOnce(ctx context.Context, extra fx.Option, fn func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	app := fx.New(
		coreModules(),
		extra,
	)

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	runErr := fn(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), startTimeout)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return fmt.Errorf("failed to stop: %w", err)
	}

	return runErr
}

func coreModules() fx.Option {
	return fx.Options(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		validator.Module,
		//
		// APP MODULES
		config.Module(),
		//
		// BUSINESS MODULES
		gist.Module(),
		git.Module(),
		workspace.Module(),
		publications.Module(),
		publisher.Module(),
	)
}

func lifecycleLogging() fx.Option {
	return fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(_ context.Context) error {
				logger.Info("gistit server starting up")
				return nil
			},
			OnStop: func(_ context.Context) error {
				logger.Info("gistit server shutting down")
				return nil
			},
		})
	})
}
