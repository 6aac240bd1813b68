package git

import (
	"fmt"
	"slices"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"go.uber.org/zap"
)

// PushURL returns the scp-like SSH url of a gist.
func PushURL(user, host, id string) string {
	return fmt.Sprintf("%s@%s:%s.git", user, host, id)
}

// RemoteConfigurator points the origin remote of a clone at its SSH push url.
type RemoteConfigurator struct {
	config Config
	logger *zap.Logger
}

func NewRemoteConfigurator(config Config, logger *zap.Logger) *RemoteConfigurator {
	return &RemoteConfigurator{
		config: config,
		logger: logger,
	}
}

// Configure replaces the persisted origin url with the SSH push url for id
// and returns the matching remote handle. The previous url is discarded.
func (r *RemoteConfigurator) Configure(repo *git.Repository, id string) (*git.Remote, error) {
	url := PushURL(r.config.SSHUser, r.config.SSHHost, id)
	logger := r.logger.With(zap.String("remote", RemoteName), zap.String("url", url))

	cfg, err := repo.Config()
	if err != nil {
		logger.Error("failed to open repository config", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	fetch := []config.RefSpec{config.RefSpec(fmt.Sprintf(config.DefaultFetchRefSpec, RemoteName))}
	if previous, ok := cfg.Remotes[RemoteName]; ok {
		logger.Debug("removing previous remote url", zap.Strings("previous", previous.URLs))
		if len(previous.Fetch) > 0 {
			fetch = slices.Clone(previous.Fetch)
		}
		delete(cfg.Remotes, RemoteName)
	}

	cfg.Remotes[RemoteName] = &config.RemoteConfig{
		Name:  RemoteName,
		URLs:  []string{url},
		Fetch: fetch,
	}

	if setErr := repo.SetConfig(cfg); setErr != nil {
		logger.Error("failed to write repository config", zap.Error(setErr))
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, setErr)
	}

	remote, err := repo.Remote(RemoteName)
	if err != nil {
		logger.Error("failed to get remote", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	persisted, err := PersistedRemoteURL(repo)
	if err != nil {
		logger.Error("failed to read back remote url", zap.Error(err))
		return nil, err
	}

	if handle := remote.Config().URLs; len(handle) == 0 || handle[0] != url || persisted != url {
		logger.Error("remote url mismatch",
			zap.Strings("handle", handle),
			zap.String("persisted", persisted))
		return nil, fmt.Errorf("%w: expected %s", ErrRemoteDiverged, url)
	}

	logger.Info("remote configured")

	return remote, nil
}

// PersistedRemoteURL returns remote.origin.url as stored in the repository
// configuration.
func PersistedRemoteURL(repo *git.Repository) (string, error) {
	cfg, err := repo.Storer.Config()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	remote, ok := cfg.Remotes[RemoteName]
	if !ok || len(remote.URLs) == 0 {
		return "", fmt.Errorf("%w: remote %s has no url", ErrConfiguration, RemoteName)
	}

	return remote.URLs[0], nil
}
