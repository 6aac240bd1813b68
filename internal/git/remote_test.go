package git

import (
	"testing"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPushURL(t *testing.T) {
	require.Equal(t, "git@gist.github.com:abc123.git", PushURL("git", "gist.github.com", "abc123"))
}

func TestRemoteConfigurator_ReplacesCloneURL(t *testing.T) {
	repo, dir, _ := initRepoWithCommit(t)

	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name:  RemoteName,
		URLs:  []string{"https://gist.github.com/abc123.git"},
		Fetch: []config.RefSpec{"+refs/heads/master:refs/remotes/origin/master"},
	})
	require.NoError(t, err)

	configurator := NewRemoteConfigurator(DefaultConfig(), zaptest.NewLogger(t))

	remote, err := configurator.Configure(repo, "abc123")
	require.NoError(t, err)

	expected := "git@gist.github.com:abc123.git"
	require.Equal(t, []string{expected}, remote.Config().URLs)

	persisted, err := PersistedRemoteURL(repo)
	require.NoError(t, err)
	require.Equal(t, expected, persisted)

	// the configuration on disk agrees with the handle
	reopened, err := git.PlainOpen(dir)
	require.NoError(t, err)
	cfg, err := reopened.Config()
	require.NoError(t, err)
	require.Equal(t, []string{expected}, cfg.Remotes[RemoteName].URLs)
	require.Equal(t, []config.RefSpec{"+refs/heads/master:refs/remotes/origin/master"}, cfg.Remotes[RemoteName].Fetch)
}

func TestRemoteConfigurator_WithoutExistingRemote(t *testing.T) {
	repo, _, _ := initRepoWithCommit(t)

	config := DefaultConfig()
	config.SSHUser = "deploy"
	config.SSHHost = "gist.example.com"

	remote, err := NewRemoteConfigurator(config, zaptest.NewLogger(t)).Configure(repo, "f00")
	require.NoError(t, err)
	require.Equal(t, []string{"deploy@gist.example.com:f00.git"}, remote.Config().URLs)

	persisted, err := PersistedRemoteURL(repo)
	require.NoError(t, err)
	require.Equal(t, remote.Config().URLs[0], persisted)
}

func TestRemoteConfigurator_RepeatedRuns(t *testing.T) {
	repo, _, _ := initRepoWithCommit(t)

	configurator := NewRemoteConfigurator(DefaultConfig(), zaptest.NewLogger(t))

	_, err := configurator.Configure(repo, "first")
	require.NoError(t, err)

	remote, err := configurator.Configure(repo, "second")
	require.NoError(t, err)
	require.Equal(t, []string{"git@gist.github.com:second.git"}, remote.Config().URLs)

	cfg, err := repo.Config()
	require.NoError(t, err)
	require.Len(t, cfg.Remotes, 1)
}
