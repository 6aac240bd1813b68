package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v6"
	"go.uber.org/zap"
)

// Service publishes the working tree of a gist clone: it stages changed
// paths, commits them on HEAD, points origin at the SSH url and pushes.
type Service struct {
	stager    *Stager
	committer *Committer
	remotes   *RemoteConfigurator
	pusher    *Pusher

	config Config
	logger *zap.Logger
}

// NewService creates a new Service.
func NewService(config Config, credentials CredentialProvider, logger *zap.Logger) *Service {
	return &Service{
		stager:    NewStager(DefaultStagePolicy, logger.Named("stager")),
		committer: NewCommitter(config, logger.Named("committer")),
		remotes:   NewRemoteConfigurator(config, logger.Named("remote")),
		pusher:    NewPusher(credentials, logger.Named("pusher")),

		config: config,
		logger: logger,
	}
}

// CommitAndPush commits every changed path of repo and pushes master to the
// gist identified by id. Steps are not rolled back on failure: a failed push
// leaves the local commit in place.
func (s *Service) CommitAndPush(ctx context.Context, repo *git.Repository, id string) (*Result, error) {
	logger := s.logger.With(zap.String("gist_id", id))

	parent, err := ResolveHead(repo)
	if err != nil {
		logger.Error("failed to resolve HEAD", zap.Error(err))
		return nil, err
	}

	staged, err := s.Stage(repo)
	if err != nil {
		return nil, err
	}

	logger.Info("paths staged", zap.Strings("paths", staged))

	hash, err := s.committer.CommitOnto(repo, parent, s.config.CommitMessage)
	if err != nil {
		return nil, err
	}

	remote, err := s.remotes.Configure(repo, id)
	if err != nil {
		return nil, err
	}

	if pushErr := s.pusher.Push(ctx, remote); pushErr != nil {
		return nil, pushErr
	}

	logger.Info("gist published", zap.String("commit", hash.String()))

	return &Result{
		Commit:  hash,
		Parent:  parent.Hash,
		Staged:  staged,
		PushURL: remote.Config().URLs[0],
	}, nil
}

// Stage stages the changed paths of the repository worktree using the
// default policy.
func (s *Service) Stage(repo *git.Repository, paths ...string) ([]string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		s.logger.Error("failed to get worktree", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStatusUnresolved, err)
	}

	src, err := newWorktreeStatus(repo, wt)
	if err != nil {
		s.logger.Error("failed to get worktree status", zap.Error(err))
		return nil, err
	}

	return s.stager.Stage(src, worktreeIndex{wt: wt}, paths...)
}
