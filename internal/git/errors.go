package git

import "errors"

var (
	ErrStatusUnresolved     = errors.New("failed to resolve path status")
	ErrCommitFailed         = errors.New("commit failed")
	ErrNoCommitFound        = errors.New("couldn't find commit")
	ErrHeadMoved            = errors.New("HEAD moved while staging")
	ErrNothingToCommit      = errors.New("nothing to commit")
	ErrConfiguration        = errors.New("failed to update repository configuration")
	ErrRemoteDiverged       = errors.New("persisted remote url differs from remote handle")
	ErrNoAuthAvailable      = errors.New("no authentication available, please make sure you have the correct access rights")
	ErrAuthenticationFailed = errors.New("failed to authenticate, please make sure you have the correct access rights")
	ErrPushFailed           = errors.New("push failed")
)
