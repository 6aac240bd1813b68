package git

import (
	"github.com/go-git/go-git/v6/plumbing"
)

const (
	// RemoteName is the remote the publish commit is pushed to.
	RemoteName = "origin"
	// PushRefSpec maps local master to remote master.
	PushRefSpec = "refs/heads/master:refs/heads/master"
)

// Result describes a successful commit-and-push run.
type Result struct {
	Commit  plumbing.Hash // Commit created on HEAD
	Parent  plumbing.Hash // HEAD commit observed before staging
	Staged  []string      // Paths the stager added or removed
	PushURL string        // Remote url the commit was pushed to
}
