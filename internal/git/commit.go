package git

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"go.uber.org/zap"
)

var errNoIdentity = errors.New("author identity unknown")

// ResolveHead returns the commit HEAD currently points at.
func ResolveHead(repo *git.Repository) (*object.Commit, error) {
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: resolving HEAD: %w", ErrNoCommitFound, err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoCommitFound, ref.Hash(), err)
	}

	return commit, nil
}

// Committer writes tree and commit objects from the index.
type Committer struct {
	config Config
	logger *zap.Logger
}

func NewCommitter(config Config, logger *zap.Logger) *Committer {
	return &Committer{
		config: config,
		logger: logger,
	}
}

// Commit creates a commit of the current index on top of HEAD.
func (c *Committer) Commit(repo *git.Repository, message string) (plumbing.Hash, error) {
	parent, err := ResolveHead(repo)
	if err != nil {
		c.logger.Error("failed to resolve HEAD", zap.Error(err))
		return plumbing.ZeroHash, err
	}

	return c.CommitOnto(repo, parent, message)
}

// CommitOnto creates a commit of the current index whose only parent is
// parent, then advances HEAD to it. parent must still be the HEAD commit.
func (c *Committer) CommitOnto(repo *git.Repository, parent *object.Commit, message string) (plumbing.Hash, error) {
	logger := c.logger.With(zap.String("parent", parent.Hash.String()))

	head, err := ResolveHead(repo)
	if err != nil {
		logger.Error("failed to resolve HEAD", zap.Error(err))
		return plumbing.ZeroHash, err
	}
	if head.Hash != parent.Hash {
		logger.Error("HEAD moved", zap.String("head", head.Hash.String()))
		return plumbing.ZeroHash, fmt.Errorf("%w: expected %s, found %s", ErrHeadMoved, parent.Hash, head.Hash)
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		logger.Error("failed to read index", zap.Error(err))
		return plumbing.ZeroHash, fmt.Errorf("%w: reading index: %w", ErrCommitFailed, err)
	}

	if setErr := repo.Storer.SetIndex(idx); setErr != nil {
		logger.Error("failed to write index", zap.Error(setErr))
		return plumbing.ZeroHash, fmt.Errorf("%w: writing index: %w", ErrCommitFailed, setErr)
	}

	treeHash, err := writeTree(repo.Storer, idx.Entries)
	if err != nil {
		logger.Error("failed to write tree", zap.Error(err))
		return plumbing.ZeroHash, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	if treeHash == parent.TreeHash && !c.config.AllowEmptyCommit {
		logger.Info("staged tree equals parent tree, skipping commit", zap.String("tree", treeHash.String()))
		return plumbing.ZeroHash, ErrNothingToCommit
	}

	sig, err := c.signature(repo)
	if err != nil {
		logger.Error("failed to build signature", zap.Error(err))
		return plumbing.ZeroHash, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: []plumbing.Hash{parent.Hash},
	}

	obj := repo.Storer.NewEncodedObject()
	if encErr := commit.Encode(obj); encErr != nil {
		logger.Error("failed to encode commit", zap.Error(encErr))
		return plumbing.ZeroHash, fmt.Errorf("%w: encoding commit: %w", ErrCommitFailed, encErr)
	}

	hash, err := repo.Storer.SetEncodedObject(obj)
	if err != nil {
		logger.Error("failed to write commit", zap.Error(err))
		return plumbing.ZeroHash, fmt.Errorf("%w: writing commit: %w", ErrCommitFailed, err)
	}

	if refErr := advanceHead(repo, parent.Hash, hash); refErr != nil {
		logger.Error("failed to advance HEAD", zap.Error(refErr))
		return plumbing.ZeroHash, fmt.Errorf("%w: %w", ErrCommitFailed, refErr)
	}

	logger.Info("commit created",
		zap.String("commit", hash.String()),
		zap.String("tree", treeHash.String()))

	return hash, nil
}

// signature builds the author signature from the repository configuration,
// falling back to the configured identity.
func (c *Committer) signature(repo *git.Repository) (object.Signature, error) {
	name, email := c.config.Author.Name, c.config.Author.Email

	cfg, err := repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return object.Signature{}, fmt.Errorf("failed to read config: %w", err)
	}

	if cfg.User.Name != "" {
		name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		email = cfg.User.Email
	}

	if name == "" || email == "" {
		return object.Signature{}, errNoIdentity
	}

	return object.Signature{
		Name:  name,
		Email: email,
		When:  time.Now(),
	}, nil
}

// advanceHead moves the branch HEAD points at (or HEAD itself when detached)
// from old to hash.
func advanceHead(repo *git.Repository, old, hash plumbing.Hash) error {
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("failed to read HEAD: %w", err)
	}

	name := plumbing.HEAD
	if head.Type() == plumbing.SymbolicReference {
		name = head.Target()
	}

	err = repo.Storer.CheckAndSetReference(
		plumbing.NewHashReference(name, hash),
		plumbing.NewHashReference(name, old),
	)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", name, err)
	}

	return nil
}
