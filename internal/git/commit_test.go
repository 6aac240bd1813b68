package git

import (
	"testing"

	"github.com/go-git/go-git/v6/plumbing"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCommitter_CommitsOnHead(t *testing.T) {
	repo, dir, head := initRepoWithCommit(t)

	writeFile(t, dir, "notes.txt", "notes\n")
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("notes.txt")
	require.NoError(t, err)

	committer := NewCommitter(DefaultConfig(), zaptest.NewLogger(t))

	hash, err := committer.Commit(repo, "publish")
	require.NoError(t, err)
	require.NotEqual(t, head, hash)

	commit, err := repo.CommitObject(hash)
	require.NoError(t, err)
	require.Equal(t, []plumbing.Hash{head}, commit.ParentHashes)
	require.Equal(t, "publish", commit.Message)
	require.Equal(t, "Test Author", commit.Author.Name)
	require.Equal(t, "test@example.com", commit.Committer.Email)

	require.Equal(t, hash, headHash(t, repo))
	require.ElementsMatch(t, []string{"readme.md", "notes.txt"}, treeFiles(t, repo, hash))

	// HEAD stays symbolic and the branch moved
	ref, err := repo.Reference(plumbing.Master, false)
	require.NoError(t, err)
	require.Equal(t, hash, ref.Hash())
}

func TestCommitter_UnbornHead(t *testing.T) {
	repo, dir := initRepo(t)

	writeFile(t, dir, "notes.txt", "notes\n")
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("notes.txt")
	require.NoError(t, err)

	before := countObjects(t, repo)

	_, err = NewCommitter(DefaultConfig(), zaptest.NewLogger(t)).Commit(repo, "")
	require.ErrorIs(t, err, ErrNoCommitFound)

	require.Equal(t, before, countObjects(t, repo))
}

func TestCommitter_EmptyCommitAllowed(t *testing.T) {
	repo, _, head := initRepoWithCommit(t)

	hash, err := NewCommitter(DefaultConfig(), zaptest.NewLogger(t)).Commit(repo, "")
	require.NoError(t, err)

	commit, err := repo.CommitObject(hash)
	require.NoError(t, err)
	parent, err := repo.CommitObject(head)
	require.NoError(t, err)

	require.Equal(t, parent.TreeHash, commit.TreeHash)
	require.Equal(t, []plumbing.Hash{head}, commit.ParentHashes)
}

func TestCommitter_EmptyCommitRejected(t *testing.T) {
	repo, _, head := initRepoWithCommit(t)

	config := DefaultConfig()
	config.AllowEmptyCommit = false

	_, err := NewCommitter(config, zaptest.NewLogger(t)).Commit(repo, "")
	require.ErrorIs(t, err, ErrNothingToCommit)
	require.Equal(t, head, headHash(t, repo))
}

func TestCommitter_HeadMovedAfterResolve(t *testing.T) {
	repo, dir, _ := initRepoWithCommit(t)

	parent, err := ResolveHead(repo)
	require.NoError(t, err)

	writeFile(t, dir, "other.txt", "other\n")
	moved := commitPaths(t, repo, "concurrent commit", "other.txt")

	_, err = NewCommitter(DefaultConfig(), zaptest.NewLogger(t)).CommitOnto(repo, parent, "")
	require.ErrorIs(t, err, ErrHeadMoved)
	require.Equal(t, moved, headHash(t, repo))
}

func TestCommitter_FallbackIdentity(t *testing.T) {
	repo, dir, head := initRepoWithCommit(t)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = ""
	cfg.User.Email = ""
	require.NoError(t, repo.SetConfig(cfg))

	writeFile(t, dir, "notes.txt", "notes\n")
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("notes.txt")
	require.NoError(t, err)

	config := DefaultConfig()
	config.Author = Identity{Name: "gistit", Email: "gistit@localhost"}

	hash, err := NewCommitter(config, zaptest.NewLogger(t)).Commit(repo, "")
	require.NoError(t, err)

	commit, err := repo.CommitObject(hash)
	require.NoError(t, err)
	require.Equal(t, []plumbing.Hash{head}, commit.ParentHashes)
	require.NotEmpty(t, commit.Author.Name)
	require.NotEmpty(t, commit.Author.Email)
}
