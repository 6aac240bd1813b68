package git

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh/agent"
)

// initRepo creates a repository on master with a configured user identity.
func initRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false, git.WithDefaultBranch(plumbing.Master))
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test Author"
	cfg.User.Email = "test@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	return repo, dir
}

// initRepoWithCommit creates a repository whose HEAD commit contains readme.md.
func initRepoWithCommit(t *testing.T) (*git.Repository, string, plumbing.Hash) {
	t.Helper()

	repo, dir := initRepo(t)
	writeFile(t, dir, "readme.md", "# readme\n")
	head := commitPaths(t, repo, "initial commit", "readme.md")

	return repo, dir, head
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func commitPaths(t *testing.T, repo *git.Repository, message string, paths ...string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for _, p := range paths {
		_, err = wt.Add(p)
		require.NoError(t, err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return hash
}

func headHash(t *testing.T, repo *git.Repository) plumbing.Hash {
	t.Helper()

	ref, err := repo.Head()
	require.NoError(t, err)

	return ref.Hash()
}

func countObjects(t *testing.T, repo *git.Repository) int {
	t.Helper()

	iter, err := repo.Storer.IterEncodedObjects(plumbing.AnyObject)
	require.NoError(t, err)

	count := 0
	require.NoError(t, iter.ForEach(func(plumbing.EncodedObject) error {
		count++
		return nil
	}))

	return count
}

func treeFiles(t *testing.T, repo *git.Repository, hash plumbing.Hash) []string {
	t.Helper()

	commit, err := repo.CommitObject(hash)
	require.NoError(t, err)

	tree, err := commit.Tree()
	require.NoError(t, err)

	var files []string
	require.NoError(t, tree.Files().ForEach(func(f *object.File) error {
		files = append(files, f.Name)
		return nil
	}))

	return files
}

// testAgent is an in-memory agent that counts dials and closes.
type testAgent struct {
	keyring agent.Agent
	dials   atomic.Int32
	closes  atomic.Int32
}

func newTestAgent(t *testing.T, keys int) *testAgent {
	t.Helper()

	keyring := agent.NewKeyring()
	for range keys {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		require.NoError(t, keyring.Add(agent.AddedKey{PrivateKey: priv}))
	}

	return &testAgent{keyring: keyring}
}

func (a *testAgent) dial() (agent.Agent, io.Closer, error) {
	a.dials.Add(1)
	return a.keyring, a, nil
}

func (a *testAgent) Close() error {
	a.closes.Add(1)
	return nil
}

// failingCredentials fails the test when the pusher asks for a credential.
type failingCredentials struct {
	t *testing.T
}

func (f failingCredentials) Credential(url, _ string, _ CredentialType) (*Credential, error) {
	f.t.Errorf("unexpected credential request for %s", url)
	return nil, ErrNoAuthAvailable
}
