package git

import (
	"github.com/go-git/go-git/v6/plumbing/transport"
)

// Status is a set of flags describing a path relative to the index and the
// last commit.
type Status uint16

const StatusCurrent Status = 0

const (
	StatusIndexNew Status = 1 << iota
	StatusIndexModified
	StatusIndexDeleted
	StatusIndexRenamed
	StatusWorktreeNew
	StatusWorktreeModified
	StatusWorktreeDeleted
	StatusWorktreeRenamed
	StatusConflicted
)

// Has reports whether any of the flags in other are set.
func (s Status) Has(other Status) bool {
	return s&other != 0
}

// StagePolicy decides whether a path belongs in the next commit.
type StagePolicy func(path string, status Status) bool

// StatusSource answers working-tree status questions for a repository.
type StatusSource interface {
	// Paths lists every path known to the index or the working tree.
	Paths() []string
	// Status returns the status flags of a single path.
	Status(path string) (Status, error)
}

// Index is the part of the staging area the stager mutates.
type Index interface {
	Add(path string) error
	Remove(path string) error
}

// CredentialType is a bitmask of credential kinds a transport accepts.
type CredentialType uint8

const (
	CredentialUserPassPlaintext CredentialType = 1 << iota
	CredentialSSHKey
)

func (t CredentialType) Has(other CredentialType) bool {
	return t&other != 0
}

// CredentialProvider supplies transport credentials on request.
type CredentialProvider interface {
	// Credential returns a credential for url. username may be empty.
	// Implementations must not cache: every call yields a fresh credential.
	Credential(url, username string, allowed CredentialType) (*Credential, error)
}

// Credential is a transport auth method bound to the resources backing it.
type Credential struct {
	Auth transport.AuthMethod

	release func() error
}

func NewCredential(auth transport.AuthMethod, release func() error) *Credential {
	return &Credential{
		Auth:    auth,
		release: release,
	}
}

// Release frees the resources held by the credential.
func (c *Credential) Release() error {
	if c == nil || c.release == nil {
		return nil
	}

	return c.release()
}
