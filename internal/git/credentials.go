package git

import (
	"fmt"
	"io"

	gitssh "github.com/go-git/go-git/v6/plumbing/transport/ssh"
	"github.com/samber/lo"
	sshagent "github.com/xanzy/ssh-agent"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// AgentDialer connects to an SSH agent. The closer ends the connection.
type AgentDialer func() (agent.Agent, io.Closer, error)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// DialSSHAgent connects to the agent of the current user session
// (SSH_AUTH_SOCK, or Pageant on Windows).
func DialSSHAgent() (agent.Agent, io.Closer, error) {
	ag, conn, err := sshagent.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to ssh agent: %w", err)
	}

	if conn == nil {
		return ag, nopCloser{}, nil
	}

	return ag, conn, nil
}

// AgentCredentials provides SSH public key credentials backed by an agent.
// Every call dials the agent again; nothing is cached between pushes.
type AgentCredentials struct {
	dial        AgentDialer
	fingerprint string

	logger *zap.Logger
}

func NewAgentCredentials(config Config, dial AgentDialer, logger *zap.Logger) *AgentCredentials {
	if dial == nil {
		dial = DialSSHAgent
	}

	return &AgentCredentials{
		dial:        dial,
		fingerprint: config.KeyFingerprint,

		logger: logger,
	}
}

// Credential implements CredentialProvider.
func (a *AgentCredentials) Credential(url, username string, allowed CredentialType) (*Credential, error) {
	logger := a.logger.With(zap.String("url", url), zap.String("username", username))

	if !allowed.Has(CredentialSSHKey) {
		logger.Error("ssh key credentials not accepted", zap.Uint8("allowed", uint8(allowed)))
		return nil, fmt.Errorf("%w: %s", ErrNoAuthAvailable, url)
	}

	if username == "" {
		logger.Error("no username for ssh authentication")
		return nil, fmt.Errorf("%w: no username for %s", ErrAuthenticationFailed, url)
	}

	ag, closer, err := a.dial()
	if err != nil {
		logger.Error("failed to dial ssh agent", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	signers, err := a.signers(ag)
	if err == nil && len(signers) == 0 {
		err = fmt.Errorf("%w: no matching key in ssh agent", ErrAuthenticationFailed)
	}
	if err != nil {
		_ = closer.Close()
		logger.Error("no usable agent key", zap.Error(err))
		return nil, err
	}

	logger.Debug("agent keys available", zap.Int("count", len(signers)))

	auth := &gitssh.PublicKeysCallback{
		User: username,
		Callback: func() ([]ssh.Signer, error) {
			return a.signers(ag)
		},
	}

	return NewCredential(auth, closer.Close), nil
}

func (a *AgentCredentials) signers(ag agent.Agent) ([]ssh.Signer, error) {
	signers, err := ag.Signers()
	if err != nil {
		return nil, fmt.Errorf("%w: listing agent keys: %w", ErrAuthenticationFailed, err)
	}

	if a.fingerprint == "" {
		return signers, nil
	}

	return lo.Filter(signers, func(s ssh.Signer, _ int) bool {
		return ssh.FingerprintSHA256(s.PublicKey()) == a.fingerprint
	}), nil
}
