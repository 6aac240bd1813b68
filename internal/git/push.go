package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing/transport"
	"go.uber.org/zap"
)

const (
	protocolSSH  = "ssh"
	protocolHTTP = "http"
	protocolFile = "file"
	protocolGit  = "git"
)

type endpoint struct {
	protocol string
	user     string
}

// parseEndpoint classifies a remote url by the transport it needs. Scp-like
// addresses are ssh, bare paths are local.
func parseEndpoint(raw string) (endpoint, error) {
	ep, err := transport.NewEndpoint(raw)
	if err != nil {
		return endpoint{}, fmt.Errorf("invalid remote url: %w", err)
	}

	res := endpoint{user: ep.User.Username()}
	switch ep.Scheme {
	case "ssh", "git+ssh", "ssh+git":
		res.protocol = protocolSSH
	case "http", "https":
		res.protocol = protocolHTTP
	case "file":
		res.protocol = protocolFile
	case "git":
		res.protocol = protocolGit
	default:
		return endpoint{}, fmt.Errorf("unsupported remote scheme %q", ep.Scheme)
	}

	return res, nil
}

// acceptedCredentials lists the credential types a transport can use.
// Zero means the transport does not authenticate.
func acceptedCredentials(protocol string) CredentialType {
	switch protocol {
	case protocolSSH:
		return CredentialSSHKey
	case protocolHTTP:
		return CredentialUserPassPlaintext
	default:
		return 0
	}
}

// Pusher pushes local master to the remote master.
type Pusher struct {
	credentials CredentialProvider
	logger      *zap.Logger
}

func NewPusher(credentials CredentialProvider, logger *zap.Logger) *Pusher {
	return &Pusher{
		credentials: credentials,
		logger:      logger,
	}
}

// Push negotiates credentials for the remote url, then pushes. Credentials
// are resolved before any network traffic.
func (p *Pusher) Push(ctx context.Context, remote *git.Remote) error {
	cfg := remote.Config()
	if len(cfg.URLs) == 0 {
		return fmt.Errorf("%w: remote %s has no url", ErrPushFailed, cfg.Name)
	}

	rawURL := cfg.URLs[0]
	logger := p.logger.With(zap.String("remote", cfg.Name), zap.String("url", rawURL))

	ep, err := parseEndpoint(rawURL)
	if err != nil {
		logger.Error("failed to parse remote url", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}

	opts := &git.PushOptions{
		RemoteName: cfg.Name,
		RefSpecs:   []config.RefSpec{PushRefSpec},
	}

	if allowed := acceptedCredentials(ep.protocol); allowed != 0 {
		cred, credErr := p.credentials.Credential(rawURL, ep.user, allowed)
		if credErr != nil {
			logger.Error("credential negotiation failed", zap.Error(credErr))
			return fmt.Errorf("%w: %w", ErrPushFailed, credErr)
		}
		defer func() {
			if relErr := cred.Release(); relErr != nil {
				logger.Warn("failed to release credential", zap.Error(relErr))
			}
		}()

		opts.Auth = cred.Auth
	}

	logger.Info("pushing", zap.String("refspec", PushRefSpec))

	err = remote.PushContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		logger.Info("remote already up to date")
		return nil
	}
	if err != nil {
		logger.Error("push failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}

	logger.Info("push completed")

	return nil
}
