package git

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/transport"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// testSSHServer serves git-receive-pack over ssh for the bare repositories
// under root. Only the authorized keys may log in.
type testSSHServer struct {
	addr       string
	root       string
	config     *ssh.ServerConfig
	authorized []ssh.PublicKey

	mu     sync.Mutex
	logins []string
}

func newTestSSHServer(t *testing.T, authorized ...ssh.PublicKey) *testSSHServer {
	t.Helper()

	_, hostKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	hostSigner, err := ssh.NewSignerFromKey(hostKey)
	require.NoError(t, err)

	s := &testSSHServer{
		root:       t.TempDir(),
		authorized: authorized,
	}
	s.config = &ssh.ServerConfig{PublicKeyCallback: s.checkKey}
	s.config.AddHostKey(hostSigner)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	s.addr = ln.Addr().String()

	knownHosts := filepath.Join(t.TempDir(), "known_hosts")
	line := knownhosts.Line([]string{knownhosts.Normalize(s.addr)}, hostSigner.PublicKey())
	require.NoError(t, os.WriteFile(knownHosts, []byte(line+"\n"), 0o600))
	t.Setenv("SSH_KNOWN_HOSTS", knownHosts)

	go func() {
		for {
			conn, acceptErr := ln.Accept()
			if acceptErr != nil {
				return
			}
			go s.serve(conn)
		}
	}()

	return s
}

// initBare creates an empty bare repository served as <id>.git.
func (s *testSSHServer) initBare(t *testing.T, id string) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(filepath.Join(s.root, id+".git"), true)
	require.NoError(t, err)

	return repo
}

func (s *testSSHServer) users() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.logins...)
}

func (s *testSSHServer) checkKey(meta ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
	for _, k := range s.authorized {
		if bytes.Equal(k.Marshal(), key.Marshal()) {
			s.mu.Lock()
			s.logins = append(s.logins, meta.User())
			s.mu.Unlock()

			return &ssh.Permissions{}, nil
		}
	}

	return nil, fmt.Errorf("unknown key for %s", meta.User())
}

func (s *testSSHServer) serve(nConn net.Conn) {
	defer nConn.Close()

	conn, chans, reqs, err := ssh.NewServerConn(nConn, s.config)
	if err != nil {
		return
	}
	defer conn.Close()

	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "session only")
			continue
		}

		ch, chReqs, acceptErr := newCh.Accept()
		if acceptErr != nil {
			return
		}
		go s.session(ch, chReqs)
	}
}

func (s *testSSHServer) session(ch ssh.Channel, reqs <-chan *ssh.Request) {
	defer ch.Close()

	var protocol string
	for req := range reqs {
		switch req.Type {
		case "env":
			var env struct{ Name, Value string }
			if ssh.Unmarshal(req.Payload, &env) == nil && env.Name == "GIT_PROTOCOL" {
				protocol = env.Value
			}
			_ = req.Reply(true, nil)
		case "exec":
			var exec struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &exec); err != nil {
				_ = req.Reply(false, nil)
				return
			}
			_ = req.Reply(true, nil)

			status := s.receivePack(ch, exec.Command, protocol)
			_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
			return
		default:
			_ = req.Reply(false, nil)
		}
	}
}

func (s *testSSHServer) receivePack(ch ssh.Channel, command, protocol string) uint32 {
	service, arg, ok := strings.Cut(command, " ")
	if !ok || service != transport.ReceivePackService.String() {
		fmt.Fprintf(ch.Stderr(), "unsupported command %q\n", command)
		return 1
	}

	repo, err := git.PlainOpen(filepath.Join(s.root, strings.Trim(arg, "'/")))
	if err != nil {
		fmt.Fprintln(ch.Stderr(), err)
		return 128
	}

	err = transport.ReceivePack(context.Background(), repo.Storer,
		io.NopCloser(ch), channelWriter{ch}, &transport.ReceivePackOptions{GitProtocol: protocol},
	)
	if err != nil {
		fmt.Fprintln(ch.Stderr(), err)
		return 1
	}

	return 0
}

// channelWriter half-closes the channel so the client sees the end of the
// report while exit-status can still be sent.
type channelWriter struct {
	ch ssh.Channel
}

func (w channelWriter) Write(p []byte) (int, error) {
	return w.ch.Write(p) //nolint:wrapcheck //test transport
}

func (w channelWriter) Close() error {
	return w.ch.CloseWrite() //nolint:wrapcheck //test transport
}

// agentPublicKeys lists the public keys held by the test agent.
func agentPublicKeys(t *testing.T, ag *testAgent) []ssh.PublicKey {
	t.Helper()

	keys, err := ag.keyring.List()
	require.NoError(t, err)

	out := make([]ssh.PublicKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, k)
	}

	return out
}
