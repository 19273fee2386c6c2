package remote

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/dextersy/label-dashboard/internal/config"
	"golang.org/x/crypto/ssh"
)

// CommandRunner executes a command on the web host that terminates custom
// domain traffic.
type CommandRunner interface {
	Run(ctx context.Context, command string) (string, error)
}

// SSHRunner runs commands over SSH using key-based auth.
type SSHRunner struct {
	cfg config.SSHConfig
}

// NewSSHRunner creates a new SSHRunner
func NewSSHRunner(cfg config.SSHConfig) *SSHRunner {
	return &SSHRunner{cfg: cfg}
}

// Run connects, executes the command and returns its combined output. The
// configured timeout bounds the whole exchange, not just the dial.
func (r *SSHRunner) Run(ctx context.Context, command string) (string, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("remote command canceled: %w", err)
	}

	key, err := os.ReadFile(r.cfg.PrivateKeyPath)
	if err != nil {
		return "", fmt.Errorf("failed to read ssh private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to parse ssh private key: %w", err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            r.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         r.cfg.Timeout,
	}

	addr := net.JoinHostPort(r.cfg.Host, strconv.Itoa(r.cfg.Port))

	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return "", fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open ssh session: %w", err)
	}
	defer session.Close()

	type result struct {
		output []byte
		err    error
	}
	done := make(chan result, 1)

	go func() {
		output, err := session.CombinedOutput(command)
		done <- result{output: output, err: err}
	}()

	select {
	case <-ctx.Done():
		session.Close()
		return "", fmt.Errorf("remote command canceled: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return string(res.output), fmt.Errorf("remote command failed: %w", res.err)
		}
		return string(res.output), nil
	}
}
