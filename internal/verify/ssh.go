package verify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHChecker opens an SSH session to each reachable host. A host whose
// server completes key exchange counts as a live SSH endpoint even when the
// login is refused.
type SSHChecker struct {
	port    int
	timeout time.Duration
	config  *ssh.ClientConfig
}

// SSHOptions configures the SSH check
type SSHOptions struct {
	Port     int
	Username string
	Password string
	KeyPath  string
	Timeout  time.Duration
}

// NewSSHChecker builds a checker from opts. With neither password nor key
// only the handshake is checked.
func NewSSHChecker(opts SSHOptions) (*SSHChecker, error) {
	if opts.Port == 0 {
		opts.Port = 22
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	var auth []ssh.AuthMethod
	if opts.KeyPath != "" {
		signer, err := loadSigner(opts.KeyPath)
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if opts.Password != "" {
		auth = append(auth, ssh.Password(opts.Password))
	}

	user := opts.Username
	if user == "" {
		user = "ansible"
	}

	return &SSHChecker{
		port:    opts.Port,
		timeout: opts.Timeout,
		config: &ssh.ClientConfig{
			User:    user,
			Auth:    auth,
			Timeout: opts.Timeout,
		},
	}, nil
}

func loadSigner(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("ssh key %s is passphrase protected", path)
		}
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return signer, nil
}

// Probe connects to address and reports how far the session got
func (c *SSHChecker) Probe(ctx context.Context, address string) SSHResult {
	var res SSHResult

	config := *c.config
	// Host keys are recorded, not verified: the audit only asks whether
	// the device speaks SSH.
	config.HostKeyCallback = func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		res.Handshake = true
		res.HostKeyType = key.Type()
		return nil
	}

	addr := net.JoinHostPort(address, strconv.Itoa(c.port))
	dialer := &net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		res.Error = fmt.Sprintf("failed to dial: %v", err)
		return res
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(c.timeout))
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, &config)
	if err != nil {
		res.Error = fmt.Sprintf("failed to establish SSH connection: %v", err)
		return res
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	res.Authenticated = true
	return res
}
