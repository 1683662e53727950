// Package verify audits the management plane of inventoried hosts: every
// ansible_host is port-scanned with nmap and, optionally, checked for an SSH
// handshake and login.
package verify

import (
	"context"
	"fmt"
	"net"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"d42inventory/internal/inventory"
	"d42inventory/internal/logging"
)

// Status is the verdict for one host
type Status string

const (
	StatusReachable   Status = "reachable"
	StatusUnreachable Status = "unreachable"
	StatusNoAddress   Status = "no-address"
)

// Target is one host to check
type Target struct {
	Host    string
	Address string // empty when the host has no management IP
}

// SSHResult is the outcome of the SSH check
type SSHResult struct {
	Handshake     bool   `json:"handshake"`
	Authenticated bool   `json:"authenticated"`
	HostKeyType   string `json:"host_key_type,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Result is the verdict for one host
type Result struct {
	Host      string     `json:"host"`
	Address   string     `json:"address,omitempty"`
	Status    Status     `json:"status"`
	OpenPorts []int      `json:"open_ports,omitempty"`
	SSH       *SSHResult `json:"ssh,omitempty"`
}

// Report is a full audit, results sorted by host
type Report struct {
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Reachable   int           `json:"reachable"`
	Unreachable int           `json:"unreachable"`
	NoAddress   int           `json:"no_address"`
	Results     []Result      `json:"results"`
}

// PortScanner reports the open ports of each address that answered
type PortScanner interface {
	Scan(ctx context.Context, addresses []string) (map[string][]int, error)
}

// SSHProber checks one address for a working SSH service
type SSHProber interface {
	Probe(ctx context.Context, address string) SSHResult
}

// TargetsFromDocument lists every host of doc with its ansible_host
func TargetsFromDocument(doc *inventory.Document) []Target {
	names := doc.HostNames()
	targets := make([]Target, 0, len(names))
	for _, name := range names {
		vars, _ := doc.HostVars(name)
		t := Target{Host: name}
		if vars.AnsibleHost != nil {
			t.Address = *vars.AnsibleHost
		}
		targets = append(targets, t)
	}
	return targets
}

// Option configures a Verifier
type Option func(*Verifier)

// WithSSH enables the SSH check on reachable hosts
func WithSSH(p SSHProber) Option {
	return func(v *Verifier) {
		v.ssh = p
	}
}

// WithWorkers bounds concurrent SSH checks
func WithWorkers(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.workers = n
		}
	}
}

// WithLogger sets the verifier logger
func WithLogger(l *logging.Logger) Option {
	return func(v *Verifier) {
		v.logger = l
	}
}

// Verifier runs the audit
type Verifier struct {
	scanner PortScanner
	ssh     SSHProber
	workers int
	logger  *logging.Logger
	now     func() time.Time
}

// New creates a verifier scanning with scanner
func New(scanner PortScanner, opts ...Option) *Verifier {
	v := &Verifier{
		scanner: scanner,
		workers: 8,
		logger:  logging.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks every target. Hosts without an address are reported as
// no-address and never scanned.
func (v *Verifier) Verify(ctx context.Context, targets []Target) (*Report, error) {
	report := &Report{StartedAt: v.now()}

	var addresses []string
	seen := make(map[string]struct{})
	for _, t := range targets {
		if t.Address == "" {
			continue
		}
		addr := normalizeAddr(t.Address)
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		addresses = append(addresses, addr)
	}

	open := map[string][]int{}
	if len(addresses) > 0 {
		v.logger.Infof("scanning %d addresses", len(addresses))
		var err error
		open, err = v.scanner.Scan(ctx, addresses)
		if err != nil {
			return nil, fmt.Errorf("port scan: %w", err)
		}
	}

	report.Results = make([]Result, len(targets))
	for i, t := range targets {
		r := Result{Host: t.Host, Address: t.Address}
		switch ports := open[normalizeAddr(t.Address)]; {
		case t.Address == "":
			r.Status = StatusNoAddress
		case len(ports) > 0:
			r.Status = StatusReachable
			r.OpenPorts = ports
		default:
			r.Status = StatusUnreachable
		}
		report.Results[i] = r
	}

	if v.ssh != nil {
		if err := v.probeSSH(ctx, report.Results); err != nil {
			return nil, err
		}
	}

	for _, r := range report.Results {
		switch r.Status {
		case StatusReachable:
			report.Reachable++
		case StatusUnreachable:
			report.Unreachable++
		case StatusNoAddress:
			report.NoAddress++
		}
	}
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Host < report.Results[j].Host
	})
	report.Duration = v.now().Sub(report.StartedAt)
	return report, nil
}

func (v *Verifier) probeSSH(ctx context.Context, results []Result) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)

	for i := range results {
		if results[i].Status != StatusReachable {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := v.ssh.Probe(gctx, results[i].Address)
			v.logger.Debugf("ssh %s: handshake=%v auth=%v %s", results[i].Host, res.Handshake, res.Authenticated, res.Error)
			results[i].SSH = &res
			return nil
		})
	}
	return g.Wait()
}

// normalizeAddr canonicalizes IP literals so lookups match nmap's output
func normalizeAddr(addr string) string {
	if ip := net.ParseIP(addr); ip != nil {
		return ip.String()
	}
	return addr
}
