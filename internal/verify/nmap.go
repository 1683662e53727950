package verify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"d42inventory/internal/logging"
)

// NmapScanner checks management ports with nmap
type NmapScanner struct {
	portRange         string
	timeout           time.Duration
	skipHostDiscovery bool
	logger            *logging.Logger
}

// NewNmapScanner creates a scanner for ports ("22", "22,443", "22-23,830")
func NewNmapScanner(ports string, opts ...NmapOption) (*NmapScanner, error) {
	validated, err := parsePorts(ports)
	if err != nil {
		return nil, err
	}

	s := &NmapScanner{
		portRange: validated,
		timeout:   5 * time.Minute,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Available reports whether the nmap binary can be run
func (s *NmapScanner) Available(ctx context.Context) bool {
	scanner, err := nmap.NewScanner(
		ctx,
		nmap.WithTargets("localhost"),
		nmap.WithListScan(),
	)
	if err != nil {
		return false
	}

	_, _, err = scanner.Run()
	return err == nil
}

// Scan runs one nmap scan over all addresses
func (s *NmapScanner) Scan(ctx context.Context, addresses []string) (map[string][]int, error) {
	if len(addresses) == 0 {
		return map[string][]int{}, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	opts := []nmap.Option{
		nmap.WithTargets(addresses...),
		nmap.WithPorts(s.portRange),
	}
	// Skip ping for management networks that drop ICMP
	if s.skipHostDiscovery {
		opts = append(opts, nmap.WithSkipHostDiscovery())
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	s.logger.Debugf("nmap: scanning %d targets on ports %s", len(addresses), s.portRange)
	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		s.logger.Warnf("nmap: %v", *warnings)
	}

	return processResults(result)
}

// processResults maps every host that is up to its open ports
func processResults(result *nmap.Run) (map[string][]int, error) {
	if result == nil {
		return nil, fmt.Errorf("nil scan result")
	}

	open := make(map[string][]int)
	for _, host := range result.Hosts {
		if len(host.Addresses) == 0 || host.Status.State != "up" {
			continue
		}

		ports := openPorts(host.Ports)
		for _, addr := range host.Addresses {
			if addr.AddrType == "mac" {
				continue
			}
			open[normalizeAddr(addr.Addr)] = ports
		}
	}
	return open, nil
}

// openPorts extracts list of open port numbers
func openPorts(ports []nmap.Port) []int {
	var out []int
	for _, port := range ports {
		if port.State.State == "open" {
			out = append(out, int(port.ID))
		}
	}
	return out
}

// parsePorts validates a port list in nmap format
func parsePorts(portRange string) (string, error) {
	portRange = strings.TrimSpace(portRange)
	if portRange == "" {
		return "", fmt.Errorf("empty port list")
	}

	// Supported: "80,443,8080" or "1-1000" or "22,80-443,8080"
	parts := strings.Split(portRange, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return "", fmt.Errorf("invalid port range: %s", part)
			}
			start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
			if err != nil || start < 1 || start > 65535 {
				return "", fmt.Errorf("invalid port number: %s", rangeParts[0])
			}
			end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
			if err != nil || end < 1 || end > 65535 || end < start {
				return "", fmt.Errorf("invalid port number: %s", rangeParts[1])
			}
			cleaned = append(cleaned, fmt.Sprintf("%d-%d", start, end))
		} else {
			port, err := strconv.Atoi(part)
			if err != nil || port < 1 || port > 65535 {
				return "", fmt.Errorf("invalid port number: %s", part)
			}
			cleaned = append(cleaned, strconv.Itoa(port))
		}
	}
	return strings.Join(cleaned, ","), nil
}
