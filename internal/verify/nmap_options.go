package verify

import (
	"time"

	"d42inventory/internal/logging"
)

// NmapOption is a functional option for configuring NmapScanner
type NmapOption func(*NmapScanner)

// WithScanTimeout sets the timeout for the entire nmap scan
func WithScanTimeout(d time.Duration) NmapOption {
	return func(s *NmapScanner) {
		s.timeout = d
	}
}

// WithSkipHostDiscovery sets whether to skip ping and treat all hosts as online (-Pn)
func WithSkipHostDiscovery(skip bool) NmapOption {
	return func(s *NmapScanner) {
		s.skipHostDiscovery = skip
	}
}

// WithScanLogger sets the scanner logger
func WithScanLogger(l *logging.Logger) NmapOption {
	return func(s *NmapScanner) {
		s.logger = l
	}
}
