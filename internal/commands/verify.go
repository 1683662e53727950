package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"d42inventory/internal/config"
	"d42inventory/internal/verify"
)

func newVerifyCommand(opts *options) *cobra.Command {
	var (
		refresh bool
		asJSON  bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every host's ansible_host answers on its management ports",
		Long: `Scan the ansible_host of every inventoried host with nmap and report
which hosts are reachable. Hosts without a management address are listed as
no-address. With --ssh each reachable host is also checked for an SSH
handshake and login.

Examples:
  d42-inventory verify
  d42-inventory verify --ports 22,830 --ssh
  d42-inventory verify --json --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.app(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			res, err := a.svc.Inventory(ctx, refresh)
			if err != nil {
				return err
			}

			vcfg := a.cfg.Verify
			scanner, err := verify.NewNmapScanner(vcfg.Ports,
				verify.WithScanTimeout(vcfg.Timeout.Duration()),
				verify.WithSkipHostDiscovery(vcfg.SkipHostDiscovery),
				verify.WithScanLogger(a.logger),
			)
			if err != nil {
				return fmt.Errorf("verify.ports: %w", err)
			}
			if !scanner.Available(ctx) {
				return errors.New("nmap binary not found in PATH")
			}

			vopts := []verify.Option{verify.WithLogger(a.logger), verify.WithWorkers(a.cfg.Workers)}
			if vcfg.SSH.Enabled {
				checker, err := verify.NewSSHChecker(verify.SSHOptions{
					Port:     vcfg.SSH.Port,
					Username: vcfg.SSH.Username,
					Password: vcfg.SSH.Password,
					KeyPath:  vcfg.SSH.KeyPath,
					Timeout:  vcfg.Timeout.Duration(),
				})
				if err != nil {
					return err
				}
				vopts = append(vopts, verify.WithSSH(checker))
			}

			report, err := verify.New(scanner, vopts...).Verify(ctx, verify.TargetsFromDocument(res.Document))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else if err := printReport(out, report); err != nil {
				return err
			}

			if strict && report.Unreachable+report.NoAddress > 0 {
				return fmt.Errorf("%d hosts unreachable, %d without address", report.Unreachable, report.NoAddress)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&refresh, "refresh", false, "ignore the cache and query Device42")
	flags.BoolVar(&asJSON, "json", false, "print the report as JSON")
	flags.BoolVar(&strict, "strict", false, "exit non-zero when any host is not reachable")
	flags.String("ports", "", "ports to scan (default 22)")
	flags.Bool("ssh", false, "also check SSH handshake and login")

	_ = opts.v.BindPFlag(config.KeyVerifyPorts, flags.Lookup("ports"))
	_ = opts.v.BindPFlag(config.KeySSHEnabled, flags.Lookup("ssh"))

	return cmd
}

func printReport(w io.Writer, report *verify.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOST\tADDRESS\tSTATUS\tOPEN PORTS\tSSH")
	for _, r := range report.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Host, dash(r.Address), r.Status, joinPorts(r.OpenPorts), sshSummary(r.SSH))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d reachable, %d unreachable, %d without address (%s)\n",
		report.Reachable, report.Unreachable, report.NoAddress, report.Duration.Round(time.Millisecond))
	return err
}

func joinPorts(ports []int) string {
	if len(ports) == 0 {
		return "-"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ",")
}

func sshSummary(r *verify.SSHResult) string {
	switch {
	case r == nil:
		return "-"
	case r.Authenticated:
		return "login ok"
	case r.Handshake:
		return "handshake only"
	default:
		return "failed"
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
