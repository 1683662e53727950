// Command d42-inventory is an Ansible dynamic inventory script for Device42.
//
// Usage:
//
//	# Full inventory, as called by Ansible
//	d42-inventory --list
//
//	# Variables of one host
//	d42-inventory --host sw01
//
//	# Management-plane reachability audit
//	d42-inventory verify --ssh
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"d42inventory/internal/commands"
	"d42inventory/internal/version"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	version.GitCommit = GitCommit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
