// Package commands implements the d42-inventory command line.
//
// Without a subcommand the binary speaks Ansible's dynamic inventory
// protocol: --list prints the whole inventory and --host prints one host's
// variables.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"d42inventory/internal/codec"
	"d42inventory/internal/config"
	"d42inventory/internal/version"
)

// options are the flags shared by every command
type options struct {
	cfgFile string
	verbose bool
	v       *viper.Viper
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree
func NewRootCommand() *cobra.Command {
	opts := &options{v: config.NewViper()}

	var (
		list    bool
		host    string
		refresh bool
	)

	rootCmd := &cobra.Command{
		Use:   "d42-inventory",
		Short: "Ansible dynamic inventory backed by Device42",
		Long: `d42-inventory reads every device from the Device42 API and groups
the hosts by operating system, site and availability zone for Ansible.

Use it as an inventory script:
  ansible-inventory -i d42-inventory --list
  ansible-playbook -i d42-inventory site.yml`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list && host != "" {
				return errors.New("--list and --host are mutually exclusive")
			}
			a, err := opts.app(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			exp, err := codec.ForFormat(a.cfg.Output.Format, a.cfg.Output.Indent)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("host") {
				return runHost(cmd.Context(), a, exp, host, refresh, cmd.OutOrStdout())
			}
			return runList(cmd.Context(), a, exp, refresh, cmd.OutOrStdout())
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&list, "list", false, "print the full inventory (default)")
	flags.StringVar(&host, "host", "", "print the variables of one host")
	flags.BoolVar(&refresh, "refresh", false, "ignore the cache and query Device42")

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&opts.cfgFile, "config", "", "config file (default: search "+config.ConfigFileName+" and XDG paths)")
	pflags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	pflags.String("format", "", "output format: json, yaml or ansible-yaml")
	pflags.Int("workers", 0, "normalize records on this many goroutines")
	pflags.String("from-file", "", "read devices from a saved API response instead of Device42")

	// These should never fail as flags are defined above
	_ = opts.v.BindPFlag(config.KeyOutputFormat, pflags.Lookup("format"))
	_ = opts.v.BindPFlag(config.KeyWorkers, pflags.Lookup("workers"))
	_ = opts.v.BindPFlag(config.KeyDevicesFile, pflags.Lookup("from-file"))

	rootCmd.AddCommand(newVerifyCommand(opts))
	rootCmd.AddCommand(newCacheCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)
	return rootCmd
}

// readConfig reads the config file and applies env and flag overrides.
// The returned path is empty when only defaults are in effect.
func (o *options) readConfig() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if o.cfgFile != "" {
		cfg, path, err = config.LoadFromPath(o.cfgFile)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	cfg.ApplyOverrides(o.v)
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, path, nil
}

// loadConfig is readConfig plus validation
func (o *options) loadConfig() (*config.Config, error) {
	cfg, _, err := o.readConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *options) app(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(cfg, cmd.ErrOrStderr())
}

func runList(ctx context.Context, a *app, exp codec.Exporter, refresh bool, w io.Writer) error {
	res, err := a.svc.Inventory(ctx, refresh)
	if err != nil {
		return err
	}
	if res.Cached {
		a.logger.Debugf("inventory served from cache")
	}
	return exp.Export(res.Document, w)
}

func runHost(ctx context.Context, a *app, exp codec.Exporter, host string, refresh bool, w io.Writer) error {
	vars, err := a.svc.HostVars(ctx, host, refresh)
	if err != nil {
		return err
	}
	if vars == nil {
		a.logger.Debugf("host %q not in inventory", host)
	}
	return exp.ExportHost(vars, w)
}
