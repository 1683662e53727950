package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newCacheCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the inventory cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List cached inventory snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.app(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			snaps, err := a.svc.Snapshots(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintln(out, "no cached snapshots")
				return nil
			}

			now := time.Now()
			ttl := a.cfg.Cache.TTL.Duration()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tAGE\tDEVICES\tHOSTS\tSKIPPED\tFRESH")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
					s.ID,
					s.CreatedAt.Local().Format(time.RFC3339),
					s.Age(now).Round(time.Second),
					s.DeviceCount,
					s.HostCount,
					len(s.Skipped),
					s.Fresh(now, ttl),
				)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.app(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			removed, err := a.svc.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d snapshots\n", removed)
			return nil
		},
	})

	return cmd
}
