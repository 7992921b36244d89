package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Krishna8167/keyorder"
	"github.com/Krishna8167/keyorder/internal/observe"
)

func (a *app) makeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make KEY...",
		Short: "Intern a key order and print it",
		Long: `Intern the given keys, in order, as one key order.

Orders longer than --max-struct-keys are trimmed and end with "...".
Each key may appear only once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seen := make(map[string]struct{}, len(args))
			for _, arg := range args {
				if _, dup := seen[arg]; dup {
					return fmt.Errorf("duplicate key %q", arg)
				}
				seen[arg] = struct{}{}
			}
			o := a.pool.Make(a.syms.InternAll(args...))
			fmt.Fprintln(cmd.OutOrStdout(), o)
			return nil
		},
	}
}

func (a *app) collectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect FILE...",
		Short: "Collapse observation files into one sorted key order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := observe.LoadFiles(cmd.Context(), a.pool, a.syms, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.pool.Collect(m))
			return nil
		},
	}
}

func (a *app) pruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune FILE...",
		Short: "Prune observation files down to one key order",
		Long: `Merge the observation files and greedily ban the rarest keys until one
key order covers at least --cutoff of all observations.

Examples:
  keyorder prune obs.yaml                 # default cutoff
  keyorder prune --cutoff 0.85 a.yaml b.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := observe.LoadFiles(cmd.Context(), a.pool, a.syms, args)
			if err != nil {
				return err
			}
			res := a.pool.PruneDetailed(m, a.cfg.Cutoff)
			writePruneResult(cmd, res)

			s := a.pool.Stats()
			a.log.Debug("pool stats", "entries", s.Entries, "hits", s.Hits, "misses", s.Misses)
			return nil
		},
	}
	cmd.Flags().Float64("cutoff", 0.9, "fraction of observations the result must cover, in (0, 1]")
	_ = a.v.BindPFlag("cutoff", cmd.Flags().Lookup("cutoff"))
	return cmd
}

func writePruneResult(cmd *cobra.Command, res keyorder.PruneResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "order: %s\n", res.Order)
	fmt.Fprintf(out, "total: %d\n", res.Total)
	fmt.Fprintf(out, "accepted: %d (%.1f%%)\n", res.Accepted, res.Coverage()*100)
	banned := make([]string, len(res.Banned))
	for i, k := range res.Banned {
		banned[i] = k.String()
	}
	fmt.Fprintf(out, "banned: [%s]\n", strings.Join(banned, ","))
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(a.cfg)
		},
	}
}
