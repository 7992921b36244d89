package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Krishna8167/keyorder"
	"github.com/Krishna8167/keyorder/internal/config"
)

// app holds the state shared by every subcommand once flags are parsed.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
	pool    *keyorder.Pool
	syms    *keyorder.SymbolTable
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "keyorder",
		Short: "Track, collapse and prune dictionary key orders",
		Long: `keyorder works with recorded dictionary key observations.

Observation files are YAML or JSON lists of {keys: [...], count: n} records.
Every flag can also be set in keyorder.yaml or via KEYORDER_* variables.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.pool != nil {
				a.pool.Stop()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./keyorder.{yaml,toml,json})")
	flags.Int("max-struct-keys", keyorder.DefaultMaxStructKeys, "largest key count a struct layout can hold")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	_ = a.v.BindPFlag("max_struct_keys", flags.Lookup("max-struct-keys"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))

	root.AddCommand(
		a.makeCmd(),
		a.collectCmd(),
		a.pruneCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.NewLogger(cmd.ErrOrStderr())
	a.pool = keyorder.New(cfg.PoolOptions(a.log)...)
	a.syms = keyorder.NewSymbolTable()
	a.log.Debug("configured", "max_struct_keys", cfg.MaxStructKeys, "cutoff", cfg.Cutoff)
	return nil
}
