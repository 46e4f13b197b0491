package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-financing/internal/config"
	"property-financing/internal/store"
)

func defaultsCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default scenarios as a YAML config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outPath == "" {
				return config.Write(cmd.OutOrStdout(), config.DefaultConfig())
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := config.Write(f, config.DefaultConfig()); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "Optional: write to this file instead of stdout")
	return cmd
}

// stateDSN turns --state-db/--dsn into a store DSN; --dsn wins.
func stateDSN(dbPath, dsn string) (string, error) {
	switch {
	case dsn != "":
		return dsn, nil
	case dbPath != "":
		return "sqlite://" + dbPath, nil
	default:
		return "", fmt.Errorf("--state-db or --dsn is required")
	}
}

func exportCommand(opts *rootOptions) *cobra.Command {
	var (
		dbPath   string
		dsn      string
		stateKey string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the persisted scenario state as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := stateDSN(dbPath, dsn)
			if err != nil {
				return err
			}
			kv, err := store.Open(cmd.Context(), target)
			if err != nil {
				return err
			}
			defer kv.Close()

			st := store.NewStateStore(kv, opts.log).WithKey(stateKey).Load(cmd.Context())
			now := time.Now()

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				if info, err := os.Stat(outPath); err == nil && info.IsDir() {
					outPath = filepath.Join(outPath, store.ExportFilename(now))
				}
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			p, err := store.Export(w, st, now)
			if err != nil {
				return err
			}
			opts.log.Debug("exported state", zap.String("export_id", p.ID), zap.Int("scenarios", len(p.Scenarios)))
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d scenarios to %s\n", len(p.Scenarios), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "state-db", "", "Path to the SQLite state database")
	cmd.Flags().StringVar(&dsn, "dsn", "", "State store DSN (memory://, sqlite://path, redis://host:port/db)")
	cmd.Flags().StringVar(&stateKey, "state-key", store.DefaultStateKey, "Key the state is stored under, for keeping several workspaces in one store")
	cmd.Flags().StringVar(&outPath, "out", "", "Optional: output file or directory (default: stdout)")
	return cmd
}

func importCommand(opts *rootOptions) *cobra.Command {
	var (
		dbPath   string
		dsn      string
		stateKey string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the persisted scenario state with an export, state or legacy JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := stateDSN(dbPath, dsn)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			kv, err := store.Open(cmd.Context(), target)
			if err != nil {
				return err
			}
			defer kv.Close()

			st, err := store.NewStateStore(kv, opts.log).WithKey(stateKey).Import(cmd.Context(), raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported scenarios %s\n", strings.Join(st.Keys(), ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "state-db", "", "Path to the SQLite state database")
	cmd.Flags().StringVar(&dsn, "dsn", "", "State store DSN (memory://, sqlite://path, redis://host:port/db)")
	cmd.Flags().StringVar(&stateKey, "state-key", store.DefaultStateKey, "Key the state is stored under, for keeping several workspaces in one store")
	return cmd
}
