package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"voterroll/pkg/config"
	"voterroll/pkg/logger"
	"voterroll/pkg/schema"
	"voterroll/pkg/session"
	"voterroll/pkg/store"
)

type rootOptions struct {
	cfg     config.Config
	store   string
	dataDir string
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:          "voterctl",
		Short:        "Maintain the electoral roll and its cancellation ledger",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if opts.store != "" {
				cfg.Store = opts.store
			}
			if opts.dataDir != "" {
				cfg.DataDir = opts.dataDir
				if os.Getenv("VOTERROLL_SQLITE_PATH") == "" {
					cfg.SQLitePath = filepath.Join(opts.dataDir, "voterroll.db")
				}
			}
			if opts.verbose {
				cfg.LogLevel = slog.LevelDebug
			}
			opts.cfg = cfg
			return cfg.Validate()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "Snapshot backend: memory, file, sqlite or redis (default from VOTERROLL_STORE)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Data directory for the file backend (default from VOTERROLL_DATA_DIR)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newImportCmd(&opts),
		newCancelCmd(&opts),
		newConfirmCmd(&opts),
		newRestoreCmd(&opts),
		newRestoreAllCmd(&opts),
		newListCmd(&opts),
		newLedgerCmd(&opts),
		newReconcileCmd(&opts),
		newStatsCmd(&opts),
		newRollupCmd(&opts),
		newClearCmd(&opts),
	)
	return cmd
}

// withSession opens the configured store, runs fn on a session and closes
// the store.
func withSession(ctx context.Context, opts *rootOptions, fn func(*session.Session) error) (err error) {
	log := logger.New(opts.cfg.LogLevel, nil)

	st, err := store.Open(ctx, opts.cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		err = errors.Join(err, st.Close())
	}()

	sessOpts := []session.Option{session.WithLogger(log)}
	if opts.cfg.MinSimilarity > 0 {
		sessOpts = append(sessOpts, session.WithMapOptions(schema.WithMinSimilarity(opts.cfg.MinSimilarity)))
	}

	sess, err := session.New(ctx, st, sessOpts...)
	if err != nil {
		return err
	}
	return fn(sess)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
