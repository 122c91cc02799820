package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"voterroll/pkg/engine"
	"voterroll/pkg/report"
	"voterroll/pkg/schema"
	"voterroll/pkg/session"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a registry spreadsheet, replacing the current hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				res, err := sess.LoadRegistry(cmd.Context(), f, filepath.Base(args[0]))
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newCancelCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel FILE",
		Short: "Add the rows of a cancellation spreadsheet to the pending list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				res, err := sess.ImportCancellations(cmd.Context(), f, filepath.Base(args[0]))
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newConfirmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm",
		Short: "Remove every pending cancellation from the hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				res, err := sess.ConfirmAll(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	var entry schema.Voter

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Undo the cancellation of one ledger entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				res, err := sess.Restore(cmd.Context(), entry)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&entry.NationalID, "cin", "", "National identity card number")
	cmd.Flags().StringVar(&entry.SerialNumber, "serial", "", "Serial number on the station list")
	cmd.Flags().StringVar(&entry.PollingStationName, "station", "", "Polling station name or number")
	cmd.Flags().StringVar(&entry.RegistrationNumber, "reg", "", "Registration number")
	_ = cmd.MarkFlagRequired("station")

	return cmd
}

func newRestoreAllCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-all",
		Short: "Undo every confirmed cancellation and drop the pending list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				res, err := sess.RestoreAll(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var path engine.Path

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List voters under a region, commune, district or station",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				return writeJSON(cmd.OutOrStdout(), engine.Filter(sess.State().Hierarchy, path))
			})
		},
	}

	cmd.Flags().StringVar(&path.Region, "region", "", "Region name")
	cmd.Flags().StringVar(&path.Commune, "commune", "", "Commune name")
	cmd.Flags().StringVar(&path.District, "district", "", "District name")
	cmd.Flags().StringVar(&path.Station, "station", "", "Polling station name or number")

	return cmd
}

func newLedgerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Show pending and confirmed cancellations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				return writeJSON(cmd.OutOrStdout(), report.LedgerView(sess.State()))
			})
		},
	}
}

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Preview which pending cancellations match a registered voter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				return writeJSON(cmd.OutOrStdout(), engine.Reconcile(sess.State()))
			})
		},
	}
}

type statsOutput struct {
	Gender report.GenderReport   `json:"gender"`
	Ages   []report.AgeGroupCount `json:"ages"`
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var region, commune string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Gender and age breakdown of a commune",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				h := sess.State().Hierarchy
				voters := engine.Filter(h, engine.Path{Region: region, Commune: commune})
				return writeJSON(cmd.OutOrStdout(), statsOutput{
					Gender: report.DistrictGender(h, region, commune),
					Ages:   report.AgeDistribution(voters, time.Now()),
				})
			})
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "Region name (default any)")
	cmd.Flags().StringVar(&commune, "commune", "", "Commune name (required)")
	_ = cmd.MarkFlagRequired("commune")

	return cmd
}

func newRollupCmd(opts *rootOptions) *cobra.Command {
	var commune, station string

	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "Per-district voter lists of a commune sorted by serial number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				listings, err := report.DistrictRollup(sess.State().Hierarchy, commune, station)
				if err != nil {
					return fmt.Errorf("rollup %q: %w", commune, err)
				}
				return writeJSON(cmd.OutOrStdout(), listings)
			})
		},
	}

	cmd.Flags().StringVar(&commune, "commune", "", "Commune name (required)")
	cmd.Flags().StringVar(&station, "station", "", "Limit to one polling station")
	_ = cmd.MarkFlagRequired("commune")

	return cmd
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop the hierarchy and both cancellation lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(sess *session.Session) error {
				if err := sess.Clear(cmd.Context()); err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]uint64{"version": sess.Version()})
			})
		},
	}
}
