package main

import (
	"encoding/json"
	"fmt"
	"io"

	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/spf13/cobra"
)

// newRootCmd assembles the reconcilectl command tree around open.
func newRootCmd(open serviceOpener) *cobra.Command {
	var asJSON bool

	rootCmd := &cobra.Command{
		Use:   "reconcilectl",
		Short: "Run transfer reconciliation against the configured transaction store",
		Long: `reconcilectl detects internal transfers between household transactions,
records inclusion overrides and reports totals. It reads the same
environment configuration as the API server (STORE_BACKEND, PGSQL_URL, ...).`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print machine readable JSON")

	// run opens the services, hands them to fn and releases the store afterwards.
	run := func(fn func(cmd *cobra.Command, args []string, svc *portssvc.ServiceContainer, asJSON bool) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			return fn(cmd, args, svc, asJSON)
		}
	}

	rootCmd.AddCommand(
		newReconcileCmd(run),
		newDetectCmd(run),
		newOverrideCmd(run),
		newTotalsCmd(run),
		newListCmd(run),
		newImportCmd(run),
		newTokenCmd(),
		newSecretCmd(),
	)
	return rootCmd
}

type runFunc func(fn func(cmd *cobra.Command, args []string, svc *portssvc.ServiceContainer, asJSON bool) error) func(*cobra.Command, []string) error

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
