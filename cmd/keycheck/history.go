package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/keycheck/internal/config"
	"github.com/janekbaraniewski/keycheck/internal/history"
)

func newHistoryCommand(cfg config.Config, logger *log.Logger) *cobra.Command {
	var (
		limit  int
		forKey string
		clear  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past validation outcomes",
		Long: "Show the local validation log. Only fingerprints and redacted hints are " +
			"stored; the log never contains a full key.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := history.Open(cfg.ResolveHistoryPath(), logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if clear {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			}

			var records []history.Record
			if forKey != "" {
				records, err = store.ForFingerprint(cmd.Context(), fingerprintOf(forKey))
			} else {
				records, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No validation history yet."))
				return nil
			}
			for _, rec := range records {
				fmt.Fprintln(cmd.OutOrStdout(), renderRecord(rec))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum records to show")
	cmd.Flags().StringVar(&forKey, "for-key", "", "show only records for this key")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete all history records")
	return cmd
}

// fingerprintOf mirrors the fingerprint stored with each record so a raw key
// can be looked up without persisting it.
func fingerprintOf(secret string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(secret)))
	return hex.EncodeToString(sum[:])
}
