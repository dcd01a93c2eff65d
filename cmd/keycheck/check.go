package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/keycheck/internal/config"
	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/detect"
	"github.com/janekbaraniewski/keycheck/internal/history"
	"github.com/janekbaraniewski/keycheck/internal/validators"
)

func newCheckCommand(cfg config.Config, logger *log.Logger) *cobra.Command {
	var (
		providerName string
		jsonOut      bool
		noHistory    bool
	)

	cmd := &cobra.Command{
		Use:   "check <key>",
		Short: "Validate a single API key",
		Long: "Validate a single API key against its provider's live API. The provider " +
			"is inferred from the key's shape unless --provider overrides it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(args[0])
			if raw == "" {
				return fmt.Errorf("key must not be empty")
			}

			provider, err := resolveProvider(providerName, raw)
			if err != nil {
				return err
			}

			key, err := core.New(provider, raw)
			if err != nil {
				return err
			}

			common, perProvider := adapterOptions(cfg, logger)
			opts := append(common, perProvider[provider]...)
			v, ok := validators.ForProvider(provider, opts...)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(),
					"No validator available for %s; detection only.\n", provider.DisplayName())
				return nil
			}

			key = v.Validate(cmd.Context(), key)
			rep := v.FormatResults(key)
			loadCatalog(cfg, logger).Enrich(&rep, provider)

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderReport(rep))
			}

			if !noHistory {
				appendHistory(cmd, cfg, logger, key, rep)
			}

			if rep.Validity != core.Valid {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "provider name, overrides detection")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "skip the history log")
	return cmd
}

// resolveProvider applies the explicit override, falling back to detection.
func resolveProvider(providerName, raw string) (core.Provider, error) {
	if providerName != "" {
		p, ok := core.ParseProvider(providerName)
		if !ok {
			return core.ProviderUnknown, fmt.Errorf("unknown provider %q", providerName)
		}
		return p, nil
	}

	p := detect.Provider(raw)
	if p == core.ProviderUnknown {
		return core.ProviderUnknown, fmt.Errorf(
			"could not detect the provider from the key's shape; pass --provider explicitly")
	}
	return p, nil
}

func appendHistory(cmd *cobra.Command, cfg config.Config, logger *log.Logger, key *core.Key, rep core.Report) {
	store, err := history.Open(cfg.ResolveHistoryPath(), logger)
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	if err := store.Append(cmd.Context(), history.RecordOf(key, rep)); err != nil {
		logger.Warn("history append failed", "err", err)
	}
}
