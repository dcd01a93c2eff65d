package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/keycheck/internal/config"
	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/providerinfo"
	"github.com/janekbaraniewski/keycheck/internal/validators"
)

func newProvidersCommand(cfg config.Config, logger *log.Logger) *cobra.Command {
	var (
		jsonOut bool
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "providers [name]",
		Short: "List known providers and their reference details",
		Long: "List every provider keycheck can recognize, or show the full reference " +
			"entry for one provider. Providers with a live validator are marked.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := loadCatalog(cfg, logger)

			if watch && cfg.ProviderInfoPath != "" {
				ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer cancel()
				go func() {
					if err := catalog.Watch(ctx, cfg.ProviderInfoPath, logger); err != nil {
						logger.Warn("catalog watch stopped", "err", err)
					}
				}()
			}

			if len(args) == 1 {
				return showProvider(cmd, catalog, args[0], jsonOut)
			}
			return listProviders(cmd, catalog, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the catalog as JSON")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the overrides file while listing")
	return cmd
}

func showProvider(cmd *cobra.Command, catalog *providerinfo.Catalog, name string, jsonOut bool) error {
	p, ok := core.ParseProvider(name)
	if !ok {
		return fmt.Errorf("unknown provider %q", name)
	}
	info, ok := catalog.Get(p)
	if !ok {
		return fmt.Errorf("no reference entry for %s", p.DisplayName())
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderInfo(p, info))
	return nil
}

func listProviders(cmd *cobra.Command, catalog *providerinfo.Catalog, jsonOut bool) error {
	if jsonOut {
		out := make(map[string]providerinfo.Info)
		for _, p := range catalog.Providers() {
			if info, ok := catalog.Get(p); ok {
				out[string(p)] = info
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	live := lo.SliceToMap(validators.Supported(), func(p core.Provider) (core.Provider, bool) {
		return p, true
	})

	for _, p := range catalog.Providers() {
		info, ok := catalog.Get(p)
		if !ok {
			continue
		}
		badge := dimStyle.Render("detect only")
		if live[p] {
			badge = validStyle.Render("validator")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
			titleStyle.Render(info.Name),
			dimStyle.Render(string(p)),
			badge,
		)
		if info.KeyFormat != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s%s\n",
				labelStyle.Render("key format: "), valueStyle.Render(info.KeyFormat))
		}
	}
	return nil
}
