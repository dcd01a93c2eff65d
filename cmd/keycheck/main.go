package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/keycheck/internal/config"
	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/providerinfo"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
	"github.com/janekbaraniewski/keycheck/internal/version"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Level:           log.WarnLevel,
	})
	if os.Getenv("KEYCHECK_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	var verbose bool
	root := cobra.Command{
		Use:   "keycheck",
		Short: "keycheck validates AI provider API keys and reports account and quota metadata.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCheckCommand(cfg, logger),
		newBulkCommand(cfg, logger),
		newHistoryCommand(cfg, logger),
		newProvidersCommand(cfg, logger),
		newVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// adapterOptions translates config into per-adapter construction options.
func adapterOptions(cfg config.Config, logger *log.Logger) ([]shared.Option, map[core.Provider][]shared.Option) {
	common := []shared.Option{
		shared.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		}),
		shared.WithLogger(logger),
	}

	perProvider := make(map[core.Provider][]shared.Option)
	for name, u := range cfg.BaseURLs {
		p, ok := core.ParseProvider(name)
		if !ok {
			logger.Warn("ignoring base URL override for unknown provider", "provider", name)
			continue
		}
		perProvider[p] = append(perProvider[p], shared.WithBaseURL(u))
	}
	return common, perProvider
}

// loadCatalog builds the provider reference catalog, with overrides applied
// when configured.
func loadCatalog(cfg config.Config, logger *log.Logger) *providerinfo.Catalog {
	catalog := providerinfo.Builtin()
	if cfg.ProviderInfoPath != "" {
		if err := catalog.ApplyOverrides(cfg.ProviderInfoPath); err != nil {
			logger.Warn("provider info overrides not applied", "err", err)
		}
	}
	return catalog
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "keycheck "+version.String())
		},
	}
}
