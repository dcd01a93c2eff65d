package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/keycheck/internal/config"
	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/csvio"
	"github.com/janekbaraniewski/keycheck/internal/detect"
	"github.com/janekbaraniewski/keycheck/internal/history"
	"github.com/janekbaraniewski/keycheck/internal/validators"
)

func newBulkCommand(cfg config.Config, logger *log.Logger) *cobra.Command {
	var (
		concurrency int
		outPath     string
		jsonOut     bool
		noHistory   bool
		plain       bool
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "bulk <keys.csv>",
		Short: "Validate a batch of API keys from a CSV file",
		Long: "Validate every key in a CSV file concurrently. One-column files hold bare " +
			"keys; two-column files hold (provider, key) pairs. A recognized header row " +
			"is skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			run := func(ctx context.Context) error {
				entries, err := csvio.ReadEntriesFile(path)
				if err != nil {
					return err
				}

				reports, err := runBatch(ctx, cmd, cfg, logger, entries, concurrency, plain || jsonOut, jsonOut)
				if err != nil {
					return err
				}

				if jsonOut {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					if err := enc.Encode(reports); err != nil {
						return err
					}
				}
				if outPath != "" {
					if err := csvio.WriteReportsFile(outPath, reports); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d reports to %s\n", len(reports), outPath)
				}
				if !noHistory {
					appendBatchHistory(ctx, cfg, logger, entries, reports)
				}
				return nil
			}

			if !watch {
				return run(cmd.Context())
			}
			return watchAndRun(cmd, logger, path, run)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", cfg.Concurrency, "maximum in-flight validations")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write reports to a CSV file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the reports as JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "skip the history log")
	cmd.Flags().BoolVar(&plain, "plain", false, "line-per-result output instead of the progress view")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run the batch whenever the file changes")
	return cmd
}

// runBatch validates entries under either the progress view or plain output.
// quiet suppresses the per-result lines and summary so JSON output stays
// parseable.
func runBatch(ctx context.Context, cmd *cobra.Command, cfg config.Config, logger *log.Logger,
	entries []core.Entry, concurrency int, plain, quiet bool,
) ([]core.Report, error) {
	common, perProvider := adapterOptions(cfg, logger)
	factory := validators.FactoryWith(common, perProvider)

	if plain {
		opts := []core.RunnerOption{
			core.WithConcurrency(concurrency),
			core.WithRunnerLogger(logger),
		}
		if !quiet {
			opts = append(opts, core.WithResultFunc(func(_ int, rep core.Report) {
				fmt.Fprintln(cmd.OutOrStdout(), renderResultLine(rep))
			}))
		}
		runner := core.NewRunner(factory, detect.Provider, opts...)
		reports := runner.ValidateAll(ctx, entries)
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), renderBatchSummary(reports))
		}
		return reports, nil
	}

	program := tea.NewProgram(newBulkModel(len(entries)), tea.WithOutput(cmd.OutOrStdout()))

	runner := core.NewRunner(factory, detect.Provider,
		core.WithConcurrency(concurrency),
		core.WithRunnerLogger(logger),
		core.WithResultFunc(func(index int, rep core.Report) {
			program.Send(resultMsg{index: index, report: rep})
		}),
	)

	go func() {
		reports := runner.ValidateAll(ctx, entries)
		program.Send(batchDoneMsg{reports: reports})
	}()

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}

	model, ok := final.(bulkModel)
	if !ok || model.reports == nil {
		return nil, fmt.Errorf("batch interrupted before completion")
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderBatchSummary(model.reports))
	return model.reports, nil
}

// appendBatchHistory logs one record per entry whose provider could be
// resolved. Entries that never produced a key are skipped.
func appendBatchHistory(ctx context.Context, cfg config.Config, logger *log.Logger,
	entries []core.Entry, reports []core.Report,
) {
	store, err := history.Open(cfg.ResolveHistoryPath(), logger)
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	for i, entry := range entries {
		provider, ok := resolveEntryProvider(entry)
		if !ok {
			continue
		}
		key, err := core.New(provider, entry.Secret)
		if err != nil {
			continue
		}
		if err := store.Append(ctx, history.RecordOf(key, reports[i])); err != nil {
			logger.Warn("history append failed", "err", err)
			return
		}
	}
}

func resolveEntryProvider(entry core.Entry) (core.Provider, bool) {
	if entry.ProviderName != "" {
		return core.ParseProvider(entry.ProviderName)
	}
	p := detect.Provider(entry.Secret)
	return p, p != core.ProviderUnknown
}

// watchAndRun runs the batch once, then again on every change to path until
// interrupted.
func watchAndRun(cmd *cobra.Command, logger *log.Logger, path string, run func(context.Context) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		logger.Error("batch failed", "err", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes. Ctrl-C to stop.\n", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("input changed, re-running batch", "event", event.Op)
			if err := run(ctx); err != nil {
				logger.Error("batch failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
