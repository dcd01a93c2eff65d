package core

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Entry is one row of a bulk validation batch. A blank ProviderName means
// "run the detector first".
type Entry struct {
	ProviderName string
	Secret       string
}

// Factory resolves a provider tag to a fresh adapter. It mirrors a map
// lookup: the second result is false when no adapter exists for the tag.
type Factory func(p Provider) (Validator, bool)

// Detector infers a provider tag from the lexical shape of a credential.
type Detector func(raw string) Provider

// Runner fans a batch of entries out over goroutines, capped by a semaphore.
// Adapters are stateless and constructed fresh per entry, so entries never
// share mutable state; results may complete in any order.
type Runner struct {
	factory  Factory
	detect   Detector
	limit    int
	logger   *log.Logger
	onResult func(index int, rep Report)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency caps the number of in-flight validations.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithRunnerLogger injects the logger used for per-entry progress.
func WithRunnerLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithResultFunc registers a callback fired as each entry finishes. It is
// invoked from worker goroutines and must be safe for concurrent use.
func WithResultFunc(fn func(index int, rep Report)) RunnerOption {
	return func(r *Runner) { r.onResult = fn }
}

const defaultConcurrency = 5

// NewRunner builds a bulk validation runner.
func NewRunner(factory Factory, detect Detector, opts ...RunnerOption) *Runner {
	r := &Runner{
		factory: factory,
		detect:  detect,
		limit:   defaultConcurrency,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ValidateAll validates every entry and returns one report per entry, in
// input order. Cancelling ctx stops launching new probes; probes already in
// flight finish under their own request timeouts.
func (r *Runner) ValidateAll(ctx context.Context, entries []Entry) []Report {
	reports := make([]Report, len(entries))
	sem := make(chan struct{}, r.limit)

	var wg sync.WaitGroup
	for i, entry := range entries {
		select {
		case <-ctx.Done():
			for j := i; j < len(entries); j++ {
				reports[j] = r.finish(j, Report{
					Provider: ProviderUnknown.DisplayName(),
					Message:  "validation cancelled before start",
				})
			}
			wg.Wait()
			return reports
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, entry Entry) {
			defer wg.Done()
			defer func() { <-sem }()
			reports[i] = r.finish(i, r.validateOne(ctx, entry))
		}(i, entry)
	}

	wg.Wait()
	return reports
}

func (r *Runner) finish(i int, rep Report) Report {
	if r.onResult != nil {
		r.onResult(i, rep)
	}
	return rep
}

// ValidateOne resolves, validates, and formats a single entry.
func (r *Runner) ValidateOne(ctx context.Context, entry Entry) Report {
	return r.validateOne(ctx, entry)
}

func (r *Runner) validateOne(ctx context.Context, entry Entry) Report {
	provider, rep, ok := r.resolve(entry)
	if !ok {
		return rep
	}

	key, err := New(provider, entry.Secret)
	if err != nil {
		return Report{
			Provider: provider.DisplayName(),
			Message:  err.Error(),
		}
	}

	v, ok := r.factory(provider)
	if !ok {
		rep := BaseReport(provider, key)
		rep.Message = "no validator available for " + provider.DisplayName() +
			"; detection only"
		return rep
	}

	r.logger.Debug("validating key", "provider", provider, "key", key.Hint())
	key = v.Validate(ctx, key)
	return v.FormatResults(key)
}

// resolve picks the provider for an entry: explicit name wins, otherwise the
// detector runs. The bool result is false when the report is already final.
func (r *Runner) resolve(entry Entry) (Provider, Report, bool) {
	if entry.ProviderName != "" {
		p, ok := ParseProvider(entry.ProviderName)
		if !ok {
			return ProviderUnknown, Report{
				Provider: ProviderUnknown.DisplayName(),
				Message:  "unknown provider name " + entry.ProviderName,
			}, false
		}
		return p, Report{}, true
	}

	p := r.detect(entry.Secret)
	if p == ProviderUnknown {
		return ProviderUnknown, Report{
			Provider: ProviderUnknown.DisplayName(),
			Message:  "could not detect provider; pass one explicitly",
			Hint:     RedactSecret(entry.Secret),
		}, false
	}
	return p, Report{}, true
}
