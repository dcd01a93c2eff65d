// Package validators maps provider tags to adapter constructors. Adapters
// are stateless and built fresh per lookup, so concurrent validations never
// share mutable state.
package validators

import (
	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/anthropic"
	"github.com/janekbaraniewski/keycheck/internal/validators/cohere"
	"github.com/janekbaraniewski/keycheck/internal/validators/deepseek"
	"github.com/janekbaraniewski/keycheck/internal/validators/google"
	"github.com/janekbaraniewski/keycheck/internal/validators/groq"
	"github.com/janekbaraniewski/keycheck/internal/validators/mistral"
	"github.com/janekbaraniewski/keycheck/internal/validators/openai"
	"github.com/janekbaraniewski/keycheck/internal/validators/openrouter"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

type constructor func(opts ...shared.Option) core.Validator

var constructors = map[core.Provider]constructor{
	core.ProviderOpenAI:     func(o ...shared.Option) core.Validator { return openai.New(o...) },
	core.ProviderAnthropic:  func(o ...shared.Option) core.Validator { return anthropic.New(o...) },
	core.ProviderMistral:    func(o ...shared.Option) core.Validator { return mistral.New(o...) },
	core.ProviderGroq:       func(o ...shared.Option) core.Validator { return groq.New(o...) },
	core.ProviderCohere:     func(o ...shared.Option) core.Validator { return cohere.New(o...) },
	core.ProviderGoogle:     func(o ...shared.Option) core.Validator { return google.New(o...) },
	core.ProviderOpenRouter: func(o ...shared.Option) core.Validator { return openrouter.New(o...) },
	core.ProviderDeepSeek:   func(o ...shared.Option) core.Validator { return deepseek.New(o...) },
}

// ForProvider returns a fresh adapter for the given tag. The second result
// is false when the provider has no live adapter (detection-only providers
// and ProviderUnknown).
func ForProvider(p core.Provider, opts ...shared.Option) (core.Validator, bool) {
	build, ok := constructors[p]
	if !ok {
		return nil, false
	}
	return build(opts...), true
}

// ForName resolves a case-insensitive provider name and returns its adapter.
func ForName(name string, opts ...shared.Option) (core.Validator, bool) {
	p, ok := core.ParseProvider(name)
	if !ok {
		return nil, false
	}
	return ForProvider(p, opts...)
}

// Supported lists the providers that have a live adapter, in the canonical
// provider order.
func Supported() []core.Provider {
	out := make([]core.Provider, 0, len(constructors))
	for _, p := range core.Providers() {
		if _, ok := constructors[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Factory builds a core.Factory that carries shared adapter options (base
// URL overrides, logger, HTTP client) into every construction.
func Factory(opts ...shared.Option) core.Factory {
	return func(p core.Provider) (core.Validator, bool) {
		return ForProvider(p, opts...)
	}
}

// FactoryWith builds a core.Factory that additionally applies per-provider
// options, used for config-driven base URL overrides.
func FactoryWith(common []shared.Option, perProvider map[core.Provider][]shared.Option) core.Factory {
	return func(p core.Provider) (core.Validator, bool) {
		opts := append([]shared.Option{}, common...)
		opts = append(opts, perProvider[p]...)
		return ForProvider(p, opts...)
	}
}
