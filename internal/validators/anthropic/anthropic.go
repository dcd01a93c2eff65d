// Package anthropic validates Anthropic API keys against the models
// endpoint. Anthropic authenticates with an x-api-key header rather than a
// bearer token and exposes rate limits through anthropic-ratelimit-* headers.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

type modelsResponse struct {
	Models []modelEntry `json:"models"`
}

type modelEntry struct {
	Name string `json:"name"`
}

// Validator probes the Anthropic API.
type Validator struct {
	settings shared.Settings
}

// New constructs a fresh, stateless Anthropic validator.
func New(opts ...shared.Option) *Validator {
	s := shared.NewSettings(opts...)
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	return &Validator{settings: s}
}

func (v *Validator) Provider() core.Provider { return core.ProviderAnthropic }

func (v *Validator) Validate(ctx context.Context, key *core.Key) *core.Key {
	if key == nil {
		return nil
	}
	if key.Provider != core.ProviderAnthropic {
		key = core.Reattribute(core.ProviderAnthropic, key)
	}

	headers := map[string]string{
		"x-api-key":         key.Secret(),
		"anthropic-version": apiVersion,
	}

	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/v1/models", headers)
	if err != nil {
		v.settings.Logger.Error("anthropic probe failed", "key", key.Hint(), "err", err)
		shared.ApplyTransportFailure(key, "Anthropic", err)
		return key
	}

	if !shared.ApplyPrimaryStatus(key, "Anthropic", resp) {
		v.settings.Logger.Warn("anthropic rejected key",
			"key", key.Hint(), "status", resp.Status, "body", shared.Snippet(resp.Body))
		return key
	}

	summary := &core.AccountSummary{
		Plan:       "Pay-as-you-go",
		Status:     "Active",
		CreditCard: "Required for full access",
		Note:       "Detailed quota information not available through Anthropic API",
	}
	key.Quota.Summary = summary

	var models modelsResponse
	if err := json.Unmarshal(resp.Body, &models); err != nil {
		key.Quota.Err = "could not parse models response: " + err.Error()
	} else if len(models.Models) > 0 {
		names := lo.Map(models.Models, func(m modelEntry, _ int) string { return m.Name })
		key.Quota.Models = names
		key.Quota.ModelCount = len(names)
		summary.FeaturedModels = strings.Join(lo.Slice(names, 0, 3), ", ")
		key.Quota.ModelDetails = lo.Map(names, func(name string, _ int) core.ModelDetail {
			return describeModel(name)
		})
	}

	if limit, ok := shared.HeaderInt(resp.Header, "anthropic-ratelimit-requests-limit"); ok {
		summary.RateLimit = fmt.Sprintf("%d requests per minute", limit)
	}
	if remaining, ok := shared.HeaderInt(resp.Header, "anthropic-ratelimit-tokens-remaining"); ok {
		key.Anthropic.RemainingTokens = remaining
		summary.Add("remaining_tokens", fmt.Sprintf("%d", remaining))
	}

	return key
}

func describeModel(name string) core.ModelDetail {
	d := core.ModelDetail{
		ID:           name,
		Capabilities: []string{"Text generation", "Chat completions"},
	}
	lowered := strings.ToLower(name)
	switch {
	case strings.Contains(lowered, "opus"):
		d.Description = "Claude Opus - most powerful Claude model"
		d.ContextLength = "200K tokens"
	case strings.Contains(lowered, "sonnet"):
		d.Description = "Claude Sonnet - balanced performance and cost"
		d.ContextLength = "200K tokens"
	case strings.Contains(lowered, "haiku"):
		d.Description = "Claude Haiku - fastest and most cost-effective"
		d.ContextLength = "200K tokens"
	case strings.Contains(lowered, "claude-2"):
		d.Description = "Claude 2 - previous generation model"
		d.ContextLength = "100K tokens"
	}
	return d
}

func (v *Validator) FormatResults(key *core.Key) core.Report {
	rep := core.BaseReport(core.ProviderAnthropic, key)
	if key == nil {
		return rep
	}
	if key.Provider != core.ProviderAnthropic || key.Anthropic == nil {
		rep.Err = "not an Anthropic API key"
		return rep
	}

	if key.Validity == core.Valid {
		d := key.Anthropic
		rep.AddField("has_quota", fmt.Sprintf("%t", d.HasQuota))
		if d.Tier != "" {
			rep.AddField("tier", d.Tier)
		}
		rep.AddField("rate_limited", fmt.Sprintf("%t", d.RateLimited))
		rep.AddField("model_count", fmt.Sprintf("%d", key.Quota.ModelCount))
		rep.Summary = key.Quota.Summary
	}
	return rep
}
