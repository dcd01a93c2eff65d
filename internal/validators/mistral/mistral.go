// Package mistral validates Mistral API keys against the models endpoint.
package mistral

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

const defaultBaseURL = "https://api.mistral.ai"

type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID                 string `json:"id"`
	ContextLength      int    `json:"context_length"`
	MaxTokensPerMinute int    `json:"max_tokens_per_minute"`
}

// Validator probes the Mistral API.
type Validator struct {
	settings shared.Settings
}

// New constructs a fresh, stateless Mistral validator.
func New(opts ...shared.Option) *Validator {
	s := shared.NewSettings(opts...)
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	return &Validator{settings: s}
}

func (v *Validator) Provider() core.Provider { return core.ProviderMistral }

func (v *Validator) Validate(ctx context.Context, key *core.Key) *core.Key {
	if key == nil {
		return nil
	}
	if key.Provider != core.ProviderMistral {
		key = core.Reattribute(core.ProviderMistral, key)
	}

	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/v1/models", shared.BearerHeaders(key.Secret()))
	if err != nil {
		v.settings.Logger.Error("mistral probe failed", "key", key.Hint(), "err", err)
		shared.ApplyTransportFailure(key, "Mistral", err)
		return key
	}

	if !shared.ApplyPrimaryStatus(key, "Mistral", resp) {
		v.settings.Logger.Warn("mistral rejected key",
			"key", key.Hint(), "status", resp.Status, "body", shared.Snippet(resp.Body))
		return key
	}

	summary := &core.AccountSummary{
		Plan:       "Free Developer Tier",
		Status:     "Active",
		CreditCard: "Not required for free tier",
	}
	key.Quota.Summary = summary
	key.Mistral.Tier = "Free"

	var models modelsResponse
	if err := json.Unmarshal(resp.Body, &models); err != nil {
		key.Quota.Err = "could not parse models response: " + err.Error()
		return key
	}

	ids := lo.Map(models.Data, func(m modelEntry, _ int) string { return m.ID })
	key.Quota.Models = ids
	key.Quota.ModelCount = len(ids)
	summary.FeaturedModels = strings.Join(lo.Slice(ids, 0, 3), ", ")

	key.Quota.ModelDetails = lo.Map(models.Data, func(m modelEntry, _ int) core.ModelDetail {
		return describeModel(m)
	})

	if len(models.Data) > 0 && models.Data[0].MaxTokensPerMinute > 0 {
		rl := fmt.Sprintf("%d tokens per minute", models.Data[0].MaxTokensPerMinute)
		key.Mistral.RateLimit = rl
		summary.RateLimit = rl
	}

	return key
}

func describeModel(m modelEntry) core.ModelDetail {
	d := core.ModelDetail{
		ID:           m.ID,
		Capabilities: []string{"Text generation", "Chat completions"},
	}
	if m.ContextLength > 0 {
		d.ContextLength = fmt.Sprintf("%d tokens", m.ContextLength)
	}
	lowered := strings.ToLower(m.ID)
	switch {
	case strings.Contains(lowered, "mistral-large"):
		d.Description = "Mistral Large - most powerful Mistral model"
	case strings.Contains(lowered, "mistral-medium"):
		d.Description = "Mistral Medium - balanced performance and cost"
	case strings.Contains(lowered, "mistral-small"):
		d.Description = "Mistral Small - fast and cost-effective"
	case strings.Contains(lowered, "mistral-tiny"):
		d.Description = "Mistral Tiny - fastest and most cost-effective"
	case strings.Contains(lowered, "mixtral"):
		d.Description = "Mixtral - mixture of experts model"
	case strings.Contains(lowered, "codestral"):
		d.Description = "Codestral - specialized for code generation"
		d.Capabilities = append(d.Capabilities, "Code generation")
	}
	return d
}

func (v *Validator) FormatResults(key *core.Key) core.Report {
	rep := core.BaseReport(core.ProviderMistral, key)
	if key == nil {
		return rep
	}
	if key.Provider != core.ProviderMistral || key.Mistral == nil {
		rep.Err = "not a Mistral API key"
		return rep
	}

	if key.Validity == core.Valid {
		d := key.Mistral
		rep.AddField("subscribed", fmt.Sprintf("%t", d.Subscribed))
		if d.Tier != "" {
			rep.AddField("tier", d.Tier)
		}
		if d.RateLimit != "" {
			rep.AddField("rate_limit", d.RateLimit)
		}
		rep.AddField("model_count", fmt.Sprintf("%d", key.Quota.ModelCount))
		rep.Summary = key.Quota.Summary
	}
	return rep
}
