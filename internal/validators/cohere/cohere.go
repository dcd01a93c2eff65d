// Package cohere validates Cohere API keys. The models endpoint returns a
// bare JSON array rather than the usual {"data": [...]} envelope.
package cohere

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

const defaultBaseURL = "https://api.cohere.ai"

type modelEntry struct {
	Name string `json:"name"`
}

// Validator probes the Cohere API.
type Validator struct {
	settings shared.Settings
}

// New constructs a fresh, stateless Cohere validator.
func New(opts ...shared.Option) *Validator {
	s := shared.NewSettings(opts...)
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	return &Validator{settings: s}
}

func (v *Validator) Provider() core.Provider { return core.ProviderCohere }

func (v *Validator) Validate(ctx context.Context, key *core.Key) *core.Key {
	if key == nil {
		return nil
	}
	if key.Provider != core.ProviderCohere {
		key = core.Reattribute(core.ProviderCohere, key)
	}

	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/v1/models", shared.BearerHeaders(key.Secret()))
	if err != nil {
		v.settings.Logger.Error("cohere probe failed", "key", key.Hint(), "err", err)
		shared.ApplyTransportFailure(key, "Cohere", err)
		return key
	}

	if !shared.ApplyPrimaryStatus(key, "Cohere", resp) {
		v.settings.Logger.Warn("cohere rejected key",
			"key", key.Hint(), "status", resp.Status, "body", shared.Snippet(resp.Body))
		return key
	}

	summary := &core.AccountSummary{
		Plan:       "Free Developer Tier",
		Status:     "Active",
		CreditCard: "Not required for free tier",
	}
	key.Quota.Summary = summary

	var models []modelEntry
	if err := json.Unmarshal(resp.Body, &models); err != nil {
		key.Quota.Err = "could not parse models response: " + err.Error()
		return key
	}

	names := lo.Map(models, func(m modelEntry, _ int) string { return m.Name })
	key.Quota.Models = names
	key.Quota.ModelCount = len(names)
	summary.FeaturedModels = strings.Join(lo.Slice(names, 0, 3), ", ")
	key.Quota.ModelDetails = lo.Map(names, func(name string, _ int) core.ModelDetail {
		return describeModel(name)
	})

	return key
}

func describeModel(name string) core.ModelDetail {
	d := core.ModelDetail{ID: name}
	lowered := strings.ToLower(name)
	switch {
	case strings.Contains(lowered, "command"):
		d.Capabilities = []string{"Text generation", "Chat completions"}
		switch {
		case strings.Contains(lowered, "light"):
			d.Description = "Command Light - fastest and most cost-effective"
		case strings.Contains(lowered, "r-plus"):
			d.Description = "Command R+ - most powerful Command model"
		case strings.Contains(lowered, "r"):
			d.Description = "Command R - balanced performance and cost"
		default:
			d.Description = "Command - general purpose model"
		}
	case strings.Contains(lowered, "embed"):
		d.Capabilities = []string{"Embeddings"}
		d.Description = "Embed - text embedding model"
	}
	return d
}

func (v *Validator) FormatResults(key *core.Key) core.Report {
	rep := core.BaseReport(core.ProviderCohere, key)
	if key == nil {
		return rep
	}
	if key.Provider != core.ProviderCohere || key.Cohere == nil {
		rep.Err = "not a Cohere API key"
		return rep
	}

	if key.Validity == core.Valid {
		d := key.Cohere
		if d.TokenLimit != "" {
			rep.AddField("token_limit", d.TokenLimit)
		}
		if d.UsedTokens != "" {
			rep.AddField("used_tokens", d.UsedTokens)
		}
		if d.MonthlyLimit != "" {
			rep.AddField("monthly_limit", d.MonthlyLimit)
		}
		rep.AddField("model_count", fmt.Sprintf("%d", key.Quota.ModelCount))
		rep.Summary = key.Quota.Summary
	}
	return rep
}
