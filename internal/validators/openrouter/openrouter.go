// Package openrouter validates OpenRouter API keys. Besides the models
// probe, the credits endpoint exposes purchased credits and spend, which is
// enough to distinguish free-tier from paid keys.
package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

const defaultBaseURL = "https://openrouter.ai/api"

type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID string `json:"id"`
}

type creditsResponse struct {
	Data struct {
		TotalCredits float64 `json:"total_credits"`
		TotalUsage   float64 `json:"total_usage"`
	} `json:"data"`
}

// Validator probes the OpenRouter API.
type Validator struct {
	settings shared.Settings
}

// New constructs a fresh, stateless OpenRouter validator.
func New(opts ...shared.Option) *Validator {
	s := shared.NewSettings(opts...)
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	return &Validator{settings: s}
}

func (v *Validator) Provider() core.Provider { return core.ProviderOpenRouter }

func (v *Validator) Validate(ctx context.Context, key *core.Key) *core.Key {
	if key == nil {
		return nil
	}
	if key.Provider != core.ProviderOpenRouter {
		key = core.Reattribute(core.ProviderOpenRouter, key)
	}

	headers := shared.BearerHeaders(key.Secret())

	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/v1/models", headers)
	if err != nil {
		v.settings.Logger.Error("openrouter probe failed", "key", key.Hint(), "err", err)
		shared.ApplyTransportFailure(key, "OpenRouter", err)
		return key
	}

	if !shared.ApplyPrimaryStatus(key, "OpenRouter", resp) {
		v.settings.Logger.Warn("openrouter rejected key",
			"key", key.Hint(), "status", resp.Status, "body", shared.Snippet(resp.Body))
		return key
	}

	summary := &core.AccountSummary{
		Status:    "Active",
		RateLimit: "60 requests per minute",
	}
	key.Quota.Summary = summary

	var models modelsResponse
	if err := json.Unmarshal(resp.Body, &models); err != nil {
		key.Quota.Err = "could not parse models response: " + err.Error()
	} else {
		ids := lo.Map(models.Data, func(m modelEntry, _ int) string { return m.ID })
		key.Quota.Models = ids
		key.Quota.ModelCount = len(ids)
		summary.FeaturedModels = strings.Join(lo.Slice(ids, 0, 3), ", ")
	}

	v.applyCredits(ctx, key, headers)

	return key
}

func (v *Validator) applyCredits(ctx context.Context, key *core.Key, headers map[string]string) {
	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/v1/credits", headers)
	if err != nil || resp.Status != http.StatusOK {
		return
	}

	var credits creditsResponse
	if err := json.Unmarshal(resp.Body, &credits); err != nil {
		key.Quota.Err = "could not parse credits response: " + err.Error()
		return
	}

	d := key.OpenRouter
	d.CreditsUSD = credits.Data.TotalCredits
	d.UsageUSD = credits.Data.TotalUsage
	d.BalanceUSD = credits.Data.TotalCredits - credits.Data.TotalUsage
	d.LimitReached = d.BalanceUSD <= 0
	d.BoughtCredits = credits.Data.TotalCredits > 1.0
	d.FreeTier = !d.BoughtCredits

	summary := key.Quota.Summary
	if d.BoughtCredits {
		summary.Plan = "Paid Tier"
	} else {
		summary.Plan = "Free Tier"
	}
	summary.Add("total_credits", fmt.Sprintf("$%.4f", d.CreditsUSD))
	summary.Add("total_usage", fmt.Sprintf("$%.4f", d.UsageUSD))
	summary.Add("balance", fmt.Sprintf("$%.4f", d.BalanceUSD))
	if d.LimitReached {
		summary.Add("limit_reached", "yes")
	} else {
		summary.Add("limit_reached", "no")
	}
}

func (v *Validator) FormatResults(key *core.Key) core.Report {
	rep := core.BaseReport(core.ProviderOpenRouter, key)
	if key == nil {
		return rep
	}
	if key.Provider != core.ProviderOpenRouter || key.OpenRouter == nil {
		rep.Err = "not an OpenRouter API key"
		return rep
	}

	if key.Validity == core.Valid {
		d := key.OpenRouter
		rep.AddField("balance", fmt.Sprintf("$%.4f", d.BalanceUSD))
		rep.AddField("usage", fmt.Sprintf("$%.4f", d.UsageUSD))
		rep.AddField("free_tier", fmt.Sprintf("%t", d.FreeTier))
		rep.AddField("limit_reached", fmt.Sprintf("%t", d.LimitReached))
		rep.AddField("model_count", fmt.Sprintf("%d", key.Quota.ModelCount))
		rep.Summary = key.Quota.Summary
	}
	return rep
}
