// Package openai validates OpenAI API keys. The primary probe lists models;
// two optional secondary probes read the billing subscription and the
// current month's usage. The secondaries regularly fail for scoped keys, so
// their absence never fails the validation.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

const defaultBaseURL = "https://api.openai.com"

type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID string `json:"id"`
}

type subscriptionResponse struct {
	Plan struct {
		Title string `json:"title"`
	} `json:"plan"`
	HardLimitUSD     *float64 `json:"hard_limit_usd"`
	SoftLimitUSD     *float64 `json:"soft_limit_usd"`
	HasPaymentMethod bool     `json:"has_payment_method"`
}

type usageResponse struct {
	TotalUsage float64 `json:"total_usage"` // cents
}

// Validator probes the OpenAI API.
type Validator struct {
	settings shared.Settings
	now      func() time.Time
}

// New constructs a fresh, stateless OpenAI validator.
func New(opts ...shared.Option) *Validator {
	s := shared.NewSettings(opts...)
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	return &Validator{settings: s, now: time.Now}
}

func (v *Validator) Provider() core.Provider { return core.ProviderOpenAI }

func (v *Validator) Validate(ctx context.Context, key *core.Key) *core.Key {
	if key == nil {
		return nil
	}
	if key.Provider != core.ProviderOpenAI {
		key = core.Reattribute(core.ProviderOpenAI, key)
	}

	headers := shared.BearerHeaders(key.Secret())

	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/v1/models", headers)
	if err != nil {
		v.settings.Logger.Error("openai probe failed", "key", key.Hint(), "err", err)
		shared.ApplyTransportFailure(key, "OpenAI", err)
		return key
	}

	if !shared.ApplyPrimaryStatus(key, "OpenAI", resp) {
		v.settings.Logger.Warn("openai rejected key",
			"key", key.Hint(), "status", resp.Status, "body", shared.Snippet(resp.Body))
		return key
	}

	summary := &core.AccountSummary{
		Plan:       "Pay-as-you-go",
		Status:     "Active",
		CreditCard: "Required for full access",
	}
	key.Quota.Summary = summary

	v.applyModels(key, resp.Body)
	v.applyRateTier(key, resp.Header)
	v.applyBilling(ctx, key, headers)

	return key
}

func (v *Validator) applyModels(key *core.Key, body []byte) {
	var models modelsResponse
	if err := json.Unmarshal(body, &models); err != nil {
		key.Quota.Err = "could not parse models response: " + err.Error()
		return
	}

	ids := lo.Map(models.Data, func(m modelEntry, _ int) string { return m.ID })
	key.Quota.Models = ids
	key.Quota.ModelCount = len(ids)

	special := lo.Filter(ids, func(id string, _ int) bool {
		return strings.Contains(strings.ToLower(id), "gpt-4")
	})
	if len(special) > 0 {
		key.OpenAI.HasSpecialModels = true
		key.OpenAI.SpecialModels = special
	}
}

// applyRateTier maps the requests-per-minute limit exposed on the models
// response to the informal account tier names.
func (v *Validator) applyRateTier(key *core.Key, header http.Header) {
	rpm, ok := shared.HeaderInt(header, "x-ratelimit-limit-requests")
	if !ok {
		return
	}
	key.OpenAI.RPM = rpm
	key.Quota.Summary.RateLimit = fmt.Sprintf("%d requests per minute", rpm)

	switch {
	case rpm >= 10000:
		key.OpenAI.Tier = "Very High Tier"
	case rpm >= 5000:
		key.OpenAI.Tier = "High Tier"
	case rpm >= 3500:
		key.OpenAI.Tier = "Medium Tier"
	case rpm > 60:
		key.OpenAI.Tier = "Low Tier"
	default:
		key.OpenAI.Tier = "Free Tier"
	}
	key.Quota.Summary.Add("tier", key.OpenAI.Tier)
}

func (v *Validator) applyBilling(ctx context.Context, key *core.Key, headers map[string]string) {
	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/dashboard/billing/subscription", headers)
	if err != nil || resp.Status != http.StatusOK {
		key.Quota.Summary.Add("billing_status", "Billing information not available")
		return
	}

	var sub subscriptionResponse
	if err := json.Unmarshal(resp.Body, &sub); err != nil {
		key.Quota.Err = "could not parse billing response: " + err.Error()
		return
	}

	if sub.Plan.Title != "" {
		key.OpenAI.Plan = sub.Plan.Title
		key.Quota.Summary.Plan = sub.Plan.Title
	}
	key.OpenAI.HasQuota = sub.HasPaymentMethod
	if sub.HardLimitUSD != nil {
		key.Quota.Summary.Add("hard_limit", fmt.Sprintf("$%.2f", *sub.HardLimitUSD))
	}
	if sub.SoftLimitUSD != nil {
		key.Quota.Summary.Add("soft_limit", fmt.Sprintf("$%.2f", *sub.SoftLimitUSD))
	}
	if sub.HasPaymentMethod {
		key.Quota.Summary.Add("payment_method", "added")
	} else {
		key.Quota.Summary.Add("payment_method", "not added")
	}

	v.applyUsage(ctx, key, headers)
}

func (v *Validator) applyUsage(ctx context.Context, key *core.Key, headers map[string]string) {
	now := v.now()
	start := fmt.Sprintf("%d-%02d-01", now.Year(), now.Month())
	end := fmt.Sprintf("%d-%02d-%02d", now.Year(), now.Month(), now.Day())

	url := fmt.Sprintf("%s/dashboard/billing/usage?start_date=%s&end_date=%s",
		v.settings.BaseURL, start, end)
	resp, err := v.settings.Get(ctx, url, headers)
	if err != nil || resp.Status != http.StatusOK {
		return
	}

	var usage usageResponse
	if err := json.Unmarshal(resp.Body, &usage); err != nil {
		key.Quota.Err = "could not parse usage response: " + err.Error()
		return
	}

	key.Quota.Usage = &core.UsagePeriod{
		TotalUSD: usage.TotalUsage / 100,
		Period:   start + " to " + end,
	}
	key.Quota.Summary.Add("current_usage", fmt.Sprintf("$%.2f", usage.TotalUsage/100))
	key.Quota.Summary.Add("billing_period", start+" to "+end)
}

func (v *Validator) FormatResults(key *core.Key) core.Report {
	rep := core.BaseReport(core.ProviderOpenAI, key)
	if key == nil {
		return rep
	}
	if key.Provider != core.ProviderOpenAI || key.OpenAI == nil {
		rep.Err = "not an OpenAI API key"
		return rep
	}

	if key.Validity == core.Valid {
		d := key.OpenAI
		if d.Plan != "" {
			rep.AddField("plan", d.Plan)
		}
		rep.AddField("has_quota", fmt.Sprintf("%t", d.HasQuota))
		if d.Tier != "" {
			rep.AddField("tier", d.Tier)
		}
		if d.RPM > 0 {
			rep.AddField("rpm", fmt.Sprintf("%d", d.RPM))
		}
		rep.AddField("model_count", fmt.Sprintf("%d", key.Quota.ModelCount))
		if d.HasSpecialModels {
			rep.AddField("special_models", strings.Join(d.SpecialModels, ", "))
		}
		rep.Summary = key.Quota.Summary
		rep.Usage = key.Quota.Usage
	}
	return rep
}
