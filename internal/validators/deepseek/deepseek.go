// Package deepseek validates DeepSeek API keys. DeepSeek is
// OpenAI-compatible and additionally exposes a dedicated /user/balance
// endpoint with per-currency credit balances.
package deepseek

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

const defaultBaseURL = "https://api.deepseek.com"

type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID string `json:"id"`
}

type balanceResponse struct {
	IsAvailable  bool          `json:"is_available"`
	BalanceInfos []balanceInfo `json:"balance_infos"`
}

type balanceInfo struct {
	Currency        string `json:"currency"`
	TotalBalance    string `json:"total_balance"`
	GrantedBalance  string `json:"granted_balance"`
	ToppedUpBalance string `json:"topped_up_balance"`
}

// Validator probes the DeepSeek API.
type Validator struct {
	settings shared.Settings
}

// New constructs a fresh, stateless DeepSeek validator.
func New(opts ...shared.Option) *Validator {
	s := shared.NewSettings(opts...)
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	return &Validator{settings: s}
}

func (v *Validator) Provider() core.Provider { return core.ProviderDeepSeek }

func (v *Validator) Validate(ctx context.Context, key *core.Key) *core.Key {
	if key == nil {
		return nil
	}
	if key.Provider != core.ProviderDeepSeek {
		key = core.Reattribute(core.ProviderDeepSeek, key)
	}

	headers := shared.BearerHeaders(key.Secret())

	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/models", headers)
	if err != nil {
		v.settings.Logger.Error("deepseek probe failed", "key", key.Hint(), "err", err)
		shared.ApplyTransportFailure(key, "DeepSeek", err)
		return key
	}

	if !shared.ApplyPrimaryStatus(key, "DeepSeek", resp) {
		v.settings.Logger.Warn("deepseek rejected key",
			"key", key.Hint(), "status", resp.Status, "body", shared.Snippet(resp.Body))
		return key
	}

	summary := &core.AccountSummary{
		Plan:   "Pay-as-you-go",
		Status: "Active",
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

	v.applyBalance(ctx, key, headers)

	return key
}

func (v *Validator) applyBalance(ctx context.Context, key *core.Key, headers map[string]string) {
	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/user/balance", headers)
	if err != nil || resp.Status != http.StatusOK {
		return
	}

	var balance balanceResponse
	if err := json.Unmarshal(resp.Body, &balance); err != nil {
		key.Quota.Err = "could not parse balance response: " + err.Error()
		return
	}

	d := key.DeepSeek
	d.Available = balance.IsAvailable

	summary := key.Quota.Summary
	if balance.IsAvailable {
		summary.Add("available", "yes")
	} else {
		summary.Add("available", "no")
	}

	if len(balance.BalanceInfos) > 0 {
		info := balance.BalanceInfos[0]
		d.Currency = info.Currency
		d.Balance = info.TotalBalance
		d.GrantedBalance = info.GrantedBalance
		d.ToppedUpBalance = info.ToppedUpBalance
		summary.Add("balance", info.TotalBalance+" "+info.Currency)
		if info.GrantedBalance != "" {
			summary.Add("granted_balance", info.GrantedBalance+" "+info.Currency)
		}
		if info.ToppedUpBalance != "" {
			summary.Add("topped_up_balance", info.ToppedUpBalance+" "+info.Currency)
		}
	}
}

func (v *Validator) FormatResults(key *core.Key) core.Report {
	rep := core.BaseReport(core.ProviderDeepSeek, key)
	if key == nil {
		return rep
	}
	if key.Provider != core.ProviderDeepSeek || key.DeepSeek == nil {
		rep.Err = "not a DeepSeek API key"
		return rep
	}

	if key.Validity == core.Valid {
		d := key.DeepSeek
		rep.AddField("available", fmt.Sprintf("%t", d.Available))
		if d.Balance != "" {
			rep.AddField("balance", d.Balance+" "+d.Currency)
		}
		rep.AddField("model_count", fmt.Sprintf("%d", key.Quota.ModelCount))
		rep.Summary = key.Quota.Summary
	}
	return rep
}
