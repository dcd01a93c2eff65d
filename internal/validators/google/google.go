// Package google validates Google AI Studio API keys. Authentication rides
// in the query string rather than a header, and the API answers HTTP 400
// (not 401) for a malformed or revoked key.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type modelsResponse struct {
	Models []modelEntry `json:"models"`
}

type modelEntry struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// shortName strips the "models/" resource prefix.
func (m modelEntry) shortName() string {
	parts := strings.Split(m.Name, "/")
	return parts[len(parts)-1]
}

// Validator probes the Google AI API.
type Validator struct {
	settings shared.Settings
}

// New constructs a fresh, stateless Google AI validator.
func New(opts ...shared.Option) *Validator {
	s := shared.NewSettings(opts...)
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	return &Validator{settings: s}
}

func (v *Validator) Provider() core.Provider { return core.ProviderGoogle }

func (v *Validator) Validate(ctx context.Context, key *core.Key) *core.Key {
	if key == nil {
		return nil
	}
	if key.Provider != core.ProviderGoogle {
		key = core.Reattribute(core.ProviderGoogle, key)
	}

	probeURL := v.settings.BaseURL + "/v1/models?key=" + url.QueryEscape(key.Secret())
	resp, err := v.settings.Get(ctx, probeURL, nil)
	if err != nil {
		v.settings.Logger.Error("google probe failed", "key", key.Hint(), "err", err)
		shared.ApplyTransportFailure(key, "Google AI", err)
		return key
	}

	if !shared.ApplyPrimaryStatus(key, "Google AI", resp,
		http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden) {
		v.settings.Logger.Warn("google rejected key",
			"key", key.Hint(), "status", resp.Status, "body", shared.Snippet(resp.Body))
		return key
	}

	summary := &core.AccountSummary{
		Plan:       "Free Developer Tier",
		Status:     "Active",
		CreditCard: "Not required for free tier",
		RateLimit:  "60 requests per minute",
		Note:       "Detailed quota information not available through Google AI API",
	}
	key.Quota.Summary = summary

	var models modelsResponse
	if err := json.Unmarshal(resp.Body, &models); err != nil {
		key.Quota.Err = "could not parse models response: " + err.Error()
		return key
	}

	names := lo.Map(models.Models, func(m modelEntry, _ int) string { return m.shortName() })
	key.Google.Models = names
	key.Quota.Models = names
	key.Quota.ModelCount = len(names)

	gemini := lo.Filter(names, func(n string, _ int) bool {
		return strings.Contains(strings.ToLower(n), "gemini")
	})
	summary.FeaturedModels = strings.Join(lo.Slice(gemini, 0, 3), ", ")

	key.Quota.ModelDetails = lo.Map(models.Models, func(m modelEntry, _ int) core.ModelDetail {
		return describeModel(m)
	})

	return key
}

func describeModel(m modelEntry) core.ModelDetail {
	d := core.ModelDetail{ID: m.shortName()}
	lowered := strings.ToLower(d.ID)
	switch {
	case strings.Contains(lowered, "gemini"):
		d.Capabilities = []string{"Text generation", "Chat completions"}
		switch {
		case strings.Contains(lowered, "vision"):
			d.Capabilities = append(d.Capabilities, "Image understanding")
			d.Description = "Gemini Vision - multimodal model with vision capabilities"
		case strings.Contains(lowered, "ultra"):
			d.Description = "Gemini Ultra - most powerful Gemini model"
		case strings.Contains(lowered, "pro"):
			d.Description = "Gemini Pro - balanced performance and cost"
		}
	case strings.Contains(lowered, "embedding"):
		d.Capabilities = []string{"Embeddings"}
		d.Description = "Embedding model for text embeddings"
	}

	for _, method := range m.SupportedGenerationMethods {
		switch method {
		case "countTokens":
			d.Capabilities = append(d.Capabilities, "Token counting")
		case "embedContent":
			if !lo.Contains(d.Capabilities, "Embeddings") {
				d.Capabilities = append(d.Capabilities, "Embeddings")
			}
		}
	}
	return d
}

func (v *Validator) FormatResults(key *core.Key) core.Report {
	rep := core.BaseReport(core.ProviderGoogle, key)
	if key == nil {
		return rep
	}
	if key.Provider != core.ProviderGoogle || key.Google == nil {
		rep.Err = "not a Google AI API key"
		return rep
	}

	if key.Validity == core.Valid {
		rep.AddField("billing_enabled", fmt.Sprintf("%t", key.Google.BillingEnabled))
		rep.AddField("model_count", fmt.Sprintf("%d", key.Quota.ModelCount))
		rep.Summary = key.Quota.Summary
	}
	return rep
}
