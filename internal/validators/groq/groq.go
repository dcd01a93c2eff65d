// Package groq validates Groq API keys. Groq exposes an OpenAI-compatible
// surface under /openai/v1.
package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/validators/shared"
)

const defaultBaseURL = "https://api.groq.com"

type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID            string `json:"id"`
	OwnedBy       string `json:"owned_by"`
	ContextWindow int    `json:"context_window"`
}

// Validator probes the Groq API.
type Validator struct {
	settings shared.Settings
}

// New constructs a fresh, stateless Groq validator.
func New(opts ...shared.Option) *Validator {
	s := shared.NewSettings(opts...)
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	return &Validator{settings: s}
}

func (v *Validator) Provider() core.Provider { return core.ProviderGroq }

func (v *Validator) Validate(ctx context.Context, key *core.Key) *core.Key {
	if key == nil {
		return nil
	}
	if key.Provider != core.ProviderGroq {
		key = core.Reattribute(core.ProviderGroq, key)
	}

	resp, err := v.settings.Get(ctx, v.settings.BaseURL+"/openai/v1/models", shared.BearerHeaders(key.Secret()))
	if err != nil {
		v.settings.Logger.Error("groq probe failed", "key", key.Hint(), "err", err)
		shared.ApplyTransportFailure(key, "Groq", err)
		return key
	}

	if !shared.ApplyPrimaryStatus(key, "Groq", resp) {
		v.settings.Logger.Warn("groq rejected key",
			"key", key.Hint(), "status", resp.Status, "body", shared.Snippet(resp.Body))
		return key
	}

	summary := &core.AccountSummary{
		Plan:       "Free Developer Tier",
		Status:     "Active",
		CreditCard: "Not required",
		RateLimit:  "60 requests per minute",
		TokenLimit: "Generous token limits",
	}
	key.Quota.Summary = summary
	key.Groq.RateLimit = summary.RateLimit
	key.Groq.TokenLimit = summary.TokenLimit

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

	return key
}

func describeModel(m modelEntry) core.ModelDetail {
	d := core.ModelDetail{
		ID:           m.ID,
		Capabilities: []string{"Text generation", "Chat completions"},
	}
	if m.ContextWindow > 0 {
		d.ContextLength = fmt.Sprintf("%d tokens", m.ContextWindow)
	}
	lowered := strings.ToLower(m.ID)
	switch {
	case strings.Contains(lowered, "llama"):
		d.Description = "LLaMA - open source model from Meta"
	case strings.Contains(lowered, "mixtral"):
		d.Description = "Mixtral - mixture of experts model"
	case strings.Contains(lowered, "gemma"):
		d.Description = "Gemma - lightweight model from Google"
	case strings.Contains(lowered, "whisper"):
		d.Description = "Whisper - speech-to-text model"
		d.Capabilities = []string{"Speech to text", "Audio transcription"}
	}
	return d
}

func (v *Validator) FormatResults(key *core.Key) core.Report {
	rep := core.BaseReport(core.ProviderGroq, key)
	if key == nil {
		return rep
	}
	if key.Provider != core.ProviderGroq || key.Groq == nil {
		rep.Err = "not a Groq API key"
		return rep
	}

	if key.Validity == core.Valid {
		if key.Groq.RateLimit != "" {
			rep.AddField("rate_limit", key.Groq.RateLimit)
		}
		if key.Groq.TokenLimit != "" {
			rep.AddField("token_limit", key.Groq.TokenLimit)
		}
		rep.AddField("model_count", fmt.Sprintf("%d", key.Quota.ModelCount))
		rep.Summary = key.Quota.Summary
	}
	return rep
}
