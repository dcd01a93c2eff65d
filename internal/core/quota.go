package core

// QuotaInfo carries whatever account, model, and usage metadata a provider's
// API exposed for a valid key. Adapters fill the typed fields where they can
// and park anything provider-specific in Extra. Err records a decode failure
// without affecting the key's validity.
type QuotaInfo struct {
	Summary      *AccountSummary `json:"account_summary,omitempty"`
	Models       []string        `json:"available_models,omitempty"`
	ModelCount   int             `json:"model_count,omitempty"`
	ModelDetails []ModelDetail   `json:"model_details,omitempty"`
	Usage        *UsagePeriod    `json:"usage,omitempty"`
	Extra        map[string]any  `json:"extra,omitempty"`
	Err          string          `json:"error,omitempty"`
}

// Empty reports whether no quota data was collected. A lone Err entry still
// counts as empty: on failed validations quota must hold nothing else.
func (q QuotaInfo) Empty() bool {
	return q.Summary == nil && len(q.Models) == 0 && q.ModelCount == 0 &&
		len(q.ModelDetails) == 0 && q.Usage == nil && len(q.Extra) == 0
}

// SetExtra stores an open-ended payload value, allocating the map lazily.
func (q *QuotaInfo) SetExtra(key string, value any) {
	if q.Extra == nil {
		q.Extra = make(map[string]any)
	}
	q.Extra[key] = value
}

// AccountSummary is the small fixed structure every adapter populates for a
// valid key. All fields are optional; Rows holds ordered provider-specific
// lines that have no well-known slot.
type AccountSummary struct {
	Plan           string       `json:"plan,omitempty"`
	Status         string       `json:"status,omitempty"`
	CreditCard     string       `json:"credit_card,omitempty"`
	RateLimit      string       `json:"rate_limit,omitempty"`
	TokenLimit     string       `json:"token_limit,omitempty"`
	FeaturedModels string       `json:"featured_models,omitempty"`
	Note           string       `json:"note,omitempty"`
	Rows           []SummaryRow `json:"rows,omitempty"`
}

// SummaryRow is one labelled line in an account summary.
type SummaryRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Add appends an ordered provider-specific summary line.
func (s *AccountSummary) Add(label, value string) {
	s.Rows = append(s.Rows, SummaryRow{Label: label, Value: value})
}

// Row looks up a provider-specific summary line by label.
func (s *AccountSummary) Row(label string) (string, bool) {
	for _, row := range s.Rows {
		if row.Label == label {
			return row.Value, true
		}
	}
	return "", false
}

// ModelDetail describes one model visible to the key.
type ModelDetail struct {
	ID            string   `json:"id"`
	Description   string   `json:"description,omitempty"`
	ContextLength string   `json:"context_length,omitempty"`
	Capabilities  []string `json:"capabilities,omitempty"`
}

// UsagePeriod is spend over a billing window, in USD.
type UsagePeriod struct {
	TotalUSD float64 `json:"total_usd"`
	Period   string  `json:"period"`
}

// OpenAIDetails holds OpenAI-specific validation results.
type OpenAIDetails struct {
	Plan             string
	HasQuota         bool
	Tier             string
	RPM              int
	DefaultOrg       string
	Organizations    []string
	HasSpecialModels bool
	SpecialModels    []string
}

// AnthropicDetails holds Anthropic-specific validation results.
type AnthropicDetails struct {
	HasQuota        bool
	Tier            string
	RateLimited     bool
	RemainingTokens int
}

// MistralDetails holds Mistral-specific validation results.
type MistralDetails struct {
	Subscribed bool
	Tier       string
	RateLimit  string
}

// GroqDetails holds Groq-specific validation results.
type GroqDetails struct {
	RateLimit  string
	TokenLimit string
}

// CohereDetails holds Cohere-specific validation results.
type CohereDetails struct {
	TokenLimit   string
	UsedTokens   string
	MonthlyLimit string
}

// GoogleDetails holds Google AI-specific validation results.
type GoogleDetails struct {
	Models         []string
	BillingEnabled bool
}

// OpenRouterDetails holds OpenRouter-specific validation results.
type OpenRouterDetails struct {
	UsageUSD      float64
	CreditsUSD    float64
	BalanceUSD    float64
	LimitReached  bool
	BoughtCredits bool
	FreeTier      bool
}

// DeepSeekDetails holds DeepSeek-specific validation results.
type DeepSeekDetails struct {
	Balance         string
	Currency        string
	GrantedBalance  string
	ToppedUpBalance string
	Available       bool
}
