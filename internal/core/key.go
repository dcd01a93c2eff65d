package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Provider identifies the service that issued a credential.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderMistral    Provider = "mistral"
	ProviderGroq       Provider = "groq"
	ProviderCohere     Provider = "cohere"
	ProviderGoogle     Provider = "google"
	ProviderOpenRouter Provider = "openrouter"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderTogether   Provider = "together"
	ProviderPerplexity Provider = "perplexity"
	ProviderAnyscale   Provider = "anyscale"
	ProviderReplicate  Provider = "replicate"
	ProviderAI21       Provider = "ai21"
	ProviderElevenLabs Provider = "elevenlabs"
	ProviderXAI        Provider = "xai"
	ProviderAWS        Provider = "aws"
	ProviderAzure      Provider = "azure"
	ProviderUnknown    Provider = "unknown"
)

// Providers lists every known provider tag in a stable order.
func Providers() []Provider {
	return []Provider{
		ProviderOpenAI, ProviderAnthropic, ProviderMistral, ProviderGroq,
		ProviderCohere, ProviderGoogle, ProviderOpenRouter, ProviderDeepSeek,
		ProviderTogether, ProviderPerplexity, ProviderAnyscale, ProviderReplicate,
		ProviderAI21, ProviderElevenLabs, ProviderXAI, ProviderAWS, ProviderAzure,
	}
}

// ParseProvider resolves a case-insensitive provider name. Returns
// ProviderUnknown and false when the name matches nothing.
func ParseProvider(name string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderMistral, ProviderGroq,
		ProviderCohere, ProviderGoogle, ProviderOpenRouter, ProviderDeepSeek,
		ProviderTogether, ProviderPerplexity, ProviderAnyscale, ProviderReplicate,
		ProviderAI21, ProviderElevenLabs, ProviderXAI, ProviderAWS, ProviderAzure:
		return p, true
	}
	return ProviderUnknown, false
}

// DisplayName returns the human-facing provider name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderMistral:
		return "Mistral"
	case ProviderGroq:
		return "Groq"
	case ProviderCohere:
		return "Cohere"
	case ProviderGoogle:
		return "Google AI"
	case ProviderOpenRouter:
		return "OpenRouter"
	case ProviderDeepSeek:
		return "DeepSeek"
	case ProviderTogether:
		return "Together"
	case ProviderPerplexity:
		return "Perplexity"
	case ProviderAnyscale:
		return "Anyscale"
	case ProviderReplicate:
		return "Replicate"
	case ProviderAI21:
		return "AI21"
	case ProviderElevenLabs:
		return "ElevenLabs"
	case ProviderXAI:
		return "xAI"
	case ProviderAWS:
		return "AWS Bedrock"
	case ProviderAzure:
		return "Azure OpenAI"
	default:
		return "Unknown"
	}
}

// Validity is the tri-state outcome of a validation attempt.
type Validity int

const (
	ValidityUnknown Validity = iota
	Valid
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the tri-state as a string so exported reports stay
// readable without knowledge of the enum values.
func (v Validity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// ErrEmptySecret is returned by New when the raw credential is empty.
var ErrEmptySecret = errors.New("credential must not be empty")

// Key is a credential plus the mutable outcome of one validation attempt.
// The raw secret is immutable after construction and only reachable through
// Secret(); everything that leaves the process goes through Fingerprint or
// Hint instead.
type Key struct {
	Provider    Provider
	Validity    Validity
	Message     string
	Err         string // transport-level detail, distinct from Message
	RawResponse string // captured body, diagnostic only
	Quota       QuotaInfo

	// Per-provider detail variants. Exactly the one matching Provider is
	// non-nil for providers that have a live adapter.
	OpenAI     *OpenAIDetails
	Anthropic  *AnthropicDetails
	Mistral    *MistralDetails
	Groq       *GroqDetails
	Cohere     *CohereDetails
	Google     *GoogleDetails
	OpenRouter *OpenRouterDetails
	DeepSeek   *DeepSeekDetails

	secret string
}

// New constructs a Key for the given provider tag. The switch is exhaustive
// over the providers that carry typed details; adding an adapter means adding
// one case here.
func New(provider Provider, secret string) (*Key, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	k := &Key{Provider: provider, secret: secret}
	switch provider {
	case ProviderOpenAI:
		k.OpenAI = &OpenAIDetails{}
	case ProviderAnthropic:
		k.Anthropic = &AnthropicDetails{HasQuota: true}
	case ProviderMistral:
		k.Mistral = &MistralDetails{}
	case ProviderGroq:
		k.Groq = &GroqDetails{}
	case ProviderCohere:
		k.Cohere = &CohereDetails{}
	case ProviderGoogle:
		k.Google = &GoogleDetails{}
	case ProviderOpenRouter:
		k.OpenRouter = &OpenRouterDetails{}
	case ProviderDeepSeek:
		k.DeepSeek = &DeepSeekDetails{}
	case ProviderTogether, ProviderPerplexity, ProviderAnyscale,
		ProviderReplicate, ProviderAI21, ProviderElevenLabs, ProviderXAI,
		ProviderAWS, ProviderAzure, ProviderUnknown:
		// Detection-only providers carry no typed details.
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
	return k, nil
}

// Reattribute rebuilds a key under a different provider tag, keeping the raw
// secret byte-identical. Adapters use it to recover from a detection miss.
func Reattribute(provider Provider, k *Key) *Key {
	if k == nil {
		return nil
	}
	nk, err := New(provider, k.secret)
	if err != nil {
		return nil
	}
	return nk
}

// Secret returns the raw credential string.
func (k *Key) Secret() string { return k.secret }

// Fingerprint is the sha256 hex digest of the secret, safe to persist.
func (k *Key) Fingerprint() string {
	sum := sha256.Sum256([]byte(k.secret))
	return hex.EncodeToString(sum[:])
}

// Hint returns a redacted form of the secret for display and logs.
func (k *Key) Hint() string {
	return RedactSecret(k.secret)
}

// RedactSecret keeps just enough of a credential to recognize it.
func RedactSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "…" + secret[len(secret)-4:]
}

// MarkValid records a successful validation outcome.
func (k *Key) MarkValid(message string) {
	k.Validity = Valid
	k.Message = message
}

// MarkInvalid records a failed outcome. errDetail carries the underlying
// transport error, if any, so the UI can tell "bad key" from "unreachable".
func (k *Key) MarkInvalid(message, errDetail string) {
	k.Validity = Invalid
	k.Message = message
	k.Err = errDetail
}
