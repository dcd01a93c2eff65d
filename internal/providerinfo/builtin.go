package providerinfo

import "github.com/janekbaraniewski/keycheck/internal/core"

func builtinInfos() map[core.Provider]Info {
	return map[core.Provider]Info{
		core.ProviderOpenAI: {
			Name:               "OpenAI",
			Description:        "Provider of GPT models",
			Website:            "https://openai.com",
			SignupURL:          "https://platform.openai.com/signup",
			PricingURL:         "https://openai.com/pricing",
			DocsURL:            "https://platform.openai.com/docs",
			CreditCardRequired: true,
			KeyFormat:          "sk-...",
			RateLimit:          "Varies by tier",
			FeaturedModels:     []string{"gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
			Category:           CategoryPremium,
		},
		core.ProviderAnthropic: {
			Name:               "Anthropic",
			Description:        "Provider of Claude models",
			Website:            "https://anthropic.com",
			SignupURL:          "https://console.anthropic.com/signup",
			PricingURL:         "https://www.anthropic.com/pricing",
			DocsURL:            "https://docs.anthropic.com",
			CreditCardRequired: true,
			KeyFormat:          "sk-ant-...",
			RateLimit:          "Varies by tier",
			FeaturedModels:     []string{"claude-3-opus", "claude-3-sonnet", "claude-3-haiku"},
			Category:           CategoryPremium,
		},
		core.ProviderMistral: {
			Name:           "Mistral",
			Description:    "Provider of Mistral and Mixtral models",
			Website:        "https://mistral.ai",
			SignupURL:      "https://console.mistral.ai",
			PricingURL:     "https://mistral.ai/technology/#pricing",
			DocsURL:        "https://docs.mistral.ai",
			FreeTier:       true,
			KeyFormat:      "32-character string",
			RateLimit:      "Varies by plan",
			FeaturedModels: []string{"mistral-large", "mistral-small", "mixtral-8x7b"},
			Category:       CategoryFree,
		},
		core.ProviderGroq: {
			Name:           "Groq",
			Description:    "Ultra-fast inference for open models",
			Website:        "https://groq.com",
			SignupURL:      "https://console.groq.com",
			DocsURL:        "https://console.groq.com/docs",
			FreeTier:       true,
			KeyFormat:      "gsk_...",
			RateLimit:      "60 requests per minute",
			FeaturedModels: []string{"llama3-70b", "llama3-8b", "mixtral-8x7b"},
			Category:       CategoryPremium,
		},
		core.ProviderCohere: {
			Name:           "Cohere",
			Description:    "Provider of Command and Embed models",
			Website:        "https://cohere.com",
			SignupURL:      "https://dashboard.cohere.com/welcome/register",
			PricingURL:     "https://cohere.com/pricing",
			DocsURL:        "https://docs.cohere.com",
			FreeTier:       true,
			KeyFormat:      "40-character string",
			RateLimit:      "Trial keys are rate limited",
			FeaturedModels: []string{"command-r-plus", "command-r", "embed-english-v3.0"},
			Category:       CategoryFreemium,
		},
		core.ProviderGoogle: {
			Name:           "Google AI",
			Description:    "Provider of Gemini models via AI Studio",
			Website:        "https://ai.google.dev",
			SignupURL:      "https://aistudio.google.com",
			DocsURL:        "https://ai.google.dev/docs",
			FreeTier:       true,
			KeyFormat:      "AIzaSy...",
			RateLimit:      "60 requests per minute",
			FeaturedModels: []string{"gemini-pro", "gemini-pro-vision"},
			Category:       CategoryFree,
		},
		core.ProviderOpenRouter: {
			Name:           "OpenRouter",
			Description:    "Unified router over many model providers",
			Website:        "https://openrouter.ai",
			SignupURL:      "https://openrouter.ai",
			PricingURL:     "https://openrouter.ai/models",
			DocsURL:        "https://openrouter.ai/docs",
			FreeTier:       true,
			KeyFormat:      "sk-or-v1-...",
			RateLimit:      "Varies by credit balance",
			FeaturedModels: []string{"openrouter/auto"},
			Category:       CategoryCredit,
		},
		core.ProviderDeepSeek: {
			Name:           "DeepSeek",
			Description:    "Provider of DeepSeek chat and reasoning models",
			Website:        "https://deepseek.com",
			SignupURL:      "https://platform.deepseek.com",
			PricingURL:     "https://platform.deepseek.com/api-docs/pricing",
			DocsURL:        "https://platform.deepseek.com/api-docs",
			KeyFormat:      "sk-...",
			RateLimit:      "Dynamic throttling",
			FeaturedModels: []string{"deepseek-chat", "deepseek-reasoner"},
			Category:       CategoryCredit,
		},
		core.ProviderTogether: {
			Name:        "Together",
			Description: "Hosted open-source models with starter credits",
			Website:     "https://together.ai",
			SignupURL:   "https://api.together.xyz",
			FreeTier:    true,
			KeyFormat:   "40-character string",
			Category:    CategoryCredit,
		},
		core.ProviderPerplexity: {
			Name:        "Perplexity",
			Description: "Search-augmented models via pplx-api",
			Website:     "https://perplexity.ai",
			KeyFormat:   "pplx-...",
			Category:    CategoryFreemium,
		},
		core.ProviderAnyscale: {
			Name:        "Anyscale",
			Description: "Ray-hosted open model endpoints",
			Website:     "https://anyscale.com",
			KeyFormat:   "esecret_...",
			Category:    CategoryFreemium,
		},
		core.ProviderReplicate: {
			Name:        "Replicate",
			Description: "Hosted inference for community models",
			Website:     "https://replicate.com",
			KeyFormat:   "r8_...",
			Category:    CategoryCredit,
		},
		core.ProviderAI21: {
			Name:        "AI21",
			Description: "Provider of Jurassic and Jamba models",
			Website:     "https://ai21.com",
			KeyFormat:   "32-character string",
			Category:    CategoryFreemium,
		},
		core.ProviderElevenLabs: {
			Name:        "ElevenLabs",
			Description: "Voice synthesis models",
			Website:     "https://elevenlabs.io",
			KeyFormat:   "32-character string or sk_...",
			Category:    CategoryFreemium,
		},
		core.ProviderXAI: {
			Name:        "xAI",
			Description: "Provider of Grok models",
			Website:     "https://x.ai",
			KeyFormat:   "xai-...",
			Category:    CategoryPremium,
		},
		core.ProviderAWS: {
			Name:        "AWS Bedrock",
			Description: "AWS-hosted foundation models",
			Website:     "https://aws.amazon.com/bedrock",
			KeyFormat:   "AKIA...:secret",
			Category:    CategoryPremium,
		},
		core.ProviderAzure: {
			Name:        "Azure OpenAI",
			Description: "Azure-hosted OpenAI deployments",
			Website:     "https://azure.microsoft.com/products/ai-services/openai-service",
			KeyFormat:   "endpoint:32-character key",
			Category:    CategoryPremium,
		},
	}
}
