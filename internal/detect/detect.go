// Package detect infers which provider issued a credential from its lexical
// shape alone. Detection is a best guess: the live API is the source of
// truth, and a miss is recoverable by passing the provider explicitly.
package detect

import (
	"regexp"
	"strings"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

// rule is one (pattern, provider) detection rule. When marker is non-empty
// the raw string must also contain it; OpenAI keys embed a well-known base64
// marker that separates them from other sk- shapes.
type rule struct {
	provider core.Provider
	re       *regexp.Regexp
	marker   string
}

// rules is evaluated top to bottom; the first match wins. Ordering is part of
// the contract, in three tiers:
//
//  1. distinctive prefixes (sk-ant-, gsk_, AIzaSy, ...): unambiguous evidence;
//  2. compound identifier:secret shapes (AWS, Azure): structural evidence;
//  3. generic fixed-length shapes, with fixed tie-breaks: a bare 32-char
//     string could be Mistral, AI21, or ElevenLabs and resolves to Mistral;
//     a bare 40-char string could be Cohere or Together and resolves to
//     Cohere.
var rules = []rule{
	// Tier 1: distinctive prefixes.
	{core.ProviderAnthropic, regexp.MustCompile(`^sk-ant-api03-\w{93}AA$`), ""},
	{core.ProviderAnthropic, regexp.MustCompile(`^sk-ant-\w{86}$`), ""},
	{core.ProviderGroq, regexp.MustCompile(`^gsk_\w{48}$`), ""},
	{core.ProviderGoogle, regexp.MustCompile(`^AIzaSy\w{33}$`), ""},
	{core.ProviderOpenRouter, regexp.MustCompile(`^sk-or-v1-\w{64}$`), ""},
	{core.ProviderPerplexity, regexp.MustCompile(`^pplx-\w{40}$`), ""},
	{core.ProviderAnyscale, regexp.MustCompile(`^esecret_\w{40}$`), ""},
	{core.ProviderReplicate, regexp.MustCompile(`^r8_\w{40}$`), ""},
	{core.ProviderXAI, regexp.MustCompile(`^xai-\w{80}$`), ""},
	{core.ProviderElevenLabs, regexp.MustCompile(`^sk_\w{48}$`), ""},
	{core.ProviderOpenAI, regexp.MustCompile(`^sk-\w{48}$`), "T3BlbkFJ"},
	{core.ProviderDeepSeek, regexp.MustCompile(`^sk-\w{32}$`), ""},
	{core.ProviderAnthropic, regexp.MustCompile(`^sk-\w{86}$`), ""},

	// Tier 2: compound identifier:secret shapes.
	{core.ProviderAWS, regexp.MustCompile(`^AKIA\w{16}:\w{40}$`), ""},
	{core.ProviderAzure, regexp.MustCompile(`^.+:\w{32}$`), ""},

	// Tier 3: generic fixed lengths, documented tie-breaks.
	{core.ProviderMistral, regexp.MustCompile(`^\w{32}$`), ""},
	{core.ProviderCohere, regexp.MustCompile(`^\w{40}$`), ""},
}

// Provider returns the most likely issuer of a raw credential, or
// core.ProviderUnknown when nothing matches. Pure function: no I/O, no
// hidden state, deterministic for a given input.
func Provider(raw string) core.Provider {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.ProviderUnknown
	}
	for _, r := range rules {
		if r.marker != "" && !strings.Contains(raw, r.marker) {
			continue
		}
		if r.re.MatchString(raw) {
			return r.provider
		}
	}
	return core.ProviderUnknown
}

// Key detects the provider and constructs the matching credential in one
// step. The second result is false when detection failed.
func Key(raw string) (*core.Key, bool) {
	p := Provider(raw)
	if p == core.ProviderUnknown {
		return nil, false
	}
	k, err := core.New(p, strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	return k, true
}
