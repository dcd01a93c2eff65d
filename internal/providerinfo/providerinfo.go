// Package providerinfo is a read-only reference catalog of descriptive
// provider metadata: signup and pricing links, free-tier flags, key formats,
// and rate-limit blurbs. The formatter consumes it to enrich account
// summaries; nothing in the validation path mutates it.
package providerinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

// Info describes one provider for display purposes.
type Info struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Website            string   `json:"website,omitempty"`
	SignupURL          string   `json:"signup_url,omitempty"`
	PricingURL         string   `json:"pricing_url,omitempty"`
	DocsURL            string   `json:"docs_url,omitempty"`
	FreeTier           bool     `json:"free_tier"`
	CreditCardRequired bool     `json:"credit_card_required"`
	KeyFormat          string   `json:"key_format,omitempty"`
	RateLimit          string   `json:"rate_limit,omitempty"`
	FeaturedModels     []string `json:"featured_models,omitempty"`
	Category           string   `json:"category,omitempty"`
}

// Categories used by the built-in catalog.
const (
	CategoryFree     = "free"     // no credit card required
	CategoryPremium  = "premium"  // credit card required
	CategoryFreemium = "freemium" // limited free access with paid tiers
	CategoryCredit   = "credit"   // free credits for new users
)

// Catalog is a concurrency-safe provider reference lookup.
type Catalog struct {
	mu    sync.RWMutex
	infos map[core.Provider]Info
}

// Builtin returns the catalog shipped with the binary.
func Builtin() *Catalog {
	return &Catalog{infos: builtinInfos()}
}

// Get looks up reference data for a provider.
func (c *Catalog) Get(p core.Provider) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.infos[p]
	return info, ok
}

// Providers lists catalogued providers in the canonical order.
func (c *Catalog) Providers() []core.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []core.Provider
	for _, p := range core.Providers() {
		if _, ok := c.infos[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ApplyOverrides merges a JSON overrides file (provider name → Info) over
// the catalog. A missing file is not an error; a malformed one is.
func (c *Catalog) ApplyOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading provider info overrides: %w", err)
	}

	var overrides map[string]Info
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parsing provider info overrides: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for name, info := range overrides {
		p, ok := core.ParseProvider(name)
		if !ok {
			continue
		}
		c.infos[p] = merge(c.infos[p], info)
	}
	return nil
}

// merge lays non-zero override fields over the base entry.
func merge(base, over Info) Info {
	out := base
	if over.Name != "" {
		out.Name = over.Name
	}
	if over.Description != "" {
		out.Description = over.Description
	}
	if over.Website != "" {
		out.Website = over.Website
	}
	if over.SignupURL != "" {
		out.SignupURL = over.SignupURL
	}
	if over.PricingURL != "" {
		out.PricingURL = over.PricingURL
	}
	if over.DocsURL != "" {
		out.DocsURL = over.DocsURL
	}
	if over.KeyFormat != "" {
		out.KeyFormat = over.KeyFormat
	}
	if over.RateLimit != "" {
		out.RateLimit = over.RateLimit
	}
	if len(over.FeaturedModels) > 0 {
		out.FeaturedModels = over.FeaturedModels
	}
	if over.Category != "" {
		out.Category = over.Category
	}
	out.FreeTier = base.FreeTier || over.FreeTier
	out.CreditCardRequired = base.CreditCardRequired || over.CreditCardRequired
	return out
}

// Enrich appends catalog links and flags to a report. Read-only with respect
// to the catalog; the report is the only thing modified.
func (c *Catalog) Enrich(rep *core.Report, p core.Provider) {
	info, ok := c.Get(p)
	if !ok {
		return
	}
	if info.PricingURL != "" {
		rep.AddField("pricing", info.PricingURL)
	}
	if info.SignupURL != "" && rep.Validity == core.Invalid {
		rep.AddField("signup", info.SignupURL)
	}
	if info.DocsURL != "" {
		rep.AddField("docs", info.DocsURL)
	}
}
