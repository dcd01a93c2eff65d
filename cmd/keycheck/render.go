package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/keycheck/internal/core"
	"github.com/janekbaraniewski/keycheck/internal/history"
	"github.com/janekbaraniewski/keycheck/internal/providerinfo"
)

// ─── Color Palette (Catppuccin Mocha) ───────────────────────────────────────

var (
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorDim      = lipgloss.Color("#585B70")
	colorGreen    = lipgloss.Color("#A6E3A1") // valid
	colorRed      = lipgloss.Color("#F38BA8") // invalid
	colorYellow   = lipgloss.Color("#F9E2AF") // unknown / pending
	colorBlue     = lipgloss.Color("#89B4FA") // section headers
	colorLavender = lipgloss.Color("#B4BEFE") // titles
	colorSapphire = lipgloss.Color("#74C7EC") // links
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	validStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	invalidStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	unknownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	linkStyle = lipgloss.NewStyle().
			Foreground(colorSapphire)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

func validityBadge(v core.Validity) string {
	switch v {
	case core.Valid:
		return validStyle.Render("✓ valid")
	case core.Invalid:
		return invalidStyle.Render("✗ invalid")
	default:
		return unknownStyle.Render("? unknown")
	}
}

// renderReport renders one validation report as a bordered card.
func renderReport(rep core.Report) string {
	var b strings.Builder

	header := titleStyle.Render(rep.Provider) + "  " + validityBadge(rep.Validity)
	if rep.Hint != "" {
		header += "  " + dimStyle.Render(rep.Hint)
	}
	b.WriteString(header + "\n")

	if rep.Message != "" {
		b.WriteString(valueStyle.Render(rep.Message) + "\n")
	}
	if rep.Err != "" {
		b.WriteString(labelStyle.Render("error: ") + invalidStyle.Render(rep.Err) + "\n")
	}

	if len(rep.Fields) > 0 {
		b.WriteString(sectionStyle.Render("Details") + "\n")
		for _, f := range rep.Fields {
			value := f.Value
			if strings.HasPrefix(value, "http") {
				value = linkStyle.Render(value)
			} else {
				value = valueStyle.Render(value)
			}
			b.WriteString("  " + labelStyle.Render(f.Name+": ") + value + "\n")
		}
	}

	if rep.Summary != nil {
		b.WriteString(sectionStyle.Render("Account Summary") + "\n")
		for _, row := range summaryRows(rep.Summary) {
			b.WriteString("  " + labelStyle.Render(row[0]+": ") + valueStyle.Render(row[1]) + "\n")
		}
	}

	if rep.Usage != nil {
		b.WriteString(sectionStyle.Render("Usage") + "\n")
		b.WriteString("  " + labelStyle.Render("total: ") +
			valueStyle.Render(fmt.Sprintf("$%.2f", rep.Usage.TotalUSD)) + "\n")
		b.WriteString("  " + labelStyle.Render("period: ") + valueStyle.Render(rep.Usage.Period) + "\n")
	}

	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func summaryRows(s *core.AccountSummary) [][2]string {
	var rows [][2]string
	add := func(label, value string) {
		if value != "" {
			rows = append(rows, [2]string{label, value})
		}
	}
	add("plan", s.Plan)
	add("status", s.Status)
	add("credit_card", s.CreditCard)
	add("rate_limit", s.RateLimit)
	add("token_limit", s.TokenLimit)
	add("featured_models", s.FeaturedModels)
	for _, row := range s.Rows {
		add(row.Label, row.Value)
	}
	add("note", s.Note)
	return rows
}

// renderInfo renders one provider catalog entry.
func renderInfo(p core.Provider, info providerinfo.Info) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(info.Name) + "  " + dimStyle.Render(string(p)) + "\n")
	b.WriteString(valueStyle.Render(info.Description) + "\n")

	add := func(label, value string, link bool) {
		if value == "" {
			return
		}
		if link {
			b.WriteString("  " + labelStyle.Render(label+": ") + linkStyle.Render(value) + "\n")
		} else {
			b.WriteString("  " + labelStyle.Render(label+": ") + valueStyle.Render(value) + "\n")
		}
	}
	add("website", info.Website, true)
	add("signup", info.SignupURL, true)
	add("pricing", info.PricingURL, true)
	add("docs", info.DocsURL, true)
	add("key_format", info.KeyFormat, false)
	add("rate_limit", info.RateLimit, false)
	if len(info.FeaturedModels) > 0 {
		add("featured_models", strings.Join(info.FeaturedModels, ", "), false)
	}
	if info.FreeTier {
		add("free_tier", "yes", false)
	}
	if info.CreditCardRequired {
		add("credit_card", "required", false)
	}
	add("category", info.Category, false)

	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderRecord renders one history row as a single line.
func renderRecord(rec history.Record) string {
	ts := dimStyle.Render(rec.Timestamp.Local().Format("2006-01-02 15:04"))
	return fmt.Sprintf("%s  %s  %s  %s  %s",
		ts,
		titleStyle.Render(rec.Provider),
		dimStyle.Render(rec.Hint),
		validityBadge(rec.Validity),
		valueStyle.Render(rec.Message),
	)
}
