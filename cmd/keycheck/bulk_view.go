package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

// resultMsg carries one finished validation into the progress view.
type resultMsg struct {
	index  int
	report core.Report
}

// batchDoneMsg carries the full ordered result set once the batch finishes.
type batchDoneMsg struct {
	reports []core.Report
}

const recentLines = 8

// bulkModel is the live progress view for a bulk run. It counts outcomes as
// they arrive and keeps a short tail of recent results on screen.
type bulkModel struct {
	total   int
	done    int
	valid   int
	invalid int
	unknown int
	recent  []string
	reports []core.Report
}

func newBulkModel(total int) bulkModel {
	return bulkModel{total: total}
}

func (m bulkModel) Init() tea.Cmd {
	return nil
}

func (m bulkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.done++
		switch msg.report.Validity {
		case core.Valid:
			m.valid++
		case core.Invalid:
			m.invalid++
		default:
			m.unknown++
		}
		m.recent = append(m.recent, renderResultLine(msg.report))
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}
		return m, nil

	case batchDoneMsg:
		m.reports = msg.reports
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m bulkModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Validating keys") + "  " +
		dimStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)) + "\n")
	b.WriteString(fmt.Sprintf("  %s %d   %s %d   %s %d\n",
		validStyle.Render("valid"), m.valid,
		invalidStyle.Render("invalid"), m.invalid,
		unknownStyle.Render("unknown"), m.unknown,
	))
	for _, line := range m.recent {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// renderResultLine renders one report as a compact single line, shared by the
// progress view and plain output.
func renderResultLine(rep core.Report) string {
	parts := []string{validityBadge(rep.Validity), titleStyle.Render(rep.Provider)}
	if rep.Hint != "" {
		parts = append(parts, dimStyle.Render(rep.Hint))
	}
	if rep.Message != "" {
		parts = append(parts, valueStyle.Render(rep.Message))
	}
	return strings.Join(parts, "  ")
}

// renderBatchSummary renders the closing counts for a finished batch.
func renderBatchSummary(reports []core.Report) string {
	var valid, invalid, unknown int
	for _, rep := range reports {
		switch rep.Validity {
		case core.Valid:
			valid++
		case core.Invalid:
			invalid++
		default:
			unknown++
		}
	}
	return fmt.Sprintf("%s  %d keys: %s %d, %s %d, %s %d",
		titleStyle.Render("Done"), len(reports),
		validStyle.Render("valid"), valid,
		invalidStyle.Render("invalid"), invalid,
		unknownStyle.Render("unknown"), unknown,
	)
}
