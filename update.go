package creditpane

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// gridColumns is fixed by the card layout in view.go.
const gridColumns = 2

// ---------------------------------------------------------------------------
// Key-input handlers
// ---------------------------------------------------------------------------

func (m Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "b":
		m.phase = phaseSelecting
		m.cursor = 0
		m.selected = -1
		m.status = "Select a package."
		m.statusErr = false
		return m, nil
	case "h":
		if m.opts.OnHistory == nil {
			return m, nil
		}
		onHistory := m.opts.OnHistory
		return m, func() tea.Msg { return onHistory() }
	}
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.phase == phasePurchasing {
		// Everything else is disabled until the collaborator resolves.
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.phase = phaseClosed
		m.selected = -1
		m.status = "Ready. Press b to buy credits, h for history."
		m.statusErr = false
		return m, nil
	case "up", "k":
		m.cursor = clampIndex(m.cursor-gridColumns, len(m.packages))
		return m, nil
	case "down", "j":
		m.cursor = clampIndex(m.cursor+gridColumns, len(m.packages))
		return m, nil
	case "left", "h":
		m.cursor = clampIndex(m.cursor-1, len(m.packages))
		return m, nil
	case "right", "l":
		m.cursor = clampIndex(m.cursor+1, len(m.packages))
		return m, nil
	case "enter":
		return m.selectCursor()
	case "b":
		return m.confirmPurchase()
	}
	return m, nil
}

// selectCursor marks the highlighted package as the selection, replacing any
// previous one (single-selection semantics).
func (m Model) selectCursor() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.packages) {
		return m, nil
	}
	m.selected = m.cursor
	pkg := m.packages[m.selected]
	m.status = fmt.Sprintf("Selected %d credits for %s. Press b to confirm.", pkg.Credits, formatPrice(pkg))
	m.statusErr = false
	return m, nil
}

func (m Model) confirmPurchase() (tea.Model, tea.Cmd) {
	if m.selected < 0 {
		m.status = "No package selected."
		return m, nil
	}
	if m.opts.Purchase == nil {
		m.status = "Purchases unavailable."
		m.statusErr = true
		return m, nil
	}
	pkg := m.packages[m.selected]
	m.phase = phasePurchasing
	m.buying = &pkg
	m.status = fmt.Sprintf("Purchasing %d credits...", pkg.Credits)
	m.statusErr = false
	return m, m.purchaseCmd(pkg)
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
