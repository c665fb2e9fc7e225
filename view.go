package creditpane

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Styles — Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	balanceStyle = lipgloss.NewStyle().Foreground(colorBalance).Bold(true)

	hintStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	// Modal chrome
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	readoutStyle = lipgloss.NewStyle().Foreground(colorSubtext1)

	// Package cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	cardFocusStyle = cardStyle.BorderForeground(colorFocus)

	cardSelectedStyle = cardStyle.BorderForeground(colorAccent)

	checkStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	creditsStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	priceStyle    = lipgloss.NewStyle().Foreground(colorBalance)
	featuredStyle = lipgloss.NewStyle().Foreground(colorFeatured).Bold(true)
	savingsStyle  = lipgloss.NewStyle().Foreground(colorSavings)

	// Status bar (above footer)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	statusErrStyle = statusBarStyle.Foreground(colorError)

	// Footer bar
	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
)

const cardWidth = 24

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() string {
	statusLine := m.renderStatus()
	footer := m.renderFooter(m.footerBindings())
	base := m.placeWithFooter(m.panelView(), statusLine, footer)

	if m.phase == phaseClosed {
		return base
	}
	modal := modalStyle.Render(m.modalView())
	if m.width == 0 || m.height == 0 {
		return base + "\n\n" + modal
	}
	return overlayCenter(base, modal, m.width, m.height-2)
}

func (m Model) footerBindings() []key.Binding {
	if m.phase == phaseClosed {
		return m.keys.panelBindings()
	}
	return m.keys.modalBindings()
}

// ---------------------------------------------------------------------------
// Balance panel
// ---------------------------------------------------------------------------

func (m Model) panelView() string {
	lines := []string{
		balanceStyle.Render(fmt.Sprintf("%d credits", m.credits)),
		"",
		hintStyle.Render("b  buy credits"),
		hintStyle.Render("h  purchase history"),
	}
	return m.renderSection("Balance", strings.Join(lines, "\n"))
}

func (m Model) renderSection(title, content string) string {
	contentWidth := maxLineWidth(splitLines(content))
	if w := lipgloss.Width(titleStyle.Render(title)); w > contentWidth {
		contentWidth = w
	}
	sep := lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("─", contentWidth))
	section := sectionStyle.Render(titleStyle.Render(title) + "\n" + sep + "\n" + content)
	if m.width == 0 {
		return section
	}
	return lipgloss.Place(m.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

// ---------------------------------------------------------------------------
// Purchase modal
// ---------------------------------------------------------------------------

func (m Model) modalView() string {
	title := titleStyle.Render("Buy Credits")
	readout := readoutStyle.Render(fmt.Sprintf("Balance: %d credits", m.credits))
	grid := m.renderGrid()

	hint := "enter select · b confirm · esc close"
	if m.phase == phasePurchasing {
		hint = "purchasing — please wait"
	}
	return title + "\n" + readout + "\n\n" + grid + "\n" + hintStyle.Render(hint)
}

// renderGrid lays the supplied packages out two columns wide, in supplied
// order.
func (m Model) renderGrid() string {
	if len(m.packages) == 0 {
		return hintStyle.Render("No packages available.")
	}
	var rows []string
	for start := 0; start < len(m.packages); start += gridColumns {
		end := start + gridColumns
		if end > len(m.packages) {
			end = len(m.packages)
		}
		cards := make([]string, 0, gridColumns)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCard(i int) string {
	pkg := m.packages[i]
	focused := i == m.cursor && m.phase == phaseSelecting
	selected := i == m.selected || (m.buying != nil && m.buying.ID == pkg.ID)

	mark := "  "
	if selected {
		mark = checkStyle.Render("✓ ")
	}
	header := mark + creditsStyle.Render(fmt.Sprintf("%d credits", pkg.Credits))

	price := "  " + priceStyle.Render(formatPrice(pkg))
	if pkg.Featured {
		price += "  " + featuredStyle.Render("★ featured")
	}
	lines := []string{header, price}
	if pkg.Savings != "" {
		lines = append(lines, "  "+savingsStyle.Render(pkg.Savings))
	}

	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	if focused {
		style = cardFocusStyle
	}
	return style.Width(cardWidth).Render(strings.Join(lines, "\n"))
}

// ---------------------------------------------------------------------------
// Status bar and footer
// ---------------------------------------------------------------------------

func (m Model) renderStatus() string {
	style := statusBarStyle
	if m.statusErr {
		style = statusErrStyle
	}
	flat := strings.ReplaceAll(m.status, "\n", " ")
	if m.width == 0 {
		return style.Render(flat)
	}
	return style.Width(m.width).Render(flat)
}

func (m Model) renderFooter(bindings []key.Binding) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(content)
}

func (m Model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines prevent ghosting from previous frames.
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	return strings.Join(lines, "\n") + "\n" + statusLine + "\n" + footer
}
