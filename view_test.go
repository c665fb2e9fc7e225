package creditpane

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
)

func itoa(n int) string { return strconv.Itoa(n) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sizeMsg(w, h int) tea.WindowSizeMsg { return tea.WindowSizeMsg{Width: w, Height: h} }

func visibleWidth(line string) int { return ansi.StringWidth(line) }

func TestPanelShowsCreditBalance(t *testing.T) {
	for _, n := range []int{0, 1, 37, 94235} {
		m := New(Options{Credits: n})
		view := m.View()
		want := itoa(n) + " credits"
		if !strings.Contains(view, want) {
			t.Fatalf("panel view missing %q:\n%s", want, view)
		}
	}
}

func TestNegativeCreditsClampToZero(t *testing.T) {
	m := New(Options{Credits: -3})
	if !strings.Contains(m.View(), "0 credits") {
		t.Fatal("negative credits should render as 0 credits")
	}
}

func TestModalShowsBalanceReadout(t *testing.T) {
	m := openModal(t, New(Options{Credits: 37}))
	if !strings.Contains(m.modalView(), "Balance: 37 credits") {
		t.Fatalf("modal readout missing balance:\n%s", m.modalView())
	}
}

func TestDefaultPackagesRender(t *testing.T) {
	m := openModal(t, New(Options{}))
	grid := m.renderGrid()

	for _, want := range []string{"20 credits", "50 credits", "100 credits", "200 credits",
		"1.99", "3.99", "6.99", "12.99"} {
		if !strings.Contains(grid, want) {
			t.Fatalf("grid missing %q:\n%s", want, grid)
		}
	}
	if got := strings.Count(grid, "★ featured"); got != 1 {
		t.Fatalf("featured badge count = %d, want exactly 1 (the 50-credit package)", got)
	}
	if !strings.Contains(grid, "Save 20%") {
		t.Fatalf("grid missing savings tag:\n%s", grid)
	}
}

func TestCheckmarkFollowsSelection(t *testing.T) {
	m := openModal(t, New(Options{}))
	if strings.Contains(m.renderGrid(), "✓") {
		t.Fatal("no checkmark expected before selection")
	}

	m, _ = press(t, m, "enter")
	if got := strings.Count(m.renderGrid(), "✓"); got != 1 {
		t.Fatalf("checkmark count = %d, want 1", got)
	}

	m, _ = press(t, m, "right")
	m, _ = press(t, m, "enter")
	if got := strings.Count(m.renderGrid(), "✓"); got != 1 {
		t.Fatalf("checkmark count after re-select = %d, want 1", got)
	}
}

func TestSuppliedOrderPreserved(t *testing.T) {
	pkgs := []Package{
		{ID: "big", Credits: 500, Price: dec("20.00")},
		{ID: "small", Credits: 5, Price: dec("0.99")},
	}
	m := openModal(t, New(Options{Packages: pkgs}))
	grid := m.renderGrid()
	if strings.Index(grid, "500 credits") > strings.Index(grid, "5 credits") {
		t.Fatalf("packages rendered out of supplied order:\n%s", grid)
	}
}

func TestModalOverlaysPanel(t *testing.T) {
	m := New(Options{Credits: 12})
	next, _ := m.Update(sizeMsg(100, 40))
	m = next.(Model)
	m = openModal(t, m)

	view := m.View()
	if !strings.Contains(view, "Buy Credits") {
		t.Fatalf("composed view missing modal title:\n%s", view)
	}
	for _, line := range strings.Split(view, "\n") {
		if w := visibleWidth(line); w > 100 {
			t.Fatalf("composed line wider than terminal: %d\n%q", w, line)
		}
	}
}
