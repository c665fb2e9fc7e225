package creditpane

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got, cmd
}

func openModal(t *testing.T, m Model) Model {
	t.Helper()
	got, _ := press(t, m, "b")
	if got.phase != phaseSelecting {
		t.Fatalf("phase = %d, want phaseSelecting", got.phase)
	}
	return got
}

func succeedingPurchase(calls *[]Package) PurchaseFunc {
	return func(_ context.Context, pkg Package) (Receipt, error) {
		*calls = append(*calls, pkg)
		return Receipt{ID: "r-1", NewBalance: 100 + pkg.Credits}, nil
	}
}

func TestOpenPurchaseFlow(t *testing.T) {
	m := New(Options{Credits: 10})
	got := openModal(t, m)
	if got.selected != -1 {
		t.Fatalf("selected = %d, want -1 on open", got.selected)
	}
}

func TestSelectionIsExclusive(t *testing.T) {
	m := openModal(t, New(Options{}))

	m, _ = press(t, m, "enter")
	if m.selected != 0 {
		t.Fatalf("selected = %d, want 0", m.selected)
	}

	m, _ = press(t, m, "right")
	m, _ = press(t, m, "enter")
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1 after re-select", m.selected)
	}
}

func TestConfirmDisabledWithoutSelection(t *testing.T) {
	var calls []Package
	m := openModal(t, New(Options{Purchase: succeedingPurchase(&calls)}))

	got, cmd := press(t, m, "b")
	if got.phase != phaseSelecting {
		t.Fatalf("phase = %d, want phaseSelecting", got.phase)
	}
	if cmd != nil {
		t.Fatal("confirm without selection should produce no command")
	}
	if len(calls) != 0 {
		t.Fatalf("collaborator called %d times, want 0", len(calls))
	}
}

func TestConfirmInvokesCollaboratorOnce(t *testing.T) {
	var calls []Package
	m := openModal(t, New(Options{Purchase: succeedingPurchase(&calls)}))
	m, _ = press(t, m, "enter")

	m, cmd := press(t, m, "b")
	if m.phase != phasePurchasing {
		t.Fatalf("phase = %d, want phasePurchasing", m.phase)
	}
	if m.buying == nil {
		t.Fatal("purchasing phase must carry the purchase target")
	}
	if cmd == nil {
		t.Fatal("expected purchase command")
	}
	msg := cmd()
	done, ok := msg.(purchaseDoneMsg)
	if !ok {
		t.Fatalf("command produced %T, want purchaseDoneMsg", msg)
	}
	if done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
	if len(calls) != 1 {
		t.Fatalf("collaborator called %d times, want 1", len(calls))
	}
	if calls[0].ID != DefaultPackages()[0].ID {
		t.Fatalf("collaborator got %q, want %q", calls[0].ID, DefaultPackages()[0].ID)
	}
}

func TestSelectionAndCloseDisabledWhilePurchasing(t *testing.T) {
	var calls []Package
	m := openModal(t, New(Options{Purchase: succeedingPurchase(&calls)}))
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "b")

	for _, k := range []string{"enter", "right", "b", "esc"} {
		got, cmd := press(t, m, k)
		if got.phase != phasePurchasing {
			t.Fatalf("key %q changed phase to %d while purchasing", k, got.phase)
		}
		if cmd != nil {
			t.Fatalf("key %q produced a command while purchasing", k)
		}
	}
	if len(calls) != 1 {
		t.Fatalf("collaborator called %d times, want 1", len(calls))
	}
}

func TestPurchaseSuccessClosesModal(t *testing.T) {
	var calls []Package
	m := openModal(t, New(Options{Credits: 100, Purchase: succeedingPurchase(&calls)}))
	m, _ = press(t, m, "enter")
	m, cmd := press(t, m, "b")

	next, _ := m.Update(cmd())
	got := next.(Model)
	if got.phase != phaseClosed {
		t.Fatalf("phase = %d, want phaseClosed after success", got.phase)
	}
	if got.selected != -1 {
		t.Fatalf("selected = %d, want cleared", got.selected)
	}
	if got.buying != nil {
		t.Fatal("buying not cleared after success")
	}
	if got.Credits() != 120 {
		t.Fatalf("credits = %d, want 120 from receipt", got.Credits())
	}
	if got.statusErr {
		t.Fatalf("statusErr set on success, status %q", got.status)
	}
}

func TestPurchaseFailureKeepsModalOpen(t *testing.T) {
	fail := func(_ context.Context, _ Package) (Receipt, error) {
		return Receipt{}, errors.New("card declined")
	}
	m := openModal(t, New(Options{Credits: 40, Purchase: fail}))
	m, _ = press(t, m, "enter")
	m, cmd := press(t, m, "b")

	next, _ := m.Update(cmd())
	got := next.(Model)
	if got.phase != phaseSelecting {
		t.Fatalf("phase = %d, want phaseSelecting after failure", got.phase)
	}
	if got.selected != -1 {
		t.Fatalf("selected = %d, want cleared after failure", got.selected)
	}
	if !got.statusErr {
		t.Fatal("failure must surface as an error status")
	}
	if !strings.Contains(got.status, "card declined") {
		t.Fatalf("status %q does not mention the failure", got.status)
	}
	if got.Credits() != 40 {
		t.Fatalf("credits = %d, want unchanged 40", got.Credits())
	}
}

func TestCloseClearsSelection(t *testing.T) {
	m := openModal(t, New(Options{}))
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "esc")
	if m.phase != phaseClosed {
		t.Fatalf("phase = %d, want phaseClosed", m.phase)
	}
	if m.selected != -1 {
		t.Fatalf("selected = %d, want cleared on close", m.selected)
	}
}

func TestStalePurchaseCompletionIgnored(t *testing.T) {
	m := New(Options{Credits: 5})
	next, _ := m.Update(purchaseDoneMsg{receipt: Receipt{NewBalance: 999}})
	got := next.(Model)
	if got.phase != phaseClosed || got.Credits() != 5 {
		t.Fatalf("stale completion mutated state: phase %d credits %d", got.phase, got.Credits())
	}
}

func TestHistoryKeyEmitsHostMessage(t *testing.T) {
	type historyMsg struct{}
	m := New(Options{OnHistory: func() tea.Msg { return historyMsg{} }})
	_, cmd := press(t, m, "h")
	if cmd == nil {
		t.Fatal("expected history command")
	}
	if _, ok := cmd().(historyMsg); !ok {
		t.Fatalf("history command produced %T, want historyMsg", cmd())
	}
}

func TestGridCursorClamped(t *testing.T) {
	m := openModal(t, New(Options{}))
	m, _ = press(t, m, "up")
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want clamped to 0", m.cursor)
	}
	for range 8 {
		m, _ = press(t, m, "down")
	}
	if m.cursor != len(m.packages)-1 {
		t.Fatalf("cursor = %d, want clamped to %d", m.cursor, len(m.packages)-1)
	}
}
