package creditpane

import "github.com/charmbracelet/bubbles/key"

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	Buy     key.Binding
	History key.Binding
	Move    key.Binding
	Select  key.Binding
	Confirm key.Binding
	Close   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Buy:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy credits")),
		History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Move:    key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("arrows", "navigate")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Confirm: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "confirm purchase")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// panelBindings is the footer help while the modal is closed.
func (k keyMap) panelBindings() []key.Binding {
	return []key.Binding{k.Buy, k.History, k.Quit}
}

// modalBindings is the footer help while the purchase modal is open.
func (k keyMap) modalBindings() []key.Binding {
	return []key.Binding{k.Move, k.Select, k.Confirm, k.Close}
}
