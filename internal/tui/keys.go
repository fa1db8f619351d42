package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit      key.Binding
	Newline     key.Binding
	Acknowledge key.Binding
	Compose     key.Binding
	Blur        key.Binding
	Reset       key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Ask")),
		Newline:     key.NewBinding(key.WithKeys("shift+enter", "alt+enter", "ctrl+j"), key.WithHelp("Shift+Enter", "New line")),
		Acknowledge: key.NewBinding(key.WithKeys(" ", "space", "d"), key.WithHelp("Space", "Step done")),
		Compose:     key.NewBinding(key.WithKeys("tab", "i"), key.WithHelp("Tab", "Type a question")),
		Blur:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back to cards")),
		Reset:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Start over")),
		ScrollUp:    key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑", "Scroll chat")),
		ScrollDown:  key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓", "Scroll chat")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Toggle keys")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Quit")),
	}
}

// legend lists the bindings shown for the focused area.
func (k keyMap) legend(focus focusArea) []key.Binding {
	if focus == focusComposer {
		return []key.Binding{k.Submit, k.Newline, k.Blur, k.Reset, k.ForceQuit}
	}
	return []key.Binding{k.Acknowledge, k.Compose, k.ScrollUp, k.Reset, k.Help, k.Quit}
}
