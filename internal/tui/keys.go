package tui

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelsmith/reelsmith-agent/internal/keymap"
)

// keyEventFrom normalizes a bubbletea key message into the router's event
// shape. Terminals have no command key, so ctrl is presented as both the
// ctrl and meta modifier and the router's platform convention resolves
// either way. Ctrl+shift chords are indistinguishable from plain ctrl in a
// terminal; ctrl+y stands in for the shifted redo chord.
func keyEventFrom(msg tea.KeyMsg, textInput bool) keymap.KeyEvent {
	ev := keymap.KeyEvent{Alt: msg.Alt, TextInput: textInput}

	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return ev
		}
		r := msg.Runes[0]
		ev.Key = strings.ToLower(string(r))
		ev.Shift = unicode.IsUpper(r)
	case tea.KeySpace:
		ev.Key = "space"
	case tea.KeyLeft:
		ev.Key = "left"
	case tea.KeyRight:
		ev.Key = "right"
	case tea.KeyShiftLeft:
		ev.Key, ev.Shift = "left", true
	case tea.KeyShiftRight:
		ev.Key, ev.Shift = "right", true
	case tea.KeyHome:
		ev.Key = "home"
	case tea.KeyEnd:
		ev.Key = "end"
	case tea.KeyDelete:
		ev.Key = "delete"
	case tea.KeyBackspace:
		ev.Key = "backspace"
	case tea.KeyCtrlZ:
		ev.Key, ev.Ctrl, ev.Meta = "z", true, true
	case tea.KeyCtrlY:
		ev.Key, ev.Ctrl, ev.Meta, ev.Shift = "z", true, true, true
	case tea.KeyCtrlX:
		ev.Key, ev.Ctrl, ev.Meta = "x", true, true
	case tea.KeyCtrlV:
		ev.Key, ev.Ctrl, ev.Meta = "v", true, true
	case tea.KeyCtrlA:
		ev.Key, ev.Ctrl, ev.Meta = "a", true, true
	}

	return ev
}
