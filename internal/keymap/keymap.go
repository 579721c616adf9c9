// Package keymap translates host key events into timeline store operations.
// The router is stateless beyond its store handle and binding table; hosts
// normalize raw input into KeyEvent values and hand them to Handle.
package keymap

import (
	"runtime"

	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

// Action identifies an editor operation a key chord can trigger.
type Action string

const (
	ActionTogglePlay   Action = "toggle_play"
	ActionForcePause   Action = "force_pause"
	ActionScrubBack    Action = "scrub_back"
	ActionScrubFwd     Action = "scrub_forward"
	ActionScrubBackBig Action = "scrub_back_big"
	ActionScrubFwdBig  Action = "scrub_forward_big"
	ActionJumpStart    Action = "jump_start"
	ActionJumpEnd      Action = "jump_end"
	ActionShuttleBack  Action = "shuttle_back"
	ActionShuttleFwd   Action = "shuttle_forward"
	ActionDelete       Action = "delete_selected"
	ActionUndo         Action = "undo"
	ActionRedo         Action = "redo"
	ActionCopy         Action = "copy"
	ActionCut          Action = "cut"
	ActionPaste        Action = "paste"
	ActionSelectAll    Action = "select_all"
	ActionSplit        Action = "split_at_playhead"
)

// Scrub step sizes in seconds.
const (
	scrubStep   = 0.1
	scrubBig    = 1.0
	shuttleStep = 5.0
)

// KeyEvent is a normalized key-down event. Key values: "space", "left",
// "right", "home", "end", "delete", "backspace", and lowercase letters.
// TextInput is true while the host's focus sits in a text-entry control;
// the router suppresses every shortcut in that case.
type KeyEvent struct {
	Key       string
	Shift     bool
	Ctrl      bool
	Alt       bool
	Meta      bool
	TextInput bool
}

// chord is the lookup key of the binding table: the key name plus which of
// the two meaningful modifiers are held. Alt never participates in a
// binding, so an alt-chord falls through unhandled.
type chord struct {
	key     string
	mod     bool // platform modifier (meta on darwin family, ctrl elsewhere)
	shift   bool
	noShift bool // binding requires shift released (distinguishes mod+Z from mod+shift+Z)
}

// Router dispatches key events to a timeline store. Construct one per store
// with NewRouter; it holds no other state.
type Router struct {
	store    *timeline.Store
	useMeta  bool
	bindings map[chord]Action
}

// Config holds router construction parameters.
type Config struct {
	// Platform selects the modifier convention: "darwin" and "ios" use the
	// command (meta) key, anything else control. Empty means runtime.GOOS.
	Platform string
}

// NewRouter creates a router bound to the store with the default bindings.
func NewRouter(store *timeline.Store, cfg Config) *Router {
	platform := cfg.Platform
	if platform == "" {
		platform = runtime.GOOS
	}
	r := &Router{
		store:    store,
		useMeta:  platform == "darwin" || platform == "ios",
		bindings: make(map[chord]Action),
	}
	r.registerDefaults()
	return r
}

func (r *Router) registerDefaults() {
	bind := func(key string, mod, shift, noShift bool, action Action) {
		r.bindings[chord{key: key, mod: mod, shift: shift, noShift: noShift}] = action
	}

	bind("space", false, false, false, ActionTogglePlay)
	bind("k", false, false, false, ActionForcePause)

	bind("left", false, false, true, ActionScrubBack)
	bind("right", false, false, true, ActionScrubFwd)
	bind("left", false, true, false, ActionScrubBackBig)
	bind("right", false, true, false, ActionScrubFwdBig)
	bind("home", false, false, false, ActionJumpStart)
	bind("end", false, false, false, ActionJumpEnd)
	bind("j", false, false, false, ActionShuttleBack)
	bind("l", false, false, false, ActionShuttleFwd)

	bind("delete", false, false, false, ActionDelete)
	bind("backspace", false, false, false, ActionDelete)

	bind("z", true, false, true, ActionUndo)
	bind("z", true, true, false, ActionRedo)
	bind("c", true, false, false, ActionCopy)
	bind("x", true, false, false, ActionCut)
	bind("v", true, false, false, ActionPaste)
	bind("a", true, false, false, ActionSelectAll)

	// Bare C is the razor: split the single selected clip at the playhead.
	bind("c", false, false, true, ActionSplit)
}

// Resolve maps an event to its bound action without dispatching it.
func (r *Router) Resolve(ev KeyEvent) (Action, bool) {
	if ev.TextInput || ev.Alt {
		return "", false
	}

	mod := ev.Ctrl
	if r.useMeta {
		mod = ev.Meta
	}

	// Most specific first: exact shift requirement, then shift-agnostic.
	candidates := []chord{
		{key: ev.Key, mod: mod, shift: ev.Shift, noShift: !ev.Shift},
		{key: ev.Key, mod: mod, shift: ev.Shift},
		{key: ev.Key, mod: mod},
	}
	for _, c := range candidates {
		if action, ok := r.bindings[c]; ok {
			return action, true
		}
	}
	return "", false
}

// Handle resolves the event and dispatches the bound store operation. It
// reports whether the event was claimed; unclaimed events belong to the
// host (pane navigation, text entry).
func (r *Router) Handle(ev KeyEvent) bool {
	action, ok := r.Resolve(ev)
	if !ok {
		return false
	}
	r.dispatch(action)
	return true
}

func (r *Router) dispatch(action Action) {
	s := r.store
	switch action {
	case ActionTogglePlay:
		s.TogglePlayPause()
	case ActionForcePause:
		s.SetPlaying(false)
	case ActionScrubBack:
		r.scrub(-scrubStep)
	case ActionScrubFwd:
		r.scrub(scrubStep)
	case ActionScrubBackBig:
		r.scrub(-scrubBig)
	case ActionScrubFwdBig:
		r.scrub(scrubBig)
	case ActionShuttleBack:
		r.scrub(-shuttleStep)
	case ActionShuttleFwd:
		r.scrub(shuttleStep)
	case ActionJumpStart:
		s.SetCurrentTime(0)
	case ActionJumpEnd:
		s.SetCurrentTime(s.Duration())
	case ActionDelete:
		s.DeleteSelected()
	case ActionUndo:
		s.Undo()
	case ActionRedo:
		s.Redo()
	case ActionCopy:
		s.Copy()
	case ActionCut:
		s.Cut()
	case ActionPaste:
		s.Paste()
	case ActionSelectAll:
		s.SelectAll()
	case ActionSplit:
		r.splitAtPlayhead()
	}
}

func (r *Router) scrub(delta float64) {
	r.store.SetCurrentTime(r.store.Playback().CurrentTime + delta)
}

// splitAtPlayhead splits the selected clip at the current time. It applies
// only when exactly one clip is selected; the store rejects boundary and
// text-clip splits on its own.
func (r *Router) splitAtPlayhead() {
	ids := r.store.SelectedIDs()
	if len(ids) != 1 {
		return
	}
	r.store.SplitMedia(ids[0], r.store.Playback().CurrentTime)
}
