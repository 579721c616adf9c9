// Package tui is the terminal editor: a media bin pane, a timeline pane,
// and a transport bar over the shared timeline store. Keyboard chords go
// through the keymap router first; whatever it does not claim drives pane
// navigation and the text inputs.
package tui

import (
	"io"
	"log/slog"
	"sort"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelsmith/reelsmith-agent/internal/assets"
	"github.com/reelsmith/reelsmith-agent/internal/export"
	"github.com/reelsmith/reelsmith-agent/internal/keymap"
	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

// pane identifies which side of the editor has keyboard focus.
type pane int

const (
	paneBin pane = iota
	paneTimeline
)

// Config holds the editor's collaborators.
type Config struct {
	Store       *timeline.Store
	Assets      *assets.Service
	Exporter    *export.Exporter
	ProjectName string
	FrameRate   float64
	Logger      *slog.Logger
}

// Model is the bubbletea model for the editor.
type Model struct {
	store    *timeline.Store
	bin      *assets.Service
	exporter *export.Exporter
	router   *keymap.Router
	logger   *slog.Logger

	projectName string
	frameRate   float64

	pane       pane
	binAssets  []*assets.Asset
	filtered   []int // indices into binAssets, in display order
	binCursor  int
	laneCursor int

	filterInput textinput.Model
	textInput   textinput.Model
	editingID   string // text clip being edited, "" when idle

	changes chan struct{}

	width  int
	height int

	status  string
	lastErr error
}

// New builds the editor model and subscribes it to the store. The store
// subscription stays alive for the life of the process; the editor is the
// last thing standing when it quits.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	frameRate := cfg.FrameRate
	if frameRate <= 0 {
		frameRate = 30
	}
	projectName := cfg.ProjectName
	if projectName == "" {
		projectName = "untitled"
	}

	filter := textinput.New()
	filter.Placeholder = "filter bin"
	filter.CharLimit = 64
	filter.Width = 24

	text := textinput.New()
	text.Placeholder = "overlay text"
	text.CharLimit = 200
	text.Width = 40

	changes := make(chan struct{}, 1)
	cfg.Store.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	return Model{
		store:       cfg.Store,
		bin:         cfg.Assets,
		exporter:    cfg.Exporter,
		router:      keymap.NewRouter(cfg.Store, keymap.Config{}),
		logger:      logger,
		projectName: projectName,
		frameRate:   frameRate,
		filterInput: filter,
		textInput:   text,
		changes:     changes,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadBin(m.bin),
		waitForChange(m.changes),
	)
}

// textEntryFocused reports whether a text input currently owns the
// keyboard; the router suppresses every shortcut while it does.
func (m Model) textEntryFocused() bool {
	return m.filterInput.Focused() || m.textInput.Focused()
}

// binSelection returns the asset under the bin cursor, or nil.
func (m Model) binSelection() *assets.Asset {
	if m.binCursor < 0 || m.binCursor >= len(m.filtered) {
		return nil
	}
	return m.binAssets[m.filtered[m.binCursor]]
}

// laneClips returns the timeline's clips in lane display order: sorted by
// start time, stable over the store's layer order.
func (m Model) laneClips() []timeline.Clip {
	clips := m.store.Clips()
	sort.SliceStable(clips, func(i, j int) bool {
		si, _ := clips[i].Placement()
		sj, _ := clips[j].Placement()
		return si < sj
	})
	return clips
}

// laneSelection returns the clip under the timeline cursor.
func (m Model) laneSelection() (timeline.Clip, bool) {
	clips := m.laneClips()
	if m.laneCursor < 0 || m.laneCursor >= len(clips) {
		return nil, false
	}
	return clips[m.laneCursor], true
}

// Run starts the editor on the terminal and blocks until it quits.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
