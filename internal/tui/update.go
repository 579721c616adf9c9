package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/reelsmith/reelsmith-agent/internal/export"
	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case binLoadedMsg:
		return m.handleBinLoaded(msg)
	case refreshDoneMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, nil
		}
		m.status = "bin refreshed"
		return m, loadBin(m.bin)
	case exportDoneMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, nil
		}
		m.lastErr = nil
		m.status = fmt.Sprintf("exported %d clips to %s", msg.Result.ClipCount, msg.Result.OutputPath)
		return m, nil
	case clipboardMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, nil
		}
		m.lastErr = nil
		m.status = "EDL copied to clipboard"
		return m, nil
	// The playback poll writes the playhead through the store at 10 Hz, so
	// change notifications alone keep the view moving; ticks are only
	// seeded when a key starts playback.
	case storeChangedMsg:
		m.clampLaneCursor()
		return m, waitForChange(m.changes)
	case tickMsg:
		if m.store.Playback().IsPlaying {
			return m, tickCmd()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleBinLoaded(msg binLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.lastErr = msg.Err
		return m, nil
	}
	m.lastErr = nil
	m.binAssets = msg.Assets
	m.applyFilter()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits; the terminal owns that chord.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.textEntryFocused() {
		return m.handleTextEntryKey(msg)
	}

	if m.router.Handle(keyEventFrom(msg, false)) {
		if m.store.Playback().IsPlaying {
			return m, tickCmd()
		}
		return m, nil
	}

	return m.handlePaneKey(msg)
}

// handleTextEntryKey feeds keys to whichever input is focused. The router
// never sees these events.
func (m Model) handleTextEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.textInput.Focused() {
			m.textInput.Blur()
			m.editingID = ""
			return m, nil
		}
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.applyFilter()
		return m, nil
	case "enter":
		if m.textInput.Focused() {
			return m.commitTextEdit()
		}
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	if m.textInput.Focused() {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handlePaneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.pane == paneBin {
			m.pane = paneTimeline
		} else {
			m.pane = paneBin
		}
		return m, nil
	case "/":
		m.pane = paneBin
		return m, m.filterInput.Focus()
	case "r":
		m.status = "refreshing bin..."
		return m, refreshBin(m.bin)
	case "e":
		return m.export(export.FormatEDL)
	case "E":
		snap := m.store.Project()
		if len(snap.Clips) == 0 {
			m.status = "timeline is empty"
			return m, nil
		}
		return m, copyEDL(snap, m.projectName, m.frameRate)
	case "J":
		return m.export(export.FormatJSON)
	case "i":
		m.store.SetInPoint(m.store.Playback().CurrentTime)
		return m, nil
	case "o":
		m.store.SetOutPoint(m.store.Playback().CurrentTime)
		return m, nil
	case "O":
		m.store.ClearInOutPoints()
		return m, nil
	case "up":
		m.moveCursor(-1)
		return m, nil
	case "down":
		m.moveCursor(1)
		return m, nil
	case "enter":
		return m.activate()
	case "t":
		return m.editText()
	case "esc":
		m.store.ClearSelection()
		return m, nil
	}
	return m, nil
}

func (m Model) export(format string) (tea.Model, tea.Cmd) {
	snap := m.store.Project()
	if len(snap.Clips) == 0 {
		m.status = "timeline is empty"
		return m, nil
	}
	m.status = "exporting..."
	return m, exportProject(m.exporter, snap, m.projectName, format)
}

// activate acts on the row under the cursor: in the bin it places the
// asset on the timeline, on the timeline it selects the clip.
func (m Model) activate() (tea.Model, tea.Cmd) {
	if m.pane == paneBin {
		asset := m.binSelection()
		if asset == nil {
			return m, nil
		}
		m.store.AddMedia(asset.Ref())
		m.status = "added " + asset.DisplayName
		return m, nil
	}

	clip, ok := m.laneSelection()
	if !ok {
		return m, nil
	}
	m.store.Select(clip.ClipID())
	return m, nil
}

// editText opens the text input over a text clip. On the timeline it edits
// the clip under the cursor; anywhere else it places a fresh text overlay
// at the playhead and edits that.
func (m Model) editText() (tea.Model, tea.Cmd) {
	var target timeline.TextClip
	if m.pane == paneTimeline {
		clip, ok := m.laneSelection()
		if !ok {
			return m, nil
		}
		tc, ok := clip.(timeline.TextClip)
		if !ok {
			m.status = "not a text clip"
			return m, nil
		}
		target = tc
	} else {
		id := m.store.AddText()
		clip, ok := m.store.Clip(id)
		if !ok {
			return m, nil
		}
		target = clip.(timeline.TextClip)
	}

	m.editingID = target.ID
	m.textInput.SetValue(target.Text)
	m.textInput.CursorEnd()
	return m, m.textInput.Focus()
}

func (m Model) commitTextEdit() (tea.Model, tea.Cmd) {
	id := m.editingID
	m.textInput.Blur()
	m.editingID = ""
	if id == "" {
		return m, nil
	}

	value := m.textInput.Value()
	if !m.store.UpdateClip(id, timeline.TextPatch{Text: &value}) {
		m.lastErr = fmt.Errorf("text update rejected for clip %s", id)
		return m, nil
	}
	m.status = "text updated"
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.pane == paneBin {
		m.binCursor += delta
		m.clampBinCursor()
		return
	}
	m.laneCursor += delta
	m.clampLaneCursor()
}

func (m *Model) clampBinCursor() {
	if m.binCursor >= len(m.filtered) {
		m.binCursor = len(m.filtered) - 1
	}
	if m.binCursor < 0 {
		m.binCursor = 0
	}
}

func (m *Model) clampLaneCursor() {
	n := m.store.ClipCount()
	if m.laneCursor >= n {
		m.laneCursor = n - 1
	}
	if m.laneCursor < 0 {
		m.laneCursor = 0
	}
}

// applyFilter recomputes the bin's display order from the filter query.
// An empty query shows everything in catalog order; otherwise the rows are
// fuzzy-matched against display names, best match first.
func (m *Model) applyFilter() {
	query := m.filterInput.Value()
	if query == "" {
		m.filtered = make([]int, len(m.binAssets))
		for i := range m.binAssets {
			m.filtered[i] = i
		}
		m.clampBinCursor()
		return
	}

	names := make([]string, len(m.binAssets))
	for i, a := range m.binAssets {
		names[i] = a.DisplayName
	}
	matches := fuzzy.Find(query, names)
	m.filtered = make([]int, len(matches))
	for i, match := range matches {
		m.filtered[i] = match.Index
	}
	m.clampBinCursor()
}
