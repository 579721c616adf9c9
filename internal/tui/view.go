package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

const helpLine = "tab panes · enter add/select · ↑/↓ move · / filter · t text · i/o in-out · e edl · J json · E copy edl · r refresh · q quit"

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	paneWidth := (width - 8) / 2
	if paneWidth < 24 {
		paneWidth = 24
	}

	binStyle, laneStyle := paneStyle, paneStyle
	if m.pane == paneBin {
		binStyle = focusedPaneStyle
	} else {
		laneStyle = focusedPaneStyle
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("reelsmith") + "  " + dimStyle.Render(m.projectName))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		binStyle.Width(paneWidth).Render(m.binView(paneWidth)),
		laneStyle.Width(paneWidth).Render(m.laneView(paneWidth)),
	))
	b.WriteString("\n")
	b.WriteString(m.transportView())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) binView(width int) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(fmt.Sprintf("MEDIA BIN (%d)", len(m.filtered))))
	b.WriteString("\n")

	if m.filterInput.Focused() || m.filterInput.Value() != "" {
		b.WriteString("/" + m.filterInput.View())
		b.WriteString("\n")
	}

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("(no media)"))
		return b.String()
	}

	for row, idx := range m.filtered {
		a := m.binAssets[idx]
		line := fmt.Sprintf("%-5s %s", a.Kind, a.DisplayName)
		if a.DurationSec != nil {
			line += dimStyle.Render("  " + formatTime(*a.DurationSec))
		}
		line = truncate(line, width-4)
		if row == m.binCursor && m.pane == paneBin {
			b.WriteString(cursorStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) laneView(width int) string {
	clips := m.laneClips()

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(fmt.Sprintf("TIMELINE (%d)", len(clips))))
	b.WriteString("\n")

	if len(clips) == 0 {
		b.WriteString(dimStyle.Render("(empty — press enter in the bin)"))
		return b.String()
	}

	for row, clip := range clips {
		start, end := clip.Placement()
		var label string
		switch c := clip.(type) {
		case timeline.MediaClip:
			label = fmt.Sprintf("%-5s %s", c.Type, c.SourceName)
		case timeline.TextClip:
			text := c.Text
			if m.editingID == c.ID {
				text = m.textInput.View()
			}
			label = fmt.Sprintf("%-5s %q", "text", text)
		}
		line := truncate(fmt.Sprintf("%s  %s–%s", label, formatTime(start), formatTime(end)), width-4)

		if m.store.IsSelected(clip.ClipID()) {
			line = selectedStyle.Render(line)
		}
		if row == m.laneCursor && m.pane == paneTimeline {
			b.WriteString(cursorStyle.Render("▸ ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) transportView() string {
	pb := m.store.Playback()

	glyph := "⏸"
	if pb.IsPlaying {
		glyph = "⏵"
	}
	line := fmt.Sprintf("%s %s / %s  %.1fx", glyph,
		formatTime(pb.CurrentTime), formatTime(m.store.Duration()), pb.PlaybackRate)
	if pb.InPoint != nil {
		line += dimStyle.Render("  in " + formatTime(*pb.InPoint))
	}
	if pb.OutPoint != nil {
		line += dimStyle.Render("  out " + formatTime(*pb.OutPoint))
	}
	if pb.IsMuted {
		line += dimStyle.Render("  muted")
	}
	if m.store.CanUndo() {
		line += dimStyle.Render("  ↶")
	}
	if m.store.CanRedo() {
		line += dimStyle.Render("  ↷")
	}
	return playheadStyle.Render(line)
}

func (m Model) statusView() string {
	var b strings.Builder
	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(helpLine))
	return b.String()
}

// formatTime renders seconds as m:ss.t.
func formatTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	min := int(sec) / 60
	return fmt.Sprintf("%d:%04.1f", min, sec-float64(min*60))
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
