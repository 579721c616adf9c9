package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelsmith/reelsmith-agent/internal/assets"
	"github.com/reelsmith/reelsmith-agent/internal/export"
	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

const commandTimeout = 30 * time.Second

// loadBin lists the media bin.
func loadBin(svc *assets.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		list, err := svc.List(ctx)
		return binLoadedMsg{Assets: list, Err: err}
	}
}

// refreshBin rescans every registered source.
func refreshBin(svc *assets.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return refreshDoneMsg{Err: svc.Refresh(ctx)}
	}
}

// exportProject writes the snapshot as an artifact on disk.
func exportProject(exp *export.Exporter, snap timeline.ProjectSnapshot, name, format string) tea.Cmd {
	return func() tea.Msg {
		result, err := exp.Export(snap, export.Request{ProjectName: name, Format: format})
		return exportDoneMsg{Result: result, Err: err}
	}
}

// copyEDL renders the snapshot as an edit decision list and puts it on the
// system clipboard.
func copyEDL(snap timeline.ProjectSnapshot, title string, frameRate float64) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{Err: clipboard.WriteAll(export.GenerateEDL(snap, title, frameRate))}
	}
}

// waitForChange blocks until the store notifies, then reports it. The model
// re-issues this command after every storeChangedMsg, so notifications keep
// flowing for the life of the program.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

// tickCmd schedules a redraw tick; issued only while playback is running.
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
