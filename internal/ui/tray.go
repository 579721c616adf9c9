// Package ui is the system tray surface: status at a glance, bin refresh
// control, and quit. The editor itself lives in the terminal UI.
package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
	"github.com/reelsmith/reelsmith-agent/internal/assets"
)

type Tray struct {
	runner *assets.Runner
	logger *slog.Logger

	statusItem *systray.MenuItem
	assetsItem *systray.MenuItem
	clipsItem  *systray.MenuItem
	pauseItem  *systray.MenuItem

	mu sync.Mutex

	onRefresh func() error
	onQuit    func()
}

type TrayConfig struct {
	Runner    *assets.Runner
	Logger    *slog.Logger
	OnRefresh func() error
	OnQuit    func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		runner:    cfg.Runner,
		logger:    cfg.Logger,
		onRefresh: cfg.OnRefresh,
		onQuit:    cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Reelsmith")
	systray.SetTooltip("Reelsmith Agent")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current agent status")
	t.statusItem.Disable()

	t.assetsItem = systray.AddMenuItem("Assets: 0", "Media in the bin")
	t.assetsItem.Disable()

	t.clipsItem = systray.AddMenuItem("Clips: 0", "Clips on the timeline")
	t.clipsItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem("Pause", "Pause bin refresh")

	refreshItem := systray.AddMenuItem("Refresh Now", "Rescan media sources")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Reelsmith Agent")

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.togglePause()
			case <-refreshItem.ClickedCh:
				t.handleRefresh()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner == nil {
		return
	}

	if t.runner.IsPaused() {
		t.runner.Resume()
		t.pauseItem.SetTitle("Pause")
		t.statusItem.SetTitle("Status: Idle")
	} else {
		t.runner.Pause()
		t.pauseItem.SetTitle("Resume")
		t.statusItem.SetTitle("Status: Paused")
	}
}

func (t *Tray) handleRefresh() {
	if t.onRefresh != nil {
		if err := t.onRefresh(); err != nil {
			t.logger.Error("failed to refresh media bin", "error", err)
		}
	}
}

func (t *Tray) UpdateStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner != nil && t.runner.IsPaused() {
		return
	}
	t.statusItem.SetTitle("Status: " + status)
}

func (t *Tray) UpdateAssetsCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.assetsItem.SetTitle(fmt.Sprintf("Assets: %d", count))
}

func (t *Tray) UpdateClipCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clipsItem.SetTitle(fmt.Sprintf("Clips: %d", count))
}

func (t *Tray) Quit() {
	systray.Quit()
}
