package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/cutform/cutform-engine/internal/media"
)

type Tray struct {
	registry *media.Registry
	runner   *media.Runner
	logger   *slog.Logger

	statusItem *systray.MenuItem
	assetsItem *systray.MenuItem
	pauseItem  *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Registry *media.Registry
	Runner   *media.Runner
	Logger   *slog.Logger
	OnQuit   func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		registry: cfg.Registry,
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		onQuit:   cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Cutform")
	systray.SetTooltip("Cutform Engine")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current engine status")
	t.statusItem.Disable()

	t.assetsItem = systray.AddMenuItem("Assets: 0", "Registered media assets")
	t.assetsItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem("Pause Probing", "Pause media probing")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Cutform Engine")

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.togglePause()
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
		t.pauseItem.SetTitle("Pause Probing")
		t.statusItem.SetTitle("Status: Idle")
	} else {
		t.runner.Pause()
		t.pauseItem.SetTitle("Resume Probing")
		t.statusItem.SetTitle("Status: Paused")
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

func (t *Tray) Quit() {
	systray.Quit()
}
