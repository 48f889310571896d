// Package tray provides a macOS system tray interface for the Drishti face monitoring system.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the macOS system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuDistance *systray.MenuItem
	menuCounts   *systray.MenuItem
}

// New creates a new Tray instance with monitoring enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when monitoring is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Drishti")
	systray.SetTooltip("Drishti Face Monitoring")

	t.menuToggle = systray.AddMenuItem("● Monitoring", "Toggle face monitoring")
	systray.AddSeparator()

	t.menuDistance = systray.AddMenuItem("Distance: --", "Current screen distance")
	t.menuDistance.Disable()
	t.menuCounts = systray.AddMenuItem("Blinks: 0  Frowns: 0", "Session totals")
	t.menuCounts.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Drishti")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	// Update menu item text based on new state
	if enabled {
		t.menuToggle.SetTitle("● Monitoring")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Quit exits the tray loop programmatically, as if Quit were chosen
// from the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetDistance updates the distance display in the menu. A non-positive
// value means no face has been measured yet.
func (t *Tray) SetDistance(cm float64, tooClose bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuDistance == nil {
		return
	}

	if cm <= 0 {
		t.menuDistance.SetTitle("Distance: --")
		return
	}

	title := fmt.Sprintf("Distance: %.0fcm", cm)
	if tooClose {
		title += " (too close!)"
	}
	t.menuDistance.SetTitle(title)
}

// SetCounts updates the blink and frown totals in the menu.
func (t *Tray) SetCounts(blinks, frowns int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuCounts != nil {
		t.menuCounts.SetTitle(fmt.Sprintf("Blinks: %d  Frowns: %d", blinks, frowns))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
