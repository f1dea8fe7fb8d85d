package achievements

import (
	"context"
	"fmt"
	"log/slog"
)

type HardcoreState uint8

const (
	HardcoreOff HardcoreState = iota
	// HardcorePending is wanted but waiting for the next system reset.
	HardcorePending
	HardcoreOn
)

func (s HardcoreState) String() string {
	switch s {
	case HardcorePending:
		return "pending"
	case HardcoreOn:
		return "on"
	default:
		return "off"
	}
}

func (c *Coordinator) HardcoreModeActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rt != nil && c.hardcore
}

func (c *Coordinator) HardcoreState() HardcoreState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hardcoreState()
}

func (c *Coordinator) hardcoreState() HardcoreState {
	switch {
	case c.rt != nil && c.hardcore:
		return HardcoreOn
	case c.rt != nil && c.settings.Hardcore:
		return HardcorePending
	default:
		return HardcoreOff
	}
}

// SetHardcoreMode records whether the user wants hardcore mode. Disabling
// takes effect at once. Enabling with a game running waits for the next
// ResetHardcoreMode; with no game it applies at once if logged in.
func (c *Coordinator) SetHardcoreMode(wanted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings.Hardcore = wanted
	if c.rt == nil {
		return
	}
	if !wanted {
		c.disableHardcoreMode()
		return
	}
	if c.hardcore {
		return
	}
	if c.hasActiveGame() {
		c.displayHardcoreDeferredMessage()
		return
	}
	c.resetHardcoreMode()
}

// ResetHardcoreMode is called on system reset, the only point where hardcore
// mode may turn on. It reports whether the mode changed.
func (c *Coordinator) ResetHardcoreMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return false
	}
	return c.resetHardcoreMode()
}

func (c *Coordinator) resetHardcoreMode() bool {
	// Logged out sessions start with hardcore off; a later login keeps it off.
	wanted := (c.loggedInOrLoggingIn() || c.requests.Pending(RequestLoadGame)) && c.settings.Hardcore
	if c.hardcore == wanted {
		return false
	}
	c.setHardcoreMode(wanted, false)
	return true
}

func (c *Coordinator) disableHardcoreMode() {
	if c.rt == nil || !c.hardcore {
		return
	}
	c.setHardcoreMode(false, true)
}

func (c *Coordinator) setHardcoreMode(enabled bool, forceMessage bool) {
	if enabled == c.hardcore {
		return
	}
	c.hardcore = enabled
	c.logger.Info("hardcore mode changed", slog.Bool("enabled", enabled))

	if c.host.IsSystemValid() && (c.hasActiveGame() || forceMessage) {
		msg := "Hardcore mode is now disabled."
		if enabled {
			msg = "Hardcore mode is now enabled."
		}
		c.sink.ShowToast("", msg, osdInfoDuration)
	}

	c.rt.SetHardcoreEnabled(enabled)
	if c.hasActiveGame() {
		c.updateSummary()
		c.displaySummary()
	}

	c.clearUIState()
	c.host.OnHardcoreModeChanged(enabled)
}

func (c *Coordinator) displayHardcoreDeferredMessage() {
	if c.settings.Hardcore && !c.hardcore && c.host.IsSystemValid() {
		c.sink.ShowToast("", "Hardcore mode will be enabled on system reset.", osdWarningDuration)
	}
}

// ConfirmHardcoreModeDisable asks the host whether trigger may disable
// hardcore mode, and disables it when confirmed. The prompt runs without the
// lock held.
func (c *Coordinator) ConfirmHardcoreModeDisable(trigger string) bool {
	confirmed := c.host.ConfirmMessage("Confirm Hardcore Mode",
		fmt.Sprintf("%[1]s cannot be performed while hardcore mode is active. Do you want to disable hardcore mode? "+
			"%[1]s will be cancelled if you select No.", trigger))
	if !confirmed {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.disableHardcoreMode()
	return true
}

// UpdateSettings applies next, given the settings the coordinator ran with
// before. Flags the runtime cannot change while a game is loaded restart the
// session.
func (c *Coordinator) UpdateSettings(ctx context.Context, old Settings, next Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings = next
	if !next.Enabled {
		c.stop()
		return nil
	}
	if c.rt == nil {
		return c.start(ctx, nil)
	}

	if next.Hardcore != old.Hardcore {
		switch {
		case c.hardcore && !next.Hardcore:
			c.resetHardcoreMode()
		case !c.hardcore && next.Hardcore && c.hasActiveGame():
			c.displayHardcoreDeferredMessage()
		}
	}

	if c.hasActiveGame() {
		if next.restartRequired(old) {
			c.logger.InfoContext(ctx, "restarting achievements for settings change")
			c.stop()
			return c.start(ctx, nil)
		}
	} else {
		if next.Encore != old.Encore {
			c.rt.SetEncoreMode(next.Encore)
		}
		if next.Spectator != old.Spectator {
			c.rt.SetSpectatorMode(next.Spectator)
		}
		if next.UnofficialTestMode != old.UnofficialTestMode {
			c.rt.SetUnofficialEnabled(next.UnofficialTestMode)
		}
	}

	c.ensureImageDir()
	return nil
}
