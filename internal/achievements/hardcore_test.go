package achievements

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestHardcore_EnableWithGameIsDeferred(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)

	h.c.SetHardcoreMode(true)
	if h.c.HardcoreModeActive() {
		t.Fatal("hardcore active before reset")
	}
	if got := h.c.HardcoreState(); got != HardcorePending {
		t.Errorf("HardcoreState() = %v, want pending", got)
	}
	toast, ok := h.sink.Toast()
	if !ok || toast.Body != "Hardcore mode will be enabled on system reset." {
		t.Errorf("toast = %+v, want deferred message", toast)
	}

	if !h.c.ResetHardcoreMode() {
		t.Error("ResetHardcoreMode() = false, want a change")
	}
	h.settle()

	if !h.c.HardcoreModeActive() || !h.rt().HardcoreEnabled() {
		t.Error("hardcore not active after reset")
	}
	if diff := cmp.Diff([]bool{true}, h.host.hardcoreChanges); diff != "" {
		t.Errorf("hardcore changes mismatch (-want +got):\n%s", diff)
	}
	n, _ := h.notification("achievement_summary")
	if n.Title != "Test Game (Hardcore Mode)" {
		t.Errorf("summary title = %q", n.Title)
	}
	if h.c.ResetHardcoreMode() {
		t.Error("second ResetHardcoreMode() = true, want no change")
	}
}

func TestHardcore_DisableIsImmediate(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)
	h.c.SetHardcoreMode(true)
	h.c.ResetHardcoreMode()

	h.c.SetHardcoreMode(false)

	if h.c.HardcoreModeActive() || h.rt().HardcoreEnabled() {
		t.Error("hardcore still active")
	}
	if got := h.c.HardcoreState(); got != HardcoreOff {
		t.Errorf("HardcoreState() = %v, want off", got)
	}
	toast, _ := h.sink.Toast()
	if toast.Body != "Hardcore mode is now disabled." {
		t.Errorf("toast = %q", toast.Body)
	}
	if diff := cmp.Diff([]bool{true, false}, h.host.hardcoreChanges); diff != "" {
		t.Errorf("hardcore changes mismatch (-want +got):\n%s", diff)
	}
}

func TestHardcore_EnableWithoutGame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []harnessOption
		want HardcoreState
	}{
		{name: "logged in applies at once", opts: []harnessOption{withStoredLogin()}, want: HardcoreOn},
		{name: "logged out stays pending", want: HardcorePending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, tt.opts...)
			h.start()
			h.settle()

			h.c.SetHardcoreMode(true)

			if got := h.c.HardcoreState(); got != tt.want {
				t.Errorf("HardcoreState() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHardcore_StartShowsDeferredMessage(t *testing.T) {
	t.Parallel()

	h := newHarness(t, withStoredLogin(), withRunningGame("game.bin"),
		withSettings(func(s *Settings) { s.Hardcore = true }))
	h.start()

	toast, ok := h.sink.Toast()
	if !ok || !strings.Contains(toast.Body, "system reset") {
		t.Errorf("toast = %+v, want deferred message", toast)
	}

	h.settle()
	if h.c.HardcoreModeActive() {
		t.Error("hardcore active without a reset")
	}
	if got := h.c.Snapshot().GameID; got != 42 {
		t.Errorf("GameID = %d, want 42", got)
	}
}

func TestHardcore_ConfirmDisable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		confirm bool
		want    bool
	}{
		{name: "declined", confirm: false, want: true},
		{name: "accepted", confirm: true, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newLoaded(t)
			h.c.SetHardcoreMode(true)
			h.c.ResetHardcoreMode()
			h.host.confirm = tt.confirm

			if got := h.c.ConfirmHardcoreModeDisable("Loading state"); got != tt.confirm {
				t.Errorf("ConfirmHardcoreModeDisable() = %v, want %v", got, tt.confirm)
			}
			if got := h.c.HardcoreModeActive(); got != tt.want {
				t.Errorf("HardcoreModeActive() = %v, want %v", got, tt.want)
			}
			if len(h.host.prompts) != 1 || !strings.HasPrefix(h.host.prompts[0], "Loading state cannot be performed") {
				t.Errorf("prompts = %q", h.host.prompts)
			}
		})
	}
}

func TestHardcore_ConfirmPromptRunsUnlocked(t *testing.T) {
	t.Parallel()

	h := newLoaded(t)
	h.c.SetHardcoreMode(true)
	h.c.ResetHardcoreMode()

	var during HardcoreState
	h.host.onConfirm = func() { during = h.c.Snapshot().Hardcore }

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.c.ConfirmHardcoreModeDisable("Loading state")
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ConfirmHardcoreModeDisable() deadlocked reading the coordinator from the prompt")
	}

	if during != HardcoreOn {
		t.Errorf("hardcore during prompt = %v, want %v", during, HardcoreOn)
	}
	if h.c.HardcoreModeActive() {
		t.Error("HardcoreModeActive() = true after confirmed disable")
	}
}

func TestUpdateSettings(t *testing.T) {
	t.Parallel()

	t.Run("restart flag with game restarts", func(t *testing.T) {
		t.Parallel()
		h := newLoaded(t)
		old := h.c.Settings()
		next := old
		next.Encore = true

		if err := h.c.UpdateSettings(context.Background(), old, next); err != nil {
			t.Fatalf("UpdateSettings() error = %v", err)
		}
		h.settle()

		if got := len(h.rts); got != 2 {
			t.Errorf("runtimes = %d, want a restart", got)
		}
		if got := h.c.Snapshot().GameID; got != 42 {
			t.Errorf("GameID = %d after restart, want 42", got)
		}
		if !h.c.Settings().Encore {
			t.Error("Encore not recorded")
		}
	})

	t.Run("flags without game apply live", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, withStoredLogin())
		h.start()
		h.settle()
		old := h.c.Settings()
		next := old
		next.Spectator = true

		if err := h.c.UpdateSettings(context.Background(), old, next); err != nil {
			t.Fatalf("UpdateSettings() error = %v", err)
		}

		if got := len(h.rts); got != 1 {
			t.Errorf("runtimes = %d, want no restart", got)
		}
		if !h.rt().SpectatorMode() {
			t.Error("spectator mode not applied")
		}
	})

	t.Run("disable stops", func(t *testing.T) {
		t.Parallel()
		h := newLoaded(t)
		old := h.c.Settings()
		next := old
		next.Enabled = false

		if err := h.c.UpdateSettings(context.Background(), old, next); err != nil {
			t.Fatalf("UpdateSettings() error = %v", err)
		}
		if h.c.Active() {
			t.Error("Active() = true after disabling")
		}
	})

	t.Run("enable starts", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, withStoredLogin(), withSettings(func(s *Settings) { s.Enabled = false }))
		old := h.c.Settings()
		next := old
		next.Enabled = true

		if err := h.c.UpdateSettings(context.Background(), old, next); err != nil {
			t.Fatalf("UpdateSettings() error = %v", err)
		}
		h.settle()
		if !h.c.Snapshot().LoggedIn {
			t.Error("not logged in after enabling")
		}
	})

	t.Run("hardcore off applies at once", func(t *testing.T) {
		t.Parallel()
		h := newLoaded(t)
		h.c.SetHardcoreMode(true)
		h.c.ResetHardcoreMode()
		old := h.c.Settings()
		next := old
		next.Hardcore = false

		if err := h.c.UpdateSettings(context.Background(), old, next); err != nil {
			t.Fatalf("UpdateSettings() error = %v", err)
		}
		if h.c.HardcoreModeActive() {
			t.Error("hardcore still active")
		}
	})
}
