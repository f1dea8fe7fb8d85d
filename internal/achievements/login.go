package achievements

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/settings"
	"github.com/garrettladley/cheevo/internal/xerrors"
	"github.com/garrettladley/cheevo/internal/xslog"
)

// loginPollInterval bounds the wait between polls when the network client's
// wake signal has already been consumed elsewhere.
const loginPollInterval = 50 * time.Millisecond

func (c *Coordinator) beginTokenLogin(creds settings.Credentials) {
	c.logger.Info("attempting login", xslog.Username(creds.Username))
	c.requests.Begin(RequestLogin, func(h Handle) backend.AsyncHandle {
		return c.rt.BeginLoginWithToken(creds.Username, creds.Token, func(result backend.Result, message string) {
			c.tokenLoginDone(h, result, message)
		})
	})
}

func (c *Coordinator) tokenLoginDone(h Handle, result backend.Result, message string) {
	if !c.requests.Complete(h) {
		return
	}
	if result != backend.ResultOK {
		c.reportError(fmt.Sprintf("Login failed: %s", message))
		c.host.OnLoginRequested(LoginRequestTokenInvalid)
		return
	}

	c.showLoginSuccess()
	if c.host.IsSystemValid() {
		c.beginLoadGame()
	}
}

func (c *Coordinator) showLoginSuccess() {
	user, ok := c.rt.User()
	if !ok {
		return
	}
	c.logger.Info("logged in", xslog.Username(user.Username))
	c.host.OnLoginSuccess(user)

	if c.host.IsSystemValid() && c.settings.Notifications {
		body := fmt.Sprintf("Score: %d (%d softcore)", user.Score, user.ScoreSoftcore)
		c.sink.AddNotification("achievements_login", loginNotificationTime, user.DisplayName, body, c.userBadge(user))
	}
}

// Login authenticates with a password and stores the resulting token. It
// blocks until the backend answers or ctx is done, and must not be called
// from a host callback. When the coordinator is not started a temporary
// runtime is used and discarded afterwards.
func (c *Coordinator) Login(ctx context.Context, username string, password string) error {
	const op = "login"

	c.mu.Lock()
	rt, nc := c.rt, c.nc
	temporary := rt == nil
	if temporary {
		nc = c.newNetwork()
		rt = c.newRuntime(nc)
	}

	var (
		done    bool
		result  backend.Result
		message string
	)
	finish := func(r backend.Result, msg string) {
		done, result, message = true, r, msg
	}

	var (
		tracked Handle
		async   backend.AsyncHandle
	)
	if temporary {
		async = rt.BeginLoginWithPassword(username, password, finish)
	} else {
		tracked = c.requests.Begin(RequestLogin, func(h Handle) backend.AsyncHandle {
			return rt.BeginLoginWithPassword(username, password, func(r backend.Result, msg string) {
				c.requests.Complete(h)
				finish(r, msg)
			})
		})
	}
	c.mu.Unlock()

	if temporary {
		defer func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			nc.WaitForAllRequests()
			rt.Destroy()
			nc.Close()
		}()
	}

	c.logger.InfoContext(ctx, "logging in", xslog.Username(username), slog.Bool("temporary", temporary))
	if err := c.pumpUntil(ctx, nc, &done); err != nil {
		c.mu.Lock()
		if temporary {
			rt.Abort(async)
		} else if c.rt == rt {
			c.requests.Abort(tracked)
		}
		c.mu.Unlock()
		return xerrors.Operation(op, xerrors.WithCause(err))
	}

	if result != backend.ResultOK {
		c.logger.ErrorContext(ctx, "login failed", xslog.Result(result.String()), slog.String("message", message))
		return xerrors.Operation(op, xerrors.WithMessage(fmt.Sprintf("%s: %s", result, message)))
	}

	c.mu.Lock()
	user, ok := rt.User()
	c.mu.Unlock()
	if !ok || user.Token == "" {
		c.logger.ErrorContext(ctx, "runtime has no user after login")
		return xerrors.Invariant(op, xerrors.WithMessage("no user after successful login"))
	}

	if c.store != nil {
		creds := settings.Credentials{Username: username, Token: user.Token, LoginTimestamp: c.clock()}
		if err := settings.SaveCredentials(ctx, c.store, creds); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !temporary && c.rt == rt {
		c.showLoginSuccess()
		if c.host.IsSystemValid() {
			c.beginLoadGame()
		}
	}
	return nil
}

// pumpUntil polls nc with the lock held until *done is set. Between polls it
// waits without the lock so FrameUpdate keeps running.
func (c *Coordinator) pumpUntil(ctx context.Context, nc backend.NetworkClient, done *bool) error {
	ticker := time.NewTicker(loginPollInterval)
	defer ticker.Stop()

	for {
		completed := nc.Completed()

		c.mu.Lock()
		nc.PollRequests()
		finished := *done
		c.mu.Unlock()
		if finished {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-completed:
		case <-ticker.C:
		}
	}
}

// Logout forgets the user and deletes stored credentials.
func (c *Coordinator) Logout(ctx context.Context) error {
	c.mu.Lock()
	if c.rt != nil {
		if c.hasActiveGame() {
			c.clearGameInfo()
		}
		c.requests.AbortKind(RequestLogin)
		c.logger.InfoContext(ctx, "logging out")
		c.rt.Logout()
	}
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	c.logger.InfoContext(ctx, "clearing credentials")
	if err := settings.DeleteCredentials(ctx, c.store); err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}
