// Package supervisor drives the outer session lifecycle: login, poll
// forever, logout, retry. It owns the ordering guarantee of a cycle
// (reconcile happens-before flush happens-before watermark advance) and the
// scoped release of the session token on every exit path.
package supervisor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/pswatch/internal/agent/reconcile"
	"github.com/dmitrijs2005/pswatch/internal/agent/sink"
	"github.com/dmitrijs2005/pswatch/internal/agent/watermark"
	"github.com/dmitrijs2005/pswatch/internal/common"
	"github.com/dmitrijs2005/pswatch/internal/logging"
	"github.com/dmitrijs2005/pswatch/internal/ras"
)

// SessionManager is the slice of the session manager the supervisor needs.
type SessionManager interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Token() (ras.Token, bool)
}

// Reconciler processes one poll window and exposes the user table.
type Reconciler interface {
	Reconcile(ctx context.Context, token ras.Token, from, to time.Time) ([]int64, error)
	Users() map[int64]reconcile.UserActivity
}

// Options configures the supervisor loop.
type Options struct {
	Username string
	Password string

	// PollInterval is the pause between cycles while a session is active.
	PollInterval time.Duration
	// SessionLifetime bounds how long one token is used before a forced
	// logout/relogin rotation.
	SessionLifetime time.Duration
	// RetryBackoff is the fixed wait before retrying after a failed login
	// or a failed cycle.
	RetryBackoff time.Duration
	// LogoutTimeout bounds the best-effort sign-out on every exit path,
	// including forced shutdown.
	LogoutTimeout time.Duration
}

// Supervisor runs the LoggedOut -> LoggingIn -> Active -> LoggingOut state
// machine until its context is cancelled. There is no terminal success
// state; the loop is meant to run indefinitely.
type Supervisor struct {
	sessions   SessionManager
	reconciler Reconciler
	writer     sink.Writer
	marks      *watermark.Tracker
	opts       Options
	logger     logging.Logger

	// now is a seam for lifetime tests.
	now func() time.Time
}

func New(sessions SessionManager, reconciler Reconciler, writer sink.Writer, marks *watermark.Tracker, opts Options, logger logging.Logger) *Supervisor {
	return &Supervisor{
		sessions:   sessions,
		reconciler: reconciler,
		writer:     writer,
		marks:      marks,
		opts:       opts,
		logger:     logger.With("module", "supervisor"),
		now:        time.Now,
	}
}

// Run loops login/poll/logout until ctx is cancelled. Every session attempt,
// successful or not, ends with a best-effort logout so a token is never left
// behind. After a failure the loop waits RetryBackoff before the next
// attempt, preventing a tight failure loop.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger := s.logger.With("session_attempt", uuid.NewString())
		logger.Info(ctx, "starting new session")

		err := s.runSession(ctx, logger)
		s.releaseSession(logger)

		if err == nil {
			// Session lifetime elapsed; rotate immediately.
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		logger.Error(ctx, "session ended with error, retrying after backoff",
			"error", err.Error(), "backoff", s.opts.RetryBackoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.RetryBackoff):
		}
	}
}

// runSession performs one login bracket: sign in (retrying on a fixed
// backoff until success or cancellation), then cycle until the session
// lifetime elapses or a cycle fails. A nil return means the lifetime guard
// fired and the caller should rotate the session.
func (s *Supervisor) runSession(ctx context.Context, logger logging.Logger) error {
	backoff := retry.NewConstant(s.opts.RetryBackoff)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.sessions.Login(ctx, s.opts.Username, s.opts.Password); err != nil {
			logger.Error(ctx, "login failed, will retry", "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	deadline := s.now().Add(s.opts.SessionLifetime)
	for {
		if err := s.cycle(ctx); err != nil {
			return err
		}
		if !s.now().Before(deadline) {
			logger.Info(ctx, "session lifetime reached, rotating")
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.PollInterval):
		}
	}
}

// cycle runs one reconcile+flush+advance sequence. The watermark advances
// only after the flush succeeded, so a failed cycle is retried over the same
// (extended) window.
func (s *Supervisor) cycle(ctx context.Context) error {
	token, ok := s.sessions.Token()
	if !ok {
		return common.ErrNoSession
	}

	from, to := s.marks.Window(s.now())
	changed, err := s.reconciler.Reconcile(ctx, token, from, to)
	if err != nil {
		return err
	}
	if err := s.writer.Flush(ctx, changed, s.reconciler.Users()); err != nil {
		return err
	}
	s.marks.Advance(to)
	return nil
}

// releaseSession attempts a sign-out whenever a token exists. It runs on a
// fresh context with its own bounded timeout so the token is relinquished
// even when the loop's context is already cancelled. A failed sign-out only
// logs: the next login replaces the abandoned token.
func (s *Supervisor) releaseSession(logger logging.Logger) {
	if _, ok := s.sessions.Token(); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.LogoutTimeout)
	defer cancel()

	if err := s.sessions.Logout(ctx); err != nil {
		logger.Warn(ctx, "logout failed, abandoning token", "error", err.Error())
	}
}
