// Package session owns the authenticated session against the remote
// reporting service: it performs sign-in, holds the opaque session token for
// the lifetime of one login/logout bracket, and releases it on sign-out.
package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pswatch/internal/common"
	"github.com/dmitrijs2005/pswatch/internal/logging"
	"github.com/dmitrijs2005/pswatch/internal/ras"
)

// Identity carries the client identity fields sent with every sign-in.
type Identity struct {
	Version     string
	Locale      string
	TimeZoneID  string
	Workstation string
}

// Manager is the exclusive holder of the session token. It performs no
// retries; failures propagate to the supervisor.
type Manager struct {
	client   ras.Client
	logger   logging.Logger
	identity Identity

	token   ras.Token
	account ras.Account
}

func NewManager(client ras.Client, logger logging.Logger, identity Identity) *Manager {
	return &Manager{
		client:   client,
		logger:   logger.With("module", "session"),
		identity: identity,
	}
}

// Login signs in and captures the session token from the response metadata
// together with the account identity. A sign-in response without a token is
// treated as an authentication failure.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	account, token, err := m.client.SignIn(ctx, ras.SignInParams{
		LoginName:   username,
		Password:    password,
		AdminMode:   false,
		Version:     m.identity.Version,
		Workstation: m.identity.Workstation,
		Locale:      m.identity.Locale,
		TimeZoneID:  m.identity.TimeZoneID,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrAuth, err)
	}
	if token == "" {
		return fmt.Errorf("%w: sign-in response carried no session token", common.ErrAuth)
	}

	m.token = token
	m.account = account

	m.logger.Info(ctx, "new session",
		"name", account.FullName(),
		"account_id", account.ID,
		"session_id", string(token),
	)
	return nil
}

// Token returns the current session token, and false when no session is
// active.
func (m *Manager) Token() (ras.Token, bool) {
	return m.token, m.token != ""
}

// Account returns the identity captured at the last successful sign-in.
func (m *Manager) Account() ras.Account {
	return m.account
}

// Logout signs out with the current token. The token is cleared only on an
// acknowledged sign-out; on failure it is left intact so the caller may retry
// or abandon it. A new login will replace an abandoned token anyway.
// Logout without an active session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	if m.token == "" {
		return nil
	}

	ok, err := m.client.SignOut(ctx, m.token)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSession, err)
	}
	if !ok {
		return fmt.Errorf("%w: sign-out not acknowledged", common.ErrSession)
	}

	m.logger.Info(ctx, "signed out", "session_id", string(m.token))
	m.token = ""
	m.account = ras.Account{}
	return nil
}
