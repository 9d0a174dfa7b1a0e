package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pswatch/internal/common"
	"github.com/dmitrijs2005/pswatch/internal/logging"
	"github.com/dmitrijs2005/pswatch/internal/ras"
)

// fakeClient implements ras.Client for manager tests.
type fakeClient struct {
	signInParams ras.SignInParams
	signInAcct   ras.Account
	signInToken  ras.Token
	signInErr    error

	signOutToken ras.Token
	signOutOK    bool
	signOutErr   error
}

func (f *fakeClient) SignIn(_ context.Context, p ras.SignInParams) (ras.Account, ras.Token, error) {
	f.signInParams = p
	return f.signInAcct, f.signInToken, f.signInErr
}

func (f *fakeClient) SignOut(_ context.Context, token ras.Token) (bool, error) {
	f.signOutToken = token
	return f.signOutOK, f.signOutErr
}

func (f *fakeClient) BrowseOrders(context.Context, ras.Token, ras.OrderQuery) ([]ras.Order, error) {
	return nil, nil
}

func (f *fakeClient) GetReportEvents(context.Context, ras.Token, ras.EventQuery) ([]ras.ActivityEvent, error) {
	return nil, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func newManager(fc *fakeClient) *Manager {
	return NewManager(fc, testLogger(), Identity{
		Version:    "7.0.212.0",
		Locale:     "en-NZ",
		TimeZoneID: "New Zealand Standard Time",
	})
}

func TestLogin_CapturesTokenAndIdentity(t *testing.T) {
	fc := &fakeClient{
		signInAcct:  ras.Account{ID: 7, FirstName: "Grace", LastName: "Hopper"},
		signInToken: "sess-1",
	}
	m := newManager(fc)

	require.NoError(t, m.Login(context.Background(), "grace", "pw"))

	token, ok := m.Token()
	assert.True(t, ok)
	assert.Equal(t, ras.Token("sess-1"), token)
	assert.Equal(t, int64(7), m.Account().ID)

	assert.Equal(t, "grace", fc.signInParams.LoginName)
	assert.Equal(t, "pw", fc.signInParams.Password)
	assert.False(t, fc.signInParams.AdminMode)
	assert.Equal(t, "en-NZ", fc.signInParams.Locale)
}

func TestLogin_RejectedIsAuthError(t *testing.T) {
	fc := &fakeClient{signInErr: errors.New("bad credentials")}
	m := newManager(fc)

	err := m.Login(context.Background(), "grace", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAuth)

	_, ok := m.Token()
	assert.False(t, ok, "no token must be held after a failed login")
}

func TestLogin_MissingTokenIsAuthError(t *testing.T) {
	fc := &fakeClient{signInAcct: ras.Account{ID: 7}}
	m := newManager(fc)

	err := m.Login(context.Background(), "grace", "pw")
	assert.ErrorIs(t, err, common.ErrAuth)
}

func TestToken_NoneBeforeLogin(t *testing.T) {
	m := newManager(&fakeClient{})
	_, ok := m.Token()
	assert.False(t, ok)
}

func TestLogout_ClearsTokenOnAcknowledgement(t *testing.T) {
	fc := &fakeClient{signInToken: "sess-1", signOutOK: true}
	m := newManager(fc)
	require.NoError(t, m.Login(context.Background(), "grace", "pw"))

	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, ras.Token("sess-1"), fc.signOutToken)
	_, ok := m.Token()
	assert.False(t, ok)
}

func TestLogout_KeepsTokenOnFailure(t *testing.T) {
	fc := &fakeClient{signInToken: "sess-1", signOutErr: errors.New("connection reset")}
	m := newManager(fc)
	require.NoError(t, m.Login(context.Background(), "grace", "pw"))

	err := m.Logout(context.Background())
	assert.ErrorIs(t, err, common.ErrSession)

	token, ok := m.Token()
	assert.True(t, ok, "token stays intact so the caller may retry")
	assert.Equal(t, ras.Token("sess-1"), token)
}

func TestLogout_NotAcknowledgedIsSessionError(t *testing.T) {
	fc := &fakeClient{signInToken: "sess-1", signOutOK: false}
	m := newManager(fc)
	require.NoError(t, m.Login(context.Background(), "grace", "pw"))

	assert.ErrorIs(t, m.Logout(context.Background()), common.ErrSession)
}

func TestLogout_NoSessionIsNoOp(t *testing.T) {
	fc := &fakeClient{signOutErr: errors.New("must not be called")}
	m := newManager(fc)

	assert.NoError(t, m.Logout(context.Background()))
	assert.Empty(t, fc.signOutToken)
}
