package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestAccounts(t *testing.T) (*Accounts, *TokenGate) {
	t.Helper()

	st := newTestStore(t)
	signer, verifier := newTestKeys(t)

	accounts := &Accounts{
		Store:      st,
		Signer:     signer,
		Issuer:     "budgetd-test",
		SessionTTL: time.Hour,
	}
	gate := &TokenGate{Verifier: verifier, Store: st}
	return accounts, gate
}

func TestSignupIssuesWorkingToken(t *testing.T) {
	t.Parallel()

	accounts, gate := newTestAccounts(t)
	ctx := context.Background()

	token, err := accounts.Signup(ctx, "alice", "correct-horse-battery")
	require.NoError(t, err)

	user, err := gate.Authorize(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Empty(t, user.BudgetData)
}

func TestSignupRejectsTakenUsername(t *testing.T) {
	t.Parallel()

	accounts, _ := newTestAccounts(t)
	ctx := context.Background()

	_, err := accounts.Signup(ctx, "alice", "correct-horse-battery")
	require.NoError(t, err)

	_, err = accounts.Signup(ctx, "alice", "another-password-1")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignupRejectsUnusableCredentials(t *testing.T) {
	t.Parallel()

	accounts, _ := newTestAccounts(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "a-long-enough-password"},
		{"blank username", "   ", "a-long-enough-password"},
		{"short password", "alice", "short"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := accounts.Signup(ctx, tc.username, tc.password)
			require.ErrorIs(t, err, ErrWeakCredentials)
		})
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	t.Parallel()

	accounts, gate := newTestAccounts(t)
	ctx := context.Background()

	_, err := accounts.Signup(ctx, "alice", "correct-horse-battery")
	require.NoError(t, err)

	token, err := accounts.Login(ctx, "alice", "correct-horse-battery")
	require.NoError(t, err)
	_, err = gate.Authorize(ctx, token)
	require.NoError(t, err)

	_, err = accounts.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = accounts.Login(ctx, "mallory", "correct-horse-battery")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordInvalidatesPriorTokens(t *testing.T) {
	t.Parallel()

	accounts, gate := newTestAccounts(t)
	ctx := context.Background()

	oldToken, err := accounts.Signup(ctx, "alice", "correct-horse-battery")
	require.NoError(t, err)

	// The watermark has one-second resolution; make sure the change lands
	// strictly after the old token's issue second.
	time.Sleep(1100 * time.Millisecond)

	user, err := gate.Authorize(ctx, oldToken)
	require.NoError(t, err)

	newToken, err := accounts.ChangePassword(ctx, user, "correct-horse-battery", "even-better-password")
	require.NoError(t, err)

	// The pre-change token is now stale; the returned one still works.
	_, err = gate.Authorize(ctx, oldToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	fresh, err := gate.Authorize(ctx, newToken)
	require.NoError(t, err)
	require.Equal(t, "alice", fresh.Username)

	// And the new password is the one that logs in.
	_, err = accounts.Login(ctx, "alice", "correct-horse-battery")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = accounts.Login(ctx, "alice", "even-better-password")
	require.NoError(t, err)
}

func TestChangePasswordRequiresCurrentPassword(t *testing.T) {
	t.Parallel()

	accounts, gate := newTestAccounts(t)
	ctx := context.Background()

	token, err := accounts.Signup(ctx, "alice", "correct-horse-battery")
	require.NoError(t, err)
	user, err := gate.Authorize(ctx, token)
	require.NoError(t, err)

	_, err = accounts.ChangePassword(ctx, user, "wrong-password", "even-better-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = accounts.ChangePassword(ctx, user, "correct-horse-battery", "short")
	require.ErrorIs(t, err, ErrWeakCredentials)
}
