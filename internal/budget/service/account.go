package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spendwise/budgetd/internal/budget/domain"
	"github.com/spendwise/budgetd/internal/budget/store"
	"github.com/spendwise/budgetd/pkg/cryptox"
	"github.com/spendwise/budgetd/pkg/jwtx"
	"github.com/spendwise/budgetd/pkg/slogx"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 64
)

// Accounts implements the token issuance flow: signup, login, and password
// change. Password changes move the user's validity watermark, which is
// what invalidates every token issued before the change.
type Accounts struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
}

// Signup registers a username and returns a fresh session token.
func (s *Accounts) Signup(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLength || len(password) < minPasswordLength {
		return "", ErrWeakCredentials
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		BudgetData:   []domain.BudgetItem{},
	}
	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", ErrUsernameTaken
		}
		return "", err
	}

	slogx.FromContext(ctx).Info("user registered", "username", username)
	return s.issue(user)
}

// Login verifies the password and returns a session token stamped with the
// current issue time. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *Accounts) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Error("user lookup failed during login", "err", err)
		}
		return "", ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issue(user)
}

// ChangePassword swaps the password hash and moves the token validity
// watermark to now. Tokens issued before this instant stop working;
// the token returned here is issued at the watermark itself, so the caller
// stays logged in.
func (s *Accounts) ChangePassword(ctx context.Context, user domain.User, current, next string) (string, error) {
	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}
	if len(next) < minPasswordLength {
		return "", ErrWeakCredentials
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if err := s.Store.Users().UpdatePassword(ctx, user.Username, hash, now.Unix()); err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("password changed, prior tokens invalidated", "username", user.Username)

	claims := jwtx.NewSessionClaims(user.ID, user.Username, s.Issuer, s.sessionTTL(), now)
	return s.Signer.Sign(claims)
}

func (s *Accounts) issue(user domain.User) (string, error) {
	claims := jwtx.NewSessionClaims(user.ID, user.Username, s.Issuer, s.sessionTTL(), time.Now().UTC())
	return s.Signer.Sign(claims)
}

func (s *Accounts) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}
