package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spendwise/budgetd/internal/budget/domain"
	"github.com/spendwise/budgetd/internal/budget/store"
	"github.com/spendwise/budgetd/pkg/jwtx"
	"github.com/spendwise/budgetd/pkg/slogx"
)

// TokenGate resolves a bearer token to the current user document. Every
// ledger operation goes through Authorize first; nothing else in the
// service layer reads credentials.
type TokenGate struct {
	Verifier jwtx.Verifier
	Store    store.Store
}

// Authorize verifies the token, loads the user it names, and checks the
// issue time against the user's validity watermark. All failure modes
// return ErrInvalidToken; the specific cause is logged server-side only.
// The returned snapshot (including its version) belongs to this request.
func (g *TokenGate) Authorize(ctx context.Context, token string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, ErrInvalidToken
	}

	claims, err := g.Verifier.Verify(token)
	if err != nil {
		l.Info("token verification failed", "err", err)
		return domain.User{}, ErrInvalidToken
	}
	if claims.Username == "" {
		return domain.User{}, ErrInvalidToken
	}

	user, err := g.Store.Users().GetByUsername(ctx, claims.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			// Store trouble also reads as an invalid token to the caller;
			// the operator finds the real cause here.
			l.Error("user lookup failed during authorization", "err", err)
		}
		return domain.User{}, ErrInvalidToken
	}

	// Strict less-than: a token issued exactly at the watermark is valid.
	if claims.IssuedAtUnix() < user.ValidTime {
		l.Info("stale token rejected", "username", user.Username)
		return domain.User{}, ErrInvalidToken
	}

	return user, nil
}
