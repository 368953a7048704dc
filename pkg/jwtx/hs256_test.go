package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testKeychain(t *testing.T, secrets ...string) *Keychain {
	t.Helper()

	raw := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		raw = append(raw, []byte(s))
	}
	kc, err := NewKeychain(raw...)
	require.NoError(t, err)
	return kc
}

func TestSignVerifyRoundtrip(t *testing.T) {
	t.Parallel()

	kc := testKeychain(t, "primary-secret")
	signer, err := NewSignerHS256(kc)
	require.NoError(t, err)
	verifier := NewVerifierHS256(kc, "budgetd")

	now := time.Now().UTC().Truncate(time.Second)
	token, err := signer.Sign(NewSessionClaims("u-1", "alice", "budgetd", time.Hour, now))
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "u-1", claims.Subject)
	require.Equal(t, now.Unix(), claims.IssuedAtUnix())
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	t.Parallel()

	signKC := testKeychain(t, "attacker-secret")
	signer, err := NewSignerHS256(signKC)
	require.NoError(t, err)

	token, err := signer.Sign(NewSessionClaims("u-1", "alice", "budgetd", time.Hour, time.Now()))
	require.NoError(t, err)

	verifier := NewVerifierHS256(testKeychain(t, "server-secret"), "budgetd")
	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyAcceptsPreviousSecretAfterRotation(t *testing.T) {
	t.Parallel()

	// Sign against the pre-rotation keychain, verify against the
	// post-rotation one, both built the way the config layer builds them.
	oldSigner, err := NewSignerHS256(testKeychain(t, "old-secret"))
	require.NoError(t, err)

	token, err := oldSigner.Sign(NewSessionClaims("u-1", "alice", "budgetd", time.Hour, time.Now()))
	require.NoError(t, err)

	rotated := testKeychain(t, "new-secret", "old-secret")
	verifier := NewVerifierHS256(rotated, "budgetd")

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)

	// The new primary signs and verifies as usual.
	newSigner, err := NewSignerHS256(rotated)
	require.NoError(t, err)
	token, err = newSigner.Sign(NewSessionClaims("u-1", "alice", "budgetd", time.Hour, time.Now()))
	require.NoError(t, err)
	_, err = verifier.Verify(token)
	require.NoError(t, err)
}

func TestKeyIDStableAcrossRotation(t *testing.T) {
	t.Parallel()

	before := testKeychain(t, "secret-a")
	after := testKeychain(t, "secret-b", "secret-a")

	require.Equal(t, before.Primary.KID, after.Previous[0].KID)
	require.NotEqual(t, after.Primary.KID, after.Previous[0].KID)
}

func TestVerifyTokenWithoutKID(t *testing.T) {
	t.Parallel()

	// A token minted before kid stamping, signed with a now-demoted
	// secret, still resolves through the try-every-key fallback.
	claims := NewSessionClaims("u-1", "alice", "budgetd", time.Hour, time.Now())
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte("old-secret"))
	require.NoError(t, err)

	verifier := NewVerifierHS256(testKeychain(t, "new-secret", "old-secret"), "budgetd")
	got, err := verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	kc := testKeychain(t, "secret")
	signer, err := NewSignerHS256(kc)
	require.NoError(t, err)

	token, err := signer.Sign(NewSessionClaims("u-1", "alice", "budgetd", time.Hour, time.Now().Add(-2*time.Hour)))
	require.NoError(t, err)

	_, err = NewVerifierHS256(kc, "budgetd").Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	kc := testKeychain(t, "secret")
	signer, err := NewSignerHS256(kc)
	require.NoError(t, err)

	token, err := signer.Sign(NewSessionClaims("u-1", "alice", "someone-else", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = NewVerifierHS256(kc, "budgetd").Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	t.Parallel()

	verifier := NewVerifierHS256(testKeychain(t, "secret"), "")
	_, err := verifier.Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyRejectsUnknownKID(t *testing.T) {
	t.Parallel()

	kc := testKeychain(t, "secret")
	verifier := NewVerifierHS256(kc, "")

	claims := NewSessionClaims("u-1", "alice", "", time.Hour, time.Now())
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok.Header["kid"] = "k9"
	raw, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, ErrUnknownKID)
}

func TestNewKeychainRequiresPrimary(t *testing.T) {
	t.Parallel()

	_, err := NewKeychain()
	require.ErrorIs(t, err, ErrEmptyKeychain)

	_, err = NewKeychain([]byte{})
	require.ErrorIs(t, err, ErrEmptyKeychain)
}

func TestKeychainLookup(t *testing.T) {
	t.Parallel()

	kc := testKeychain(t, "a", "b", "c")

	secret, ok := kc.Lookup("")
	require.True(t, ok)
	require.Equal(t, []byte("a"), secret)

	secret, ok = kc.Lookup(kc.Previous[1].KID)
	require.True(t, ok)
	require.Equal(t, []byte("c"), secret)

	_, ok = kc.Lookup("k9")
	require.False(t, ok)

	require.Len(t, kc.All(), 3)
}
