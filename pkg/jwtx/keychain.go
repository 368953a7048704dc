package jwtx

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Key is a named HMAC secret. The KID travels in the token header so the
// verifier can pick the right secret without trying every one.
type Key struct {
	KID    string
	Secret []byte
}

// Keychain holds the active signing key plus any number of retired keys
// that are still accepted for verification. Rotating a secret means
// promoting a new primary and demoting the old one to Previous until every
// token signed with it has expired.
type Keychain struct {
	Primary  Key
	Previous []Key
}

// ErrEmptyKeychain reports a keychain with no usable primary key.
var ErrEmptyKeychain = errors.New("jwtx: keychain has no primary key")

// NewKeychain builds a keychain from raw secrets. The first secret becomes
// the primary; the rest are retired keys kept for verification only.
func NewKeychain(secrets ...[]byte) (*Keychain, error) {
	if len(secrets) == 0 || len(secrets[0]) == 0 {
		return nil, ErrEmptyKeychain
	}

	kc := &Keychain{Primary: Key{KID: keyID(secrets[0]), Secret: secrets[0]}}
	for _, s := range secrets[1:] {
		if len(s) == 0 {
			continue
		}
		kc.Previous = append(kc.Previous, Key{KID: keyID(s), Secret: s})
	}
	return kc, nil
}

// Lookup returns the secret for a kid. An empty kid matches the primary.
func (kc *Keychain) Lookup(kid string) ([]byte, bool) {
	if kid == "" || kid == kc.Primary.KID {
		return kc.Primary.Secret, true
	}
	for _, k := range kc.Previous {
		if k.KID == kid {
			return k.Secret, true
		}
	}
	return nil, false
}

// All returns every key, primary first. The verifier tries each of these
// for tokens that carry no kid header.
func (kc *Keychain) All() []Key {
	keys := make([]Key, 0, 1+len(kc.Previous))
	keys = append(keys, kc.Primary)
	keys = append(keys, kc.Previous...)
	return keys
}

// IsReady reports whether the keychain can sign and verify.
func (kc *Keychain) IsReady() bool {
	return kc != nil && len(kc.Primary.Secret) > 0
}

// keyID derives the kid from the secret itself. A demoted secret keeps its
// kid across rotations and restarts, so tokens signed before the rotation
// still resolve to the right key.
func keyID(secret []byte) string {
	sum := sha256.Sum256(secret)
	return "k" + hex.EncodeToString(sum[:4])
}
