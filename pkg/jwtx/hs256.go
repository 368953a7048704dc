package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrUnknownKID = errors.New("jwtx: unknown kid")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
)

// Signer signs session claims into a compact JWT.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256Signer signs with the keychain's primary secret and stamps the kid
// header so verifiers can route to the right key after a rotation.
type HS256Signer struct {
	keys *Keychain
}

// NewSignerHS256 creates an HS256 signer backed by the keychain.
func NewSignerHS256(keys *Keychain) (*HS256Signer, error) {
	if !keys.IsReady() {
		return nil, ErrEmptyKeychain
	}
	return &HS256Signer{keys: keys}, nil
}

func (s *HS256Signer) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tok.Header["kid"] = s.keys.Primary.KID
	return tok.SignedString(s.keys.Primary.Secret)
}

// HS256Verifier verifies against every key in the keychain, enforcing the
// HS256 algorithm and, when configured, the issuer claim. Expiry and nbf
// come from the jwt library's registered-claims validation.
type HS256Verifier struct {
	keys   *Keychain
	issuer string
	leeway time.Duration
}

// NewVerifierHS256 creates a verifier for the keychain. An empty issuer
// disables issuer enforcement.
func NewVerifierHS256(keys *Keychain, issuer string) *HS256Verifier {
	return &HS256Verifier{keys: keys, issuer: issuer, leeway: 30 * time.Second}
}

func (v *HS256Verifier) Verify(raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, v.keyfunc, opts...)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}
	return claims, nil
}

// keyfunc resolves the verification secret. Tokens carrying a kid must
// match a known key; tokens without one (minted before kid stamping) get
// every key tried in order, primary first.
func (v *HS256Verifier) keyfunc(tok *jwt.Token) (any, error) {
	kid, _ := tok.Header["kid"].(string)
	if kid == "" {
		var set jwt.VerificationKeySet
		for _, k := range v.keys.All() {
			set.Keys = append(set.Keys, k.Secret)
		}
		return set, nil
	}
	secret, ok := v.keys.Lookup(kid)
	if !ok {
		return nil, ErrUnknownKID
	}
	return secret, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, ErrUnknownKID):
		return ErrUnknownKID
	default:
		return ErrMalformed
	}
}
