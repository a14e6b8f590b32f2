package jwtsigner

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("jwtsigner: empty signing secret")

var (
	ErrMalformed = errors.New("jwtsigner: malformed token")
	ErrSignature = errors.New("jwtsigner: signature mismatch")
	ErrExpired   = errors.New("jwtsigner: token expired")
)

// Signer issues and parses HS256 JWTs with one process-wide secret.
type Signer struct {
	secret []byte
	Issuer string
	now    func() time.Time
}

// NewHS256 creates a signer. An empty secret is refused.
func NewHS256(secret, iss string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), Issuer: iss, now: time.Now}, nil
}

// WithClock returns a copy of the signer that reads time from now.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	cp := *s
	cp.now = now
	return &cp
}

// Sign issues a JWT for subject `sub` with TTL and extra claims.
// Registered claims (iss, sub, iat, exp) always win over entries in claims.
// exp is a NumericDate in whole seconds, so a token can expire up to one
// second before issue time plus ttl.
func (s *Signer) Sign(sub string, ttl time.Duration, claims map[string]any) (string, error) {
	now := s.now()
	m := jwt.MapClaims{}
	for k, v := range claims {
		m[k] = v
	}
	if s.Issuer != "" {
		m["iss"] = s.Issuer
	}
	m["sub"] = sub
	m["iat"] = jwt.NewNumericDate(now)
	m["exp"] = jwt.NewNumericDate(now.Add(ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, m)
	return t.SignedString(s.secret)
}

// Parse checks signature and expiry and returns the subject and the
// remaining (non-registered) claims.
func (s *Signer) Parse(tokenStr string) (string, map[string]any, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.Issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", nil, classify(err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", nil, ErrMalformed
	}

	extra := make(map[string]any, len(claims))
	for k, v := range claims {
		switch k {
		case "iss", "sub", "iat", "exp", "nbf", "aud", "jti":
			continue
		}
		extra[k] = v
	}
	return sub, extra, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignature
	default:
		return ErrMalformed
	}
}
