// Package token creates and verifies the compact signed session tokens
// the auth service issues. Tokens are bearer-style and stateless: the
// server keeps no reference after issuance, so revocation before
// natural expiry is not possible.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	MalformedTokenErr = errors.New("malformed token")
	BadSignatureErr   = errors.New("token signature mismatch")
	ExpiredTokenErr   = errors.New("token expired")
)

// DefaultLifetime is the session token validity window.
const DefaultLifetime = 1 * time.Hour

// Codec signs and verifies session tokens with a process-wide HMAC
// secret. The secret is read-only after construction, so a single
// Codec is safe for concurrent use.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	nowTime  func() time.Time // nowTime function (injectable for testing)
}

// CodecOption defines a function type to modify the Codec instance.
type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// WithLifetime overrides the default token lifetime.
func WithLifetime(lifetime time.Duration) CodecOption {
	return func(c *Codec) {
		c.lifetime = lifetime
	}
}

func NewCodec(secret []byte, options ...CodecOption) *Codec {
	codec := &Codec{
		secret:   secret,
		lifetime: DefaultLifetime,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(codec)
	}
	return codec
}

// Issue produces a signed token embedding subjectID with an expiry one
// lifetime from now.
func (c *Codec) Issue(subjectID string) (string, error) {
	now := c.nowTime()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		ID:        uuid.New().String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify validates a raw token and returns the embedded subject
// identifier. A token is valid if and only if its signature verifies
// against the secret and its expiry has not elapsed; failures map to
// MalformedTokenErr, BadSignatureErr, or ExpiredTokenErr.
func (c *Codec) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.nowTime), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case err == nil:
		return claims.Subject, nil
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", BadSignatureErr
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ExpiredTokenErr
	default:
		return "", MalformedTokenErr
	}
}
