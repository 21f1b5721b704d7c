// Package token issues and validates the HS256 session tokens used as bearer
// credentials. Two entry points exist on purpose: Authenticate verifies an
// externally supplied token and fails closed, while Decode reads back the
// claims of a token this process just signed and performs no verification.
// The two must never be conflated.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every rejection cause: bad signature, wrong
// algorithm, malformed payload, expiry. Callers get no finer detail.
var ErrTokenInvalid = errors.New("token invalid")

// Claims is the payload embedded in every issued token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given identity, expiring ttl from now.
func Issue(subject, email, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Authenticate parses and verifies an externally supplied token: signature,
// signing algorithm and expiry all must hold. Any defect yields
// ErrTokenInvalid, never partial claims.
func Authenticate(raw, secret string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Decode parses a token without verifying its signature. It exists so the
// issuer can read the absolute expiry back out of a token it just signed;
// it must never be used to accept a token from a caller.
func Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseTTL resolves a token lifetime expression to a duration. Accepted
// forms: Go durations ("15m", "1h"), a day suffix ("7d"), and bare seconds
// ("900"). All resolve to the same absolute-expiry semantics at issue time.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse ttl: empty value")
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("parse ttl: invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("parse ttl: non-positive seconds %q", s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("parse ttl: %q", s)
	}
	return d, nil
}
