package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("session token is invalid")
	ErrTokenExpired = errors.New("session token is expired")
)

// tokenParser only decodes. The signature belongs to the business API and
// is checked there on every call; the dashboard just needs exp.
var tokenParser = jwt.NewParser()

// CheckToken decodes raw as a JWT and returns its expiry. The token is
// rejected if it cannot be decoded, has no exp claim, or exp <= now.
func CheckToken(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return time.Time{}, ErrTokenInvalid
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := tokenParser.ParseUnverified(raw, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrTokenInvalid)
	}

	if !exp.Time.After(now) {
		return exp.Time, ErrTokenExpired
	}

	return exp.Time, nil
}
