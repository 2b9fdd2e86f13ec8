package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/harvestline/agriconsole/internal/constants"
)

// ExpiryHint reads the exp claim of a JWT without verifying its signature.
// The console never enforces expiry itself; the hint only decides how long
// the token is kept in storage.
func ExpiryHint(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(accessToken, claims)
	if err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// TTLFor returns how long to keep accessToken: until its exp claim when it has
// one in the future, else the default token TTL.
func TTLFor(accessToken string, now time.Time) time.Duration {
	if exp, ok := ExpiryHint(accessToken); ok && exp.After(now) {
		return exp.Sub(now)
	}

	return constants.DefaultTokenTTL
}
