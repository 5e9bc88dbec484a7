package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// IsTokenExpired classifies token by its exp claim without verifying the
// signature; the remote boundary stays the source of truth. Any decode
// failure counts as expired.
func IsTokenExpired(token string) bool {
	return isTokenExpiredAt(token, time.Now())
}

func isTokenExpiredAt(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return true
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return true
	}
	return int64(exp) < now.Unix()
}

// TokenExpiration returns the exp claim as a time, and false when the token
// carries none or cannot be decoded.
func TokenExpiration(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}
