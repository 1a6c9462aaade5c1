package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"edupath/internal/models"
)

// ExpiresAt reads the exp claim of a JWT credential without verifying its
// signature. Opaque credentials report false.
func ExpiresAt(cred models.Credential) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(cred.Value(), claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired is true only for JWT credentials whose exp has passed.
func Expired(cred models.Credential, now time.Time) bool {
	exp, ok := ExpiresAt(cred)
	return ok && !now.Before(exp)
}
