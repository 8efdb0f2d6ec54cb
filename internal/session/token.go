package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// AccessTokenExpiry reads the exp claim of an access token without verifying
// its signature. The client cannot verify server tokens; the value is only
// used to tell the user when the session will need a refresh.
func AccessTokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("access token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
