package shopauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry lifts the expiry claim out of JWT-shaped bearer tokens so the
// session can report when it will lapse. The token is NOT verified here;
// the backend is the authority on validity and this is display metadata only.
// Opaque (non-JWT) tokens yield the zero time.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
