package jwt

import (
	gojwt "github.com/golang-jwt/jwt"

	"relaychat/internal/app/user"
)

// Claims is the JWT payload issued to authenticated users. The standard
// claims carry expiry, issue time, and issuer; the custom fields identify the
// subject within this system.
type Claims struct {
	gojwt.StandardClaims

	// UserID is the account identifier the credential was issued for.
	UserID string `json:"uid"`

	// Role is the role recorded at issue time. Authorization decisions always
	// re-check the stored user, so a stale role here only affects display.
	Role user.Role `json:"role"`
}
