package jwt

import (
	"errors"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"relaychat/internal/app/user"
)

const (
	// Expiration is how long an issued credential stays valid.
	Expiration = 24 * time.Hour

	// TokenIssuer identifies this server in the iss claim.
	TokenIssuer = "relaychat"
)

// Generate signs a new HS256 credential for the given user.
func Generate(u *user.User, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		StandardClaims: gojwt.StandardClaims{
			ExpiresAt: now.Add(duration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		UserID: u.ID,
		Role:   u.Role,
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// HasTokenShape reports whether raw is structurally a JWT: three non-empty
// dot-separated segments. Used to reject garbage before signature checking.
func HasTokenShape(raw string) bool {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// Verify checks the structural shape, signature, and expiry of raw, and that
// the embedded subject is a well-formed identifier.
func Verify(raw string, secretKey string) (*Claims, error) {
	if !HasTokenShape(raw) {
		return nil, errors.New("malformed token")
	}

	claims := &Claims{}

	token, err := gojwt.ParseWithClaims(raw, claims, func(token *gojwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, errors.New("malformed subject identifier")
	}

	return claims, nil
}
