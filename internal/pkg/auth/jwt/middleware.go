package jwt

import (
	"context"
	"net/http"
	"strings"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/resp"
)

type contextKey string

// contextUserKey stores the resolved *user.User on the request context.
const contextUserKey contextKey = "auth_user"

// BearerToken extracts the raw credential from the Authorization header, or
// from the "token" query parameter as a fallback for WebSocket clients that
// cannot set headers. Returns "" when no credential is presented.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	return r.URL.Query().Get("token")
}

// Resolve validates a presented credential end to end: shape, signature,
// expiry, subject format, and that the referenced user exists and is active.
// This is the single validation path shared by the REST middleware and the
// WebSocket connection gate.
func Resolve(ctx context.Context, raw string, secretKey string, users user.Store) (*user.User, *errs.CustomError) {
	if raw == "" {
		return nil, errs.New(errs.ErrCredentialRequired)
	}

	claims, err := Verify(raw, secretKey)
	if err != nil {
		logx.Warn("credential verification failed", "error", err)
		return nil, errs.New(errs.ErrAuthFailed)
	}

	u, err := users.GetByID(ctx, claims.UserID)
	if err != nil {
		logx.Warn("credential subject lookup failed", "user_id", claims.UserID, "error", err)
		return nil, errs.New(errs.ErrAuthFailed)
	}

	if !u.Active {
		logx.Warn("credential refers to deactivated user", "user_id", u.ID)
		return nil, errs.New(errs.ErrAuthFailed)
	}

	return u, nil
}

// Require rejects requests without a valid credential: 401 with
// "credential required" when absent, 401 with "authentication failed" for
// anything else. The resolved user is injected into the request context.
func Require(secretKey string, users user.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, customErr := Resolve(r.Context(), BearerToken(r), secretKey, users)
			if customErr != nil {
				resp.Error(w, customErr)
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional resolves a credential when one is presented but never rejects the
// request: absent, invalid, or deactivated all proceed as anonymous. Used by
// public read-only endpoints.
func Optional(secretKey string, users user.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, customErr := Resolve(r.Context(), raw, secretKey, users)
			if customErr != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(r *http.Request) *user.User {
	u, ok := r.Context().Value(contextUserKey).(*user.User)
	if !ok {
		return nil
	}
	return u
}
