package handler

import (
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"relaychat/internal/app/db"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/req"
	"relaychat/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// bcrypt ignores everything past 72 bytes, so longer passwords are rejected
// rather than silently truncated.
const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// HandleRegister creates a new account and issues a token for it.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.Error(w, customErr)
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.Error(w, errs.New(errs.ErrInvalidEmail))
			return
		}

		passwordLen := len(input.Password)
		if passwordLen < minPasswordLen || passwordLen > maxPasswordLen {
			resp.Error(w, errs.New(errs.ErrInvalidPassword))
			return
		}

		name := input.Name
		if name == "" || utf8.RuneCountInString(name) > 50 {
			resp.Error(w, errs.New(errs.ErrInvalidParams))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.Error(w, errs.New(errs.ErrInternal, err))
			return
		}

		u, err := deps.Users.Create(r.Context(), input.Email, string(hashedPassword), name)
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("registration conflict: email already exists", "email", input.Email)
				resp.Error(w, errs.New(errs.ErrEmailTaken))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.Error(w, errs.New(errs.ErrInternal, err))
			return
		}

		if err := deps.Users.TouchLastLogin(r.Context(), u.ID); err != nil {
			logx.Error(err, "register: failed to update last_login_at", "user_id", u.ID)
		}

		token, err := jwt.Generate(u, deps.Config.JWTSecret, jwt.Expiration)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.Error(w, errs.New(errs.ErrInternal, err))
			return
		}

		resp.Created(w, map[string]any{
			"token": token,
			"user":  u,
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.Error(w, customErr)
			return
		}

		u, err := deps.Users.GetByEmail(r.Context(), input.Email)
		if err != nil {
			logx.Warn("login: user fetch failed", "email", input.Email, "error", err.Error())
			resp.Error(w, errs.New(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", input.Email)
			resp.Error(w, errs.New(errs.ErrInvalidCredentials))
			return
		}

		if !u.Active {
			logx.Warn("login rejected: account deactivated", "user_id", u.ID)
			resp.Error(w, errs.New(errs.ErrAuthFailed))
			return
		}

		if err := deps.Users.TouchLastLogin(r.Context(), u.ID); err != nil {
			logx.Error(err, "login: failed to update last_login_at", "user_id", u.ID)
		}

		token, err := jwt.Generate(u, deps.Config.JWTSecret, jwt.Expiration)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.Error(w, errs.New(errs.ErrInternal, err))
			return
		}

		resp.Success(w, map[string]any{
			"token": token,
			"user":  u,
		})
	}
}

// HandleMe returns the authenticated user's profile.
func HandleMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)
		if u == nil {
			resp.Error(w, errs.New(errs.ErrCredentialRequired))
			return
		}

		resp.Success(w, map[string]any{
			"user": u,
		})
	}
}
