/*
Package user defines the account entity and its Postgres-backed store.

Accounts are created through registration and consumed read-only by the chat
core: the connection gate and the REST middleware both resolve a token subject
to a User here and refuse anything deactivated or missing.
*/
package user

// Role determines what a user may do beyond owning their own messages.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// User is the account entity. PasswordHash never serializes.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar,omitempty"`
	Role         Role   `json:"role"`
	Active       bool   `json:"active"`
	PasswordHash string `json:"-"`
}

// CanModerate reports whether the user may access moderation-only surfaces
// such as the message statistics endpoint.
func (u User) CanModerate() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}
