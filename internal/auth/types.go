package auth

import "time"

// Role is a coarse capability label attached to a user record.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the supported labels.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleViewer:
		return true
	}
	return false
}

// User is the credential record persisted in the store. Username is the
// primary key and immutable once created. PasswordHash is never the
// plaintext password.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials is the transient username/password pair presented at login.
// It exists only for the duration of an Authenticate call and is never
// persisted or logged.
type Credentials struct {
	Username string
	Password string
}

// Sanitize returns a copy of the user with the password hash cleared, safe
// to hand across the collaborator boundary.
func (u *User) Sanitize() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	return &out
}
