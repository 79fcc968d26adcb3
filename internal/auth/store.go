package auth

import "context"

// Store is the credential store collaborator. Username comparison is
// exact-match and case-sensitive. Insert must be atomic with respect to the
// uniqueness check: concurrent inserts of the same username yield exactly one
// success, the rest ErrAlreadyExists.
type Store interface {
	Find(ctx context.Context, username string) (*User, error)
	Insert(ctx context.Context, user *User) error
}
