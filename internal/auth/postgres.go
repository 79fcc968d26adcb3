package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL through database/sql with the
// pgx stdlib driver.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Find(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select username, password_hash, email, age, role, created_at from users where username=$1`,
		username,
	)
	var u User
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Email, &u.Age, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &u, nil
}

func (s *PGStore) Insert(ctx context.Context, user *User) error {
	if user == nil || user.Username == "" {
		return ErrInvalidInput
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into users(username, password_hash, email, age, role, created_at) values($1,$2,$3,$4,$5,$6)`,
		user.Username, user.PasswordHash, user.Email, user.Age, user.Role, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// UpdateRole swaps the role on an existing record in place.
func (s *PGStore) UpdateRole(ctx context.Context, username string, role Role) error {
	res, err := s.db.ExecContext(ctx, `update users set role=$2 where username=$1`, username, role)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
