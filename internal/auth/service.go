package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultAccessTTL = 15 * time.Minute

// Service ties the credential store, the password hasher and the token codec
// together: it authenticates credentials, issues access tokens and resolves
// presented tokens back to live user records. It holds no per-request state
// beyond the injected store and is safe for concurrent use.
type Service struct {
	store  Store
	codec  *Codec
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithAccessTTL overrides the default 15 minute token lifetime.
func WithAccessTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl > 0 {
			s.ttl = ttl
		}
		return nil
	}
}

// WithIssuer sets the issuer claim stamped into tokens.
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) error {
		s.issuer = strings.TrimSpace(issuer)
		return nil
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// NewService constructs a Service over the given store and codec.
func NewService(store Store, codec *Codec, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if codec == nil {
		return nil, errors.New("auth: codec is required")
	}
	svc := &Service{
		store:  store,
		codec:  codec,
		issuer: "authgate",
		ttl:    defaultAccessTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// AccessTTL returns the configured token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.ttl
}

// Register hashes the password and inserts a new record. The returned record
// carries no password hash. Duplicate usernames yield ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, username, password, email string, age int, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if role == "" {
		role = RoleViewer
	}
	if !role.Valid() {
		return nil, ErrInvalidInput
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, ErrInvalidInput
	}
	user := &User{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(email),
		Age:          age,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// Authenticate looks up the username and verifies the password. Both failure
// causes collapse to ErrInvalidCredentials, and a missing user still runs one
// bcrypt comparison against a dummy hash so the two paths cost the same.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.store.Find(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			VerifyPassword(dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Issue builds claims for an already-authenticated identity and signs them.
// Existence of the user is the caller's responsibility; Issue is reached only
// after a successful Authenticate.
func (s *Service) Issue(ctx context.Context, user *User) (string, time.Time, error) {
	if user == nil || strings.TrimSpace(user.Username) == "" {
		return "", time.Time{}, ErrInvalidInput
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token, err := s.codec.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Resolve verifies a bearer token and returns the live user record for its
// subject. The role on the returned record is read fresh from the store, not
// from the token, so role changes apply to tokens already in flight.
func (s *Service) Resolve(ctx context.Context, token string) (*User, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}
	user, err := s.store.Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, err
	}
	return user, nil
}
