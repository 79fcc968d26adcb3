package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *MemStore) {
	t.Helper()
	store := NewMemStore()
	codec, err := NewCodec("unit-test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	svc, err := NewService(store, codec, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "S3cret!", "alice@example.com", 30, RoleViewer)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("registered record must not expose the password hash")
	}
	if user.Role != RoleViewer {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	got, err := svc.Authenticate(ctx, "alice", "S3cret!")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "S3cret!", "", 0, RoleViewer); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "0ther!", "", 0, RoleAdmin)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "pw", "", 0, RoleViewer); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty username: got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "", "", 0, RoleViewer); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty password: got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "pw", "", 0, Role("root")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown role: got %v", err)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "S3cret!", "", 0, RoleViewer); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, missingErr := svc.Authenticate(ctx, "nobody", "whatever")
	_, wrongErr := svc.Authenticate(ctx, "alice", "wrong-password")

	if !errors.Is(missingErr, ErrInvalidCredentials) {
		t.Fatalf("missing user: expected ErrInvalidCredentials, got %v", missingErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if missingErr.Error() != wrongErr.Error() {
		t.Fatalf("failure variants differ externally: %v vs %v", missingErr, wrongErr)
	}
}

func TestAuthenticateUsernameIsCaseSensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "S3cret!", "", 0, RoleViewer); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "S3cret!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected exact-match usernames, got %v", err)
	}
}

func TestIssueAndResolve(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "S3cret!", "", 0, RoleViewer)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, expiresAt, err := svc.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	resolved, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Username != "alice" {
		t.Fatalf("unexpected subject: %s", resolved.Username)
	}
}

func TestResolveReadsRoleFresh(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "S3cret!", "", 0, RoleViewer)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	resolved, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if errRole := RequireRole(resolved, RoleAdmin); !errors.Is(errRole, ErrDenied) {
		t.Fatalf("expected denial before escalation, got %v", errRole)
	}

	// Escalate in the store; the still-valid token must pick up the new role.
	if err := store.UpdateRole(ctx, "alice", RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	resolved, err = svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve after escalation: %v", err)
	}
	if err := RequireRole(resolved, RoleAdmin); err != nil {
		t.Fatalf("expected admin access after escalation, got %v", err)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	current := time.Now().UTC()
	clock := func() time.Time { return current }

	store := NewMemStore()
	codec, err := NewCodec("unit-test-secret", WithCodecClock(clock))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	svc, err := NewService(store, codec, WithAccessTTL(time.Second), WithClock(clock))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx := context.Background()
	user, err := svc.Register(ctx, "alice", "S3cret!", "", 0, RoleViewer)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Resolve(ctx, token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	current = current.Add(2 * time.Second)
	if _, err := svc.Resolve(ctx, token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestResolveUnknownSubject(t *testing.T) {
	// Two services share a codec but not a store: a token minted against the
	// first store resolves ErrUnknownSubject against the second. This covers
	// a subject deleted between issuance and resolution.
	codec, err := NewCodec("unit-test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	issuing, err := NewService(NewMemStore(), codec)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	resolving, err := NewService(NewMemStore(), codec)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx := context.Background()
	user, err := issuing.Register(ctx, "ghost", "S3cret!", "", 0, RoleViewer)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := issuing.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := resolving.Resolve(ctx, token); !errors.Is(err, ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestResolveRejectsForeignIssuer(t *testing.T) {
	codec, err := NewCodec("unit-test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	store := NewMemStore()
	minter, err := NewService(store, codec, WithIssuer("someone-else"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc, err := NewService(store, codec)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx := context.Background()
	user, err := svc.Register(ctx, "alice", "S3cret!", "", 0, RoleViewer)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := minter.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Resolve(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign issuer, got %v", err)
	}
}

func TestConcurrentRegistrationSingleWinner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "alice", "S3cret!", "", 0, RoleViewer)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != attempts-1 {
		t.Fatalf("expected one winner, got %d wins and %d conflicts", wins, conflicts)
	}
}
