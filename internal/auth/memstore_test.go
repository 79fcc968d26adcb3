package auth

import (
	"context"
	"errors"
	"testing"
)

func TestMemStoreFindAndInsert(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if _, err := store.Find(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	user := &User{Username: "alice", PasswordHash: "hash", Role: RoleViewer}
	if err := store.Insert(ctx, user); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be stamped")
	}

	got, err := store.Find(ctx, "alice")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.PasswordHash != "hash" || got.Role != RoleViewer {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Returned record is a copy; mutating it must not touch the store.
	got.Role = RoleAdmin
	again, _ := store.Find(ctx, "alice")
	if again.Role != RoleViewer {
		t.Fatal("store record mutated through a returned copy")
	}
}

func TestMemStoreInsertConflict(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &User{Username: "alice"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Insert(ctx, &User{Username: "alice"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := store.Insert(ctx, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil user, got %v", err)
	}
	if err := store.Insert(ctx, &User{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty username, got %v", err)
	}
}

func TestMemStoreUpdateRole(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.UpdateRole(ctx, "alice", RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_ = store.Insert(ctx, &User{Username: "alice", Role: RoleViewer})
	if err := store.UpdateRole(ctx, "alice", RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	got, _ := store.Find(ctx, "alice")
	if got.Role != RoleAdmin {
		t.Fatalf("expected admin role, got %s", got.Role)
	}
}
