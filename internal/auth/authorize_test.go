package auth

import (
	"errors"
	"testing"
)

func TestRequireRole(t *testing.T) {
	admin := &User{Username: "root", Role: RoleAdmin}
	viewer := &User{Username: "alice", Role: RoleViewer}

	if err := RequireRole(admin, RoleAdmin); err != nil {
		t.Fatalf("matching role denied: %v", err)
	}
	if err := RequireRole(viewer, RoleAdmin); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	// No hierarchy: admin does not imply viewer.
	if err := RequireRole(admin, RoleViewer); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied for admin on viewer gate, got %v", err)
	}
	if err := RequireRole(nil, RoleAdmin); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied for nil user, got %v", err)
	}
}
