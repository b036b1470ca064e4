package memory

import (
	"context"
	"errors"
	"testing"

	"inkwell.dev/internal/auth"
)

func TestUserStoreUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	u := &auth.User{Email: "a@x.com", Nickname: "alice", PasswordHash: "h", Role: auth.RoleUser}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("expected id 1, got %d", u.ID)
	}

	dup := &auth.User{Email: "A@X.com", Nickname: "other", PasswordHash: "h", Role: auth.RoleUser}
	if err := store.Create(ctx, dup); !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("duplicate email: expected ErrConflict, got %v", err)
	}
	dup = &auth.User{Email: "b@x.com", Nickname: "alice", PasswordHash: "h", Role: auth.RoleUser}
	if err := store.Create(ctx, dup); !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("duplicate nickname: expected ErrConflict, got %v", err)
	}
}

func TestUserStoreRefreshTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	u := &auth.User{Email: "a@x.com", Nickname: "alice", PasswordHash: "h", Role: auth.RoleUser}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.SaveRefreshToken(ctx, u.ID, "tok"); err != nil {
		t.Fatalf("SaveRefreshToken: %v", err)
	}
	got, err := store.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.RefreshToken == nil || *got.RefreshToken != "tok" {
		t.Fatalf("token not stored: %+v", got.RefreshToken)
	}

	// The returned user is a copy; mutating it must not touch the store.
	*got.RefreshToken = "tampered"
	again, _ := store.FindByID(ctx, u.ID)
	if *again.RefreshToken != "tok" {
		t.Fatal("store row aliased by returned copy")
	}

	if err := store.ClearRefreshToken(ctx, u.ID); err != nil {
		t.Fatalf("ClearRefreshToken: %v", err)
	}
	got, _ = store.FindByID(ctx, u.ID)
	if got.RefreshToken != nil {
		t.Fatal("token not cleared")
	}
	if err := store.SaveRefreshToken(ctx, 404, "tok"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
