package auth

import (
	"context"
	"testing"

	"github.com/taskhub/taskhub/internal/model"
)

func TestIdentityFromContext_Present(t *testing.T) {
	t.Parallel()

	identity := &model.Identity{
		UserID:   "user-1",
		Username: "alice",
		Email:    "alice@example.com",
	}

	ctx := ContextWithIdentity(context.Background(), identity)

	got := IdentityFromContext(ctx)
	if got == nil {
		t.Fatal("expected identity, got nil")
	}
	if got.UserID != "user-1" || got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("unexpected identity: %+v", got)
	}
}

func TestIdentityFromContext_Absent(t *testing.T) {
	t.Parallel()

	if got := IdentityFromContext(context.Background()); got != nil {
		t.Errorf("expected nil identity, got %+v", got)
	}

	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty user ID, got %q", got)
	}
}

func TestMustIdentityFromContext_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic when identity is absent")
		}
	}()

	MustIdentityFromContext(context.Background())
}
