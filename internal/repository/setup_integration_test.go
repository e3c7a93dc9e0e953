//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/taskhub/taskhub/internal/testutil"
)

// newTestEnv connects to the test database, serializes access with an
// advisory lock and resets all schemas.
func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	ctx := context.Background()

	databaseURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect to database: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.ResetUsersSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}
	if err := testutil.ResetProjectsSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset projects schema: %v", err)
	}
	if err := testutil.ResetTasksSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset tasks schema: %v", err)
	}

	return ctx, repo
}
