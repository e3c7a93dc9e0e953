//go:build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/taskhub/taskhub/internal/testutil"
)

func TestIntegrationProjectRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newTestEnv(t)

	project := testutil.NewTestProject(t, "owner-1")

	if err := repo.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	retrieved, err := repo.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}

	if retrieved.Name != project.Name {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, project.Name)
	}
	if retrieved.OwnerID != "owner-1" {
		t.Errorf("OwnerID mismatch: got %q, want %q", retrieved.OwnerID, "owner-1")
	}
}

func TestIntegrationProjectRepository_List(t *testing.T) {
	ctx, repo := newTestEnv(t)

	// Empty table lists as an empty slice, not nil
	projects, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if projects == nil {
		t.Fatal("ListProjects should return an empty slice, got nil")
	}
	if len(projects) != 0 {
		t.Fatalf("Expected empty list, got %d projects", len(projects))
	}

	for i := 0; i < 3; i++ {
		p := testutil.NewTestProject(t, "owner-1")
		p.ID = testutil.UniqueID("project")
		p.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Millisecond)
		if err := repo.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
	}

	projects, err = repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 3 {
		t.Errorf("Expected 3 projects, got %d", len(projects))
	}

	// Newest first
	for i := 1; i < len(projects); i++ {
		if projects[i-1].CreatedAt.Before(projects[i].CreatedAt) {
			t.Error("Projects should be ordered by created_at descending")
		}
	}
}

func TestIntegrationProjectRepository_Update(t *testing.T) {
	ctx, repo := newTestEnv(t)

	project := testutil.NewTestProject(t, "owner-1")
	if err := repo.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	project.Name = "Renamed"
	project.Description = ""
	project.Status = "archived"
	project.DueDate = nil

	if err := repo.UpdateProject(ctx, project); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}

	retrieved, err := repo.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}

	if retrieved.Name != "Renamed" {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, "Renamed")
	}
	if retrieved.Description != "" {
		t.Errorf("Description should be overwritten to empty, got %q", retrieved.Description)
	}
	if retrieved.Status != "archived" {
		t.Errorf("Status mismatch: got %q, want %q", retrieved.Status, "archived")
	}
	if retrieved.DueDate != nil {
		t.Errorf("DueDate should be overwritten to nil, got %v", retrieved.DueDate)
	}
}

func TestIntegrationProjectRepository_UpdateNotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	project := testutil.NewTestProject(t, "owner-1")
	project.ID = "nonexistent-id"

	err := repo.UpdateProject(ctx, project)
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got: %v", err)
	}

	// The failed update must not create a row
	projects, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("Update of a missing project must not create rows, got %d", len(projects))
	}
}

func TestIntegrationProjectRepository_Delete(t *testing.T) {
	ctx, repo := newTestEnv(t)

	project := testutil.NewTestProject(t, "owner-1")
	if err := repo.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if err := repo.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	if _, err := repo.GetProject(ctx, project.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound after delete, got: %v", err)
	}

	// A second delete reports not found, not success
	err := repo.DeleteProject(ctx, project.ID)
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound on second delete, got: %v", err)
	}
}

func TestIntegrationProjectRepository_GetNotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	_, err := repo.GetProject(ctx, "nonexistent-id")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got: %v", err)
	}
}
