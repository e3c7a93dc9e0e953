package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/handler/dto"
	"github.com/taskhub/taskhub/internal/metrics"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/repository"
)

// ProjectStore defines the persistence operations project handlers need.
// Implemented by *repository.Repository.
type ProjectStore interface {
	CreateProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]*model.Project, error)
	UpdateProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, id string) error
}

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	store   ProjectStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(store ProjectStore, logger *slog.Logger, recorder metrics.Recorder) *ProjectHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ProjectHandler{
		store:   store,
		logger:  logger,
		metrics: recorder,
	}
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectListResponse(projects))
}

// Get handles GET /api/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		h.logger.Error("failed to get project", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch project")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectResponse(project))
}

// Create handles POST /api/projects.
// The owner is always the authenticated identity; any owner value in
// the request body is ignored.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity := auth.MustIdentityFromContext(r.Context())

	now := time.Now().UTC()
	project := &model.Project{
		ID:          ulid.Make().String(),
		OwnerID:     identity.UserID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateProject(r.Context(), project); err != nil {
		h.logger.Error("failed to create project", "owner_id", identity.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	h.logger.Info("project created",
		"project_id", project.ID,
		"owner_id", project.OwnerID,
	)
	h.metrics.IncEntityCreated("project")

	writeJSON(w, http.StatusCreated, dto.ToProjectResponse(project))
}

// Update handles PUT /api/projects/{id}.
// This is a full replacement: every mutable field is overwritten with
// the request value, including fields the caller omitted.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project := &model.Project{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}

	if err := h.store.UpdateProject(r.Context(), project); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		h.logger.Error("failed to update project", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}

	// Re-fetch so the response carries the stored row, owner included
	updated, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload project after update", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}

	h.logger.Info("project updated", "project_id", id)
	h.metrics.IncEntityUpdated("project")

	writeJSON(w, http.StatusOK, dto.ToProjectResponse(updated))
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		h.logger.Error("failed to delete project", "project_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	h.logger.Info("project deleted", "project_id", id)
	h.metrics.IncEntityDeleted("project")

	writeMessage(w, http.StatusOK, "Project deleted successfully")
}
