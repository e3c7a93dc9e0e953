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

	"github.com/taskhub/taskhub/internal/handler/dto"
	"github.com/taskhub/taskhub/internal/metrics"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/repository"
)

// TaskStore defines the persistence operations task handlers need.
// Implemented by *repository.Repository.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context) ([]*model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// TaskHandler handles HTTP requests for task operations.
// Tasks have no owner; there is no identity injection here.
type TaskHandler struct {
	store   TaskStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(store TaskStore, logger *slog.Logger, recorder metrics.Recorder) *TaskHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskHandler{
		store:   store,
		logger:  logger,
		metrics: recorder,
	}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks(r.Context())
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskListResponse(tasks))
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to get task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch task")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:          ulid.Make().String(),
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateTask(r.Context(), task); err != nil {
		h.logger.Error("failed to create task", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	h.logger.Info("task created", "task_id", task.ID)
	h.metrics.IncEntityCreated("task")

	writeJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// Update handles PUT /api/tasks/{id}.
// Full replacement semantics, same as projects.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task := &model.Task{
		ID:          id,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to update task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}

	updated, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload task after update", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}

	h.logger.Info("task updated", "task_id", id)
	h.metrics.IncEntityUpdated("task")

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(updated))
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to delete task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	h.logger.Info("task deleted", "task_id", id)
	h.metrics.IncEntityDeleted("task")

	writeMessage(w, http.StatusOK, "Task deleted successfully")
}
