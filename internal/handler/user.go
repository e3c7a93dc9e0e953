package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/handler/dto"
	"github.com/taskhub/taskhub/internal/metrics"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/repository"
	"github.com/taskhub/taskhub/internal/session"
)

// UserStore defines the persistence operations user handlers need.
// Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// UserHandlerConfig holds dependencies for the user handlers.
type UserHandlerConfig struct {
	Store      UserStore
	Sessions   session.Store
	Secret     string
	SessionTTL time.Duration
	Logger     *slog.Logger
	Metrics    metrics.Recorder
}

// UserHandler handles registration, login and logout.
type UserHandler struct {
	store      UserStore
	sessions   session.Store
	secret     string
	sessionTTL time.Duration
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(cfg UserHandlerConfig) *UserHandler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserHandler{
		store:      cfg.Store,
		sessions:   cfg.Sessions,
		secret:     cfg.Secret,
		sessionTTL: cfg.SessionTTL,
		logger:     cfg.Logger,
		metrics:    recorder,
	}
}

// Register handles POST /api/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		h.logger.Error("failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	h.metrics.IncUserRegistered()

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Message: "User registered successfully",
		User:    dto.ToUserResponse(user),
	})
}

// Login handles POST /api/login.
// Unknown email and wrong password return byte-identical 401 bodies so
// callers cannot probe which emails are registered.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.logger.Warn("login failed", "reason", "unknown_email")
			h.metrics.IncLoginFailure()
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("failed to look up user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.logger.Error("failed to verify password", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if !ok {
		h.logger.Warn("login failed", "reason", "wrong_password", "user_id", user.ID)
		h.metrics.IncLoginFailure()
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	id, err := h.sessions.Create(r.Context(), &model.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		h.logger.Error("failed to create session", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	token := auth.EncodeSessionToken(h.secret, id)
	http.SetCookie(w, h.sessionCookie(token, int(h.sessionTTL.Seconds())))

	h.logger.Info("login successful", "user_id", user.ID)
	h.metrics.IncLoginSuccess()

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		User:    dto.ToUserResponse(user),
	})
}

// Logout handles POST /api/logout.
// The cookie is cleared even when no server-side session remains.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.SessionCookieName)
	if err == nil {
		if id, parseErr := auth.ParseSessionToken(h.secret, cookie.Value); parseErr == nil {
			if destroyErr := h.sessions.Destroy(r.Context(), id); destroyErr != nil {
				h.logger.Error("failed to destroy session", "error", destroyErr)
				writeError(w, http.StatusInternalServerError, "Failed to log out")
				return
			}
			h.logger.Info("logout successful")
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	writeMessage(w, http.StatusOK, "Logout successful")
}

// sessionCookie builds the session cookie. Secure is left off here;
// TLS termination is a deployment concern.
func (h *UserHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
