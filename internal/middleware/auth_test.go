package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/metrics"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/session"
)

const testSecret = "middleware-test-secret"

func newGate(t *testing.T, store session.Store, recorder metrics.Recorder) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gate := RequireSession(SessionAuthConfig{
		Logger:   logger,
		Sessions: store,
		Secret:   testSecret,
		Metrics:  recorder,
	})

	return gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			t.Error("identity should be injected behind the gate")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(identity.UserID))
	}))
}

func loginSession(t *testing.T, store session.Store) string {
	t.Helper()

	id, err := store.Create(context.Background(), &model.Identity{
		UserID:   "user-1",
		Username: "alice",
		Email:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return auth.EncodeSessionToken(testSecret, id)
}

func TestRequireSession_MissingCookie(t *testing.T) {
	store := session.NewMemory(time.Hour)
	recorder := metrics.NewInMemory()
	handler := newGate(t, store, recorder)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "Authentication required" {
		t.Errorf("unexpected error message: %q", body["error"])
	}

	if recorder.Snapshot().AuthRequired != 1 {
		t.Error("expected auth failure to be recorded")
	}
}

func TestRequireSession_ValidSession(t *testing.T) {
	store := session.NewMemory(time.Hour)
	handler := newGate(t, store, nil)

	token := loginSession(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("expected injected user ID, got %q", rec.Body.String())
	}
}

func TestRequireSession_ForgedSignature(t *testing.T) {
	store := session.NewMemory(time.Hour)
	handler := newGate(t, store, nil)

	id, err := store.Create(context.Background(), &model.Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Signature minted with a different secret must be rejected
	forged := auth.EncodeSessionToken("attacker-secret", id)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: forged})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireSession_DestroyedSession(t *testing.T) {
	store := session.NewMemory(time.Hour)
	handler := newGate(t, store, nil)

	token := loginSession(t, store)

	// Destroy the underlying session; the signed cookie alone must not pass
	id, err := auth.ParseSessionToken(testSecret, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if err := store.Destroy(context.Background(), id); err != nil {
		t.Fatalf("destroy session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 after destroy, got %d", rec.Code)
	}
}

func TestRequireSession_SameBodyForAllFailures(t *testing.T) {
	store := session.NewMemory(time.Hour)
	handler := newGate(t, store, nil)

	bodies := make(map[string]bool)

	// Missing cookie
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	bodies[rec.Body.String()] = true

	// Malformed token
	req = httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	bodies[rec.Body.String()] = true

	// Unknown session with a valid signature
	unknown := auth.EncodeSessionToken(testSecret, "deadbeefdeadbeefdeadbeefdeadbeef")
	req = httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: unknown})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	bodies[rec.Body.String()] = true

	if len(bodies) != 1 {
		t.Errorf("all auth failures should share one body, got %d distinct bodies", len(bodies))
	}
}
