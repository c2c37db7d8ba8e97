package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/haroai/haro/adapters/llm"
	"github.com/haroai/haro/adapters/tts"
	"github.com/haroai/haro/internal/auth"
	"github.com/haroai/haro/internal/orchestrator"
	"github.com/haroai/haro/internal/speech"
	"github.com/haroai/haro/usecase"
)

func newTestServer(t *testing.T, secret string) (*echo.Echo, *Server) {
	t.Helper()
	session := usecase.NewSession(usecase.SessionConfig{
		AIName:       "Haro",
		SystemPrompt: "You are Haro.",
		MaxExchanges: 10,
	}, &llm.MockResponder{ModelLabel: "mock"}, zap.NewNop())

	queue := speech.NewQueue(&tts.MockSynthesizer{}, zap.NewNop())
	t.Cleanup(queue.Shutdown)

	orch := orchestrator.New(orchestrator.Config{
		AIName:        "Haro",
		WakePhrases:   []string{"haro"},
		ShutdownGrace: time.Second,
	}, session, queue, nil, zap.NewNop())

	server := NewServer(session, queue, orch, auth.New(secret), zap.NewNop())
	e := echo.New()
	server.RegisterRoutes(e)
	return e, server
}

func TestHealthEndpoint(t *testing.T) {
	e, _ := newTestServer(t, "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["service"] != "haro" {
		t.Errorf("Unexpected service name: %q", body["service"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	e, _ := newTestServer(t, "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var status StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if status.State != string(orchestrator.StateStopped) {
		t.Errorf("Expected stopped state before Run, got %q", status.State)
	}
	if status.Session.AIName != "Haro" {
		t.Errorf("Unexpected session summary: %+v", status.Session)
	}
}

func TestConsoleTokenEndpoint(t *testing.T) {
	e, _ := newTestServer(t, "topsecret")

	body := strings.NewReader(`{"secret":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/console/token", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong secret, got %d", rec.Code)
	}

	body = strings.NewReader(`{"secret":"topsecret"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/console/token", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for correct secret, got %d: %s", rec.Code, rec.Body.String())
	}
	var token TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &token); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if token.Token == "" {
		t.Error("Expected a token in the response")
	}
}

func TestConsoleTokenDisabledWithoutSecret(t *testing.T) {
	e, _ := newTestServer(t, "")

	body := strings.NewReader(`{"secret":"anything"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/console/token", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when auth is disabled, got %d", rec.Code)
	}
}

func TestConsoleRequiresTokenWhenSecretSet(t *testing.T) {
	e, _ := newTestServer(t, "topsecret")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/console", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without bearer token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/ws/console", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for garbage token, got %d", rec.Code)
	}
}
