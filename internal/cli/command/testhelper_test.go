package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/craftgate/internal/core/domain"
	"github.com/yndnr/craftgate/internal/server/httpserver/handler"
)

const testToken = "test-token"

// mockGateway is an httptest server with per-path handlers.
type mockGateway struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	bodies   map[string]map[string]any
}

func newMockGateway(t *testing.T) *mockGateway {
	t.Helper()
	m := &mockGateway{
		handlers: make(map[string]http.HandlerFunc),
		bodies:   make(map[string]map[string]any),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		if r.Method == http.MethodPost {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			m.mu.Lock()
			m.bodies[key] = body
			m.mu.Unlock()
		}

		m.mu.Lock()
		h, ok := m.handlers[key]
		m.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockGateway) handle(pattern string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[pattern] = h
}

// handleAuthed wraps h with a bearer token check like the gateway's.
func (m *mockGateway) handleAuthed(pattern string, h http.HandlerFunc) {
	m.handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			jsonResponse(w, http.StatusUnauthorized, handler.ErrorResponse{Error: "Unauthorized", Code: "CG-AUTH-4010"})
			return
		}
		h(w, r)
	})
}

func (m *mockGateway) body(pattern string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bodies[pattern]
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func actionOK(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, handler.ActionResponse{Success: true, Message: message})
	}
}

func samplePlayers() []domain.Player {
	return []domain.Player{
		{Name: "Steve", UUID: "8667ba71-b85a-4004-af54-457a9734eed7", GameMode: domain.GameModeSurvival, Health: 20, Level: 30},
		{Name: "Alex", UUID: "ec561538-f3fd-461d-aff5-086b22154bce", GameMode: domain.GameModeCreative, Health: 18.5, Level: 12},
	}
}

// runCLI runs the real application with args and returns stdout.
func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader("")

	full := append([]string{"craftgate-cli", "--config", configPath}, args...)
	err := app.Run(full)
	return stdout.String(), err
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cli.yaml")
}
