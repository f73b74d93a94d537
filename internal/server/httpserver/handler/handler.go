package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/craftgate/internal/core/domain"
	"github.com/yndnr/craftgate/internal/core/service"
	"github.com/yndnr/craftgate/internal/telemetry/logger"
	"github.com/yndnr/craftgate/internal/telemetry/metric"
)

// maxBodyBytes bounds request bodies. Every API body is a handful of
// short strings.
const maxBodyBytes = 64 << 10

// Config holds the dependencies of a Handler.
type Config struct {
	Auth    *service.AuthService
	Game    *service.GameService
	Version string
	Metrics *metric.Registry
	Logger  *slog.Logger
}

// Handler serves the craftgate API.
type Handler struct {
	auth    *service.AuthService
	game    *service.GameService
	version string
	metrics *metric.Registry
	logger  *slog.Logger

	// allowed lists the methods registered per path.
	allowed map[string][]string
}

// New creates a new Handler.
func New(cfg Config) *Handler {
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Handler{
		auth:    cfg.Auth,
		game:    cfg.Game,
		version: cfg.Version,
		metrics: cfg.Metrics,
		logger:  l,
		allowed: make(map[string][]string),
	}
}

// Register adds every API route to mux. protect wraps the routes that
// require a bearer token. Requests no route serves get a JSON 404, or a
// JSON 405 when only the method is wrong.
func (h *Handler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	guarded := func(fn http.HandlerFunc) http.Handler {
		return protect(fn)
	}

	// Public endpoints
	mux.HandleFunc("OPTIONS /", h.handlePreflight)
	mux.HandleFunc("/", h.handleUnrouted)
	h.Route(mux, http.MethodGet, "/health", http.HandlerFunc(h.handleHealth))
	h.Route(mux, http.MethodPost, "/api/auth/login", http.HandlerFunc(h.handleLogin))

	// Read endpoints
	h.Route(mux, http.MethodGet, "/api/players", guarded(h.handlePlayers))
	h.Route(mux, http.MethodGet, "/api/server/info", guarded(h.handleServerInfo))

	// Mutating endpoints
	h.Route(mux, http.MethodPost, "/api/broadcast", guarded(h.handleBroadcast))
	h.Route(mux, http.MethodPost, "/api/player/message", guarded(h.handlePlayerMessage))
	h.Route(mux, http.MethodPost, "/api/player/kick", guarded(h.handleKick))
	h.Route(mux, http.MethodPost, "/api/player/gamemode", guarded(h.handleGameMode))
	h.Route(mux, http.MethodPost, "/api/server/command", guarded(h.handleCommand))
}

// Route registers handler for method and path, and records the method so
// other methods on the path answer 405.
func (h *Handler) Route(mux *http.ServeMux, method, path string, handler http.Handler) {
	mux.Handle(method+" "+path, handler)
	h.allowed[path] = append(h.allowed[path], method)
}

// handleUnrouted answers every request that no registered route matches.
func (h *Handler) handleUnrouted(w http.ResponseWriter, r *http.Request) {
	err := domain.ErrNotFound
	if methods, ok := h.allowed[r.URL.Path]; ok {
		w.Header().Set("Allow", strings.Join(methods, ", ")+", "+http.MethodOptions)
		err = domain.ErrMethodNotAllowed
	}
	h.writeError(w, StatusForCode(err.Code), err.Code, err.Message)
}

// decodeBody decodes a JSON request body into v. A missing or malformed
// body leaves v untouched, so every field reads as absent.
func (h *Handler) decodeBody(r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		return
	}
	if err := json.Unmarshal(body, v); err != nil {
		logger.L(r.Context()).Debug("malformed request body", "path", r.URL.Path, "error", err)
	}
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	if code != "" {
		w.Header().Set("X-Error-Code", code)
	}
	h.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := StatusForCode(code)
		if status >= http.StatusInternalServerError {
			logger.L(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		}
		h.writeError(w, status, code, domain.GetErrorMessage(err))
		return
	}

	logger.L(r.Context()).Error("internal error", "path", r.URL.Path, "error", err)
	h.writeError(w, http.StatusInternalServerError, domain.ErrInternal.Code, "Internal server error")
}

// StatusForCode maps an error code to its HTTP status. The last four digits
// of the code carry the status family.
func StatusForCode(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"), strings.HasSuffix(code, "-4041"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4050"):
		return http.StatusMethodNotAllowed
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"), strings.HasSuffix(code, "-4002"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "CG-ARG-"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
