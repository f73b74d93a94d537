package handler

import (
	"errors"
	"net/http"

	"github.com/yndnr/craftgate/internal/core/domain"
	"github.com/yndnr/craftgate/internal/telemetry/logger"
)

// handleLogin handles POST /api/auth/login.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	h.decodeBody(r, &req)

	if req.Username == nil || req.Password == nil {
		h.observeLogin("rejected")
		h.handleServiceError(w, r, domain.ErrMissingField.WithMessage("Username and password are required"))
		return
	}

	res, err := h.auth.Login(*req.Username, *req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.observeLogin("failure")
		}
		logger.L(r.Context()).Debug("login rejected", "error", err)
		h.handleServiceError(w, r, err)
		return
	}

	h.observeLogin("success")
	h.writeJSON(w, http.StatusOK, LoginResponse{Token: res.Token})
}

func (h *Handler) observeLogin(result string) {
	if h.metrics != nil {
		h.metrics.Logins.WithLabelValues(result).Inc()
	}
}
