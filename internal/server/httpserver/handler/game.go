package handler

import (
	"errors"
	"net/http"

	"github.com/yndnr/craftgate/internal/core/domain"
)

// handlePlayers handles GET /api/players.
func (h *Handler) handlePlayers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.game.ListPlayers())
}

// handleServerInfo handles GET /api/server/info.
func (h *Handler) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.game.ServerInfo())
}

// handleBroadcast handles POST /api/broadcast.
func (h *Handler) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	h.decodeBody(r, &req)

	if err := h.game.Broadcast(r.Context(), deref(req.Message)); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "Broadcast sent successfully"})
}

// handlePlayerMessage handles POST /api/player/message.
func (h *Handler) handlePlayerMessage(w http.ResponseWriter, r *http.Request) {
	var req PlayerMessageRequest
	h.decodeBody(r, &req)

	if err := h.game.MessagePlayer(r.Context(), req.Player, req.Message); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "Message sent successfully"})
}

// handleKick handles POST /api/player/kick.
func (h *Handler) handleKick(w http.ResponseWriter, r *http.Request) {
	var req KickRequest
	h.decodeBody(r, &req)

	if err := h.game.KickPlayer(r.Context(), deref(req.Player), req.Reason); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "Player kicked successfully"})
}

// handleGameMode handles POST /api/player/gamemode.
func (h *Handler) handleGameMode(w http.ResponseWriter, r *http.Request) {
	var req GameModeRequest
	h.decodeBody(r, &req)

	if err := h.game.SetGameMode(r.Context(), req.Player, req.GameMode); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "Gamemode changed successfully"})
}

// handleCommand handles POST /api/server/command.
//
// A command the host rejects answers 500 with success=false rather than
// the generic error body.
func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	h.decodeBody(r, &req)

	out, err := h.game.RunCommand(r.Context(), deref(req.Command))
	if errors.Is(err, domain.ErrCommandFailed) {
		h.logger.Info("console command failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ActionResponse{Success: false, Message: "Command failed"})
		return
	}
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "Command executed successfully", Output: out})
}
