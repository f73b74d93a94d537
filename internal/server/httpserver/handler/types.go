package handler

// Request fields are pointers so an absent field can be told apart from
// an empty one.

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// LoginResponse is the response body for POST /api/auth/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// BroadcastRequest is the request body for POST /api/broadcast.
type BroadcastRequest struct {
	Message *string `json:"message"`
}

// PlayerMessageRequest is the request body for POST /api/player/message.
type PlayerMessageRequest struct {
	Player  *string `json:"player"`
	Message *string `json:"message"`
}

// KickRequest is the request body for POST /api/player/kick.
type KickRequest struct {
	Player *string `json:"player"`
	Reason *string `json:"reason"`
}

// GameModeRequest is the request body for POST /api/player/gamemode.
type GameModeRequest struct {
	Player   *string `json:"player"`
	GameMode *string `json:"gamemode"`
}

// CommandRequest is the request body for POST /api/server/command.
type CommandRequest struct {
	Command *string `json:"command"`
}

// ActionResponse is the response body of every mutating game endpoint.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Output  string `json:"output,omitempty"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
