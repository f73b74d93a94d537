package service

import (
	"context"
	"strings"

	"github.com/yndnr/craftgate/internal/core/domain"
)

// HostReader exposes read-only views of host state.
// Implementations must be safe to call from any goroutine.
type HostReader interface {
	Players() []domain.Player
	ServerInfo() domain.ServerInfo
}

// HostControl mutates host state. Its methods must only be called on the
// host's logic goroutine, i.e. from inside a dispatched operation.
type HostControl interface {
	HasPlayer(name string) bool
	Broadcast(message string) int
	MessagePlayer(name, message string) error
	KickPlayer(name, reason string) error
	SetGameMode(name string, mode domain.GameMode) error
	DispatchCommand(line string) (string, error)
}

// Dispatcher runs an operation on the host's logic goroutine and waits
// for its result.
type Dispatcher interface {
	Submit(ctx context.Context, name string, op func() (any, error)) (any, error)
}

// GameService serves player and server queries and performs host
// mutations through the Dispatcher.
type GameService struct {
	reader     HostReader
	control    HostControl
	dispatcher Dispatcher
}

// NewGameService creates a new GameService.
func NewGameService(reader HostReader, control HostControl, dispatcher Dispatcher) *GameService {
	return &GameService{
		reader:     reader,
		control:    control,
		dispatcher: dispatcher,
	}
}

// PlayerList is the result of ListPlayers.
type PlayerList struct {
	OnlinePlayers []domain.Player `json:"online_players"`
	MaxPlayers    int             `json:"max_players"`
}

// ListPlayers returns the online players and the player cap.
func (s *GameService) ListPlayers() PlayerList {
	players := s.reader.Players()
	if players == nil {
		players = []domain.Player{}
	}
	return PlayerList{
		OnlinePlayers: players,
		MaxPlayers:    s.reader.ServerInfo().MaxPlayers,
	}
}

// ServerInfo returns server and world metadata.
func (s *GameService) ServerInfo() domain.ServerInfo {
	info := s.reader.ServerInfo()
	if info.Worlds == nil {
		info.Worlds = []domain.World{}
	}
	return info
}

// Broadcast sends message to every online player.
func (s *GameService) Broadcast(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.ErrMissingField.WithMessage("Message is required")
	}
	_, err := s.dispatcher.Submit(ctx, "broadcast", func() (any, error) {
		return s.control.Broadcast(message), nil
	})
	return err
}

// MessagePlayer sends a private message to one player.
// An empty message is delivered as is; only absent fields are rejected.
func (s *GameService) MessagePlayer(ctx context.Context, player, message *string) error {
	if player == nil || message == nil {
		return domain.ErrMissingField.WithMessage("Player name and message are required")
	}
	_, err := s.dispatcher.Submit(ctx, "player.message", func() (any, error) {
		return nil, s.control.MessagePlayer(*player, *message)
	})
	return err
}

// KickPlayer disconnects a player. A nil reason uses DefaultKickReason.
func (s *GameService) KickPlayer(ctx context.Context, player string, reason *string) error {
	if strings.TrimSpace(player) == "" {
		return domain.ErrMissingField.WithMessage("Player name is required")
	}
	why := domain.DefaultKickReason
	if reason != nil {
		why = *reason
	}
	_, err := s.dispatcher.Submit(ctx, "player.kick", func() (any, error) {
		return nil, s.control.KickPlayer(player, why)
	})
	return err
}

// SetGameMode changes a player's game mode.
//
// The player is looked up before the mode is parsed, so an unknown player
// with an invalid mode reports ErrPlayerNotFound.
func (s *GameService) SetGameMode(ctx context.Context, player, gamemode *string) error {
	if player == nil || gamemode == nil {
		return domain.ErrMissingField.WithMessage("Player name and gamemode are required")
	}
	_, err := s.dispatcher.Submit(ctx, "player.gamemode", func() (any, error) {
		if !s.control.HasPlayer(*player) {
			return nil, domain.ErrPlayerNotFound.WithDetails("player: " + *player)
		}
		mode, err := domain.ParseGameMode(*gamemode)
		if err != nil {
			return nil, err
		}
		return nil, s.control.SetGameMode(*player, mode)
	})
	return err
}

// RunCommand executes a console command line on the host and returns its
// output. A command the host rejects yields ErrCommandFailed.
func (s *GameService) RunCommand(ctx context.Context, command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", domain.ErrMissingField.WithMessage("Command is required")
	}
	res, err := s.dispatcher.Submit(ctx, "server.command", func() (any, error) {
		return s.control.DispatchCommand(command)
	})
	if err != nil {
		return "", err
	}
	out, _ := res.(string)
	return out, nil
}
