package domain

import (
	"strings"
	"time"
)

// GameMode is a player's game mode.
type GameMode string

// Supported game modes.
const (
	GameModeSurvival  GameMode = "SURVIVAL"
	GameModeCreative  GameMode = "CREATIVE"
	GameModeAdventure GameMode = "ADVENTURE"
	GameModeSpectator GameMode = "SPECTATOR"
)

// ParseGameMode parses a game mode name case-insensitively.
func ParseGameMode(s string) (GameMode, error) {
	switch mode := GameMode(strings.ToUpper(strings.TrimSpace(s))); mode {
	case GameModeSurvival, GameModeCreative, GameModeAdventure, GameModeSpectator:
		return mode, nil
	default:
		return "", ErrInvalidGameMode.WithDetails("unknown gamemode " + s)
	}
}

// String returns the canonical upper-case name.
func (m GameMode) String() string {
	return string(m)
}

// Weather is the weather state of a world.
type Weather string

// Weather states as reported by the server info endpoint.
const (
	WeatherClear  Weather = "clear"
	WeatherStormy Weather = "stormy"
)

// DefaultKickReason is used when a kick request carries no reason.
const DefaultKickReason = "Kicked by admin"

// Player is an online player as seen from outside the host.
type Player struct {
	Name     string   `json:"name"`
	UUID     string   `json:"uuid"`
	GameMode GameMode `json:"gamemode"`
	Health   float64  `json:"health"`
	Level    int      `json:"level"`
}

// World is a loaded world as seen from outside the host.
type World struct {
	Name        string  `json:"name"`
	PlayerCount int     `json:"player_count"`
	Time        int64   `json:"time"`
	Weather     Weather `json:"weather"`
}

// ServerInfo describes the running host and its worlds.
type ServerInfo struct {
	Version        string  `json:"version"`
	APIVersion     string  `json:"bukkit_version"`
	ServerName     string  `json:"server_name"`
	OnlineMode     bool    `json:"online_mode"`
	MaxPlayers     int     `json:"max_players"`
	CurrentPlayers int     `json:"current_players"`
	Worlds         []World `json:"worlds"`
}

// PlayerProfile is the persisted part of a player.
type PlayerProfile struct {
	UUID     string    `json:"uuid"`
	Name     string    `json:"name"`
	GameMode GameMode  `json:"gamemode"`
	Level    int       `json:"level"`
	LastSeen time.Time `json:"last_seen"`
}
