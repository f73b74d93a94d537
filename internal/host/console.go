package host

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yndnr/craftgate/internal/core/domain"
)

// consoleCommand handles one console command. args excludes the command name.
type consoleCommand struct {
	usage string
	run   func(s *Server, args []string) (string, error)
}

var consoleCommands = map[string]consoleCommand{
	"say": {
		usage: "say <message>",
		run: func(s *Server, args []string) (string, error) {
			if len(args) == 0 {
				return "", errUsage
			}
			n := s.Broadcast("[Server] " + strings.Join(args, " "))
			return fmt.Sprintf("Message sent to %d players", n), nil
		},
	},
	"tell": {
		usage: "tell <player> <message>",
		run: func(s *Server, args []string) (string, error) {
			if len(args) < 2 {
				return "", errUsage
			}
			if err := s.MessagePlayer(args[0], strings.Join(args[1:], " ")); err != nil {
				return "", err
			}
			return "Message sent to " + args[0], nil
		},
	},
	"kick": {
		usage: "kick <player> [reason]",
		run: func(s *Server, args []string) (string, error) {
			if len(args) == 0 {
				return "", errUsage
			}
			reason := domain.DefaultKickReason
			if len(args) > 1 {
				reason = strings.Join(args[1:], " ")
			}
			if err := s.KickPlayer(args[0], reason); err != nil {
				return "", err
			}
			return "Kicked " + args[0] + ": " + reason, nil
		},
	},
	"gamemode": {
		usage: "gamemode <mode> <player>",
		run: func(s *Server, args []string) (string, error) {
			if len(args) != 2 {
				return "", errUsage
			}
			if !s.HasPlayer(args[1]) {
				return "", domain.ErrPlayerNotFound.WithDetails("player: " + args[1])
			}
			mode, err := domain.ParseGameMode(args[0])
			if err != nil {
				return "", err
			}
			if err := s.SetGameMode(args[1], mode); err != nil {
				return "", err
			}
			return fmt.Sprintf("Set %s's game mode to %s", args[1], mode), nil
		},
	},
	"time": {
		usage: "time set <day|noon|night|midnight|ticks> [world]",
		run: func(s *Server, args []string) (string, error) {
			if len(args) < 2 || len(args) > 3 || args[0] != "set" {
				return "", errUsage
			}
			t, err := parseTimeOfDay(args[1])
			if err != nil {
				return "", err
			}
			worldName := optionalArg(args, 2)
			if err := s.SetTime(worldName, t); err != nil {
				return "", err
			}
			if worldName != "" {
				return fmt.Sprintf("Set the time in %s to %d", worldName, t), nil
			}
			return fmt.Sprintf("Set the time to %d", t), nil
		},
	},
	"weather": {
		usage: "weather <clear|rain|thunder> [world]",
		run: func(s *Server, args []string) (string, error) {
			if len(args) < 1 || len(args) > 2 {
				return "", errUsage
			}
			var storm bool
			switch args[0] {
			case "clear":
			case "rain", "thunder":
				storm = true
			default:
				return "", errUsage
			}
			worldName := optionalArg(args, 1)
			if err := s.SetWeather(worldName, storm); err != nil {
				return "", err
			}
			if worldName != "" {
				return "Set the weather in " + worldName + " to " + args[0], nil
			}
			return "Set the weather to " + args[0], nil
		},
	},
	"list": {
		usage: "list",
		run: func(s *Server, _ []string) (string, error) {
			players := s.sortedPlayers()
			names := make([]string, 0, len(players))
			for _, p := range players {
				names = append(names, p.name)
			}
			return fmt.Sprintf("There are %d of a max of %d players online: %s",
				len(names), s.cfg.MaxPlayers, strings.Join(names, ", ")), nil
		},
	},
	"join": {
		usage: "join <player>",
		run: func(s *Server, args []string) (string, error) {
			if len(args) != 1 {
				return "", errUsage
			}
			p, err := s.Join(args[0])
			if err != nil {
				return "", err
			}
			return p.Name + " joined the game", nil
		},
	},
	"leave": {
		usage: "leave <player>",
		run: func(s *Server, args []string) (string, error) {
			if len(args) != 1 {
				return "", errUsage
			}
			if err := s.Leave(args[0]); err != nil {
				return "", err
			}
			return args[0] + " left the game", nil
		},
	},
	"profiles": {
		usage: "profiles",
		run: func(s *Server, _ []string) (string, error) {
			store, err := s.profileAdmin()
			if err != nil {
				return "", err
			}
			profiles, err := store.ListProfiles(context.Background())
			if err != nil {
				return "", err
			}
			sort.Slice(profiles, func(i, j int) bool {
				return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
			})
			entries := make([]string, 0, len(profiles))
			for _, p := range profiles {
				entries = append(entries, fmt.Sprintf("%s (%s, level %d)", p.Name, p.GameMode, p.Level))
			}
			return fmt.Sprintf("%d saved profiles: %s", len(entries), strings.Join(entries, ", ")), nil
		},
	},
	"forget": {
		usage: "forget <player>",
		run: func(s *Server, args []string) (string, error) {
			if len(args) != 1 {
				return "", errUsage
			}
			if s.HasPlayer(args[0]) {
				return "", domain.ErrBadRequest.WithDetails("player is online: " + args[0])
			}
			store, err := s.profileAdmin()
			if err != nil {
				return "", err
			}
			if err := store.DeleteProfile(context.Background(), OfflineUUID(args[0])); err != nil {
				return "", err
			}
			return "Forgot the saved profile of " + args[0], nil
		},
	},
}

// profileAdmin is implemented by profile stores that can enumerate and
// delete profiles.
type profileAdmin interface {
	ListProfiles(ctx context.Context) ([]*domain.PlayerProfile, error)
	DeleteProfile(ctx context.Context, uuid string) error
}

func (s *Server) profileAdmin() (profileAdmin, error) {
	if store, ok := s.cfg.Profiles.(profileAdmin); ok {
		return store, nil
	}
	return nil, domain.ErrBadRequest.WithDetails("profiles are not persisted")
}

var errUsage = domain.ErrBadRequest.WithMessage("Invalid usage")

var namedTimes = map[string]int64{
	"day":      1000,
	"noon":     6000,
	"night":    13000,
	"midnight": 18000,
}

func parseTimeOfDay(s string) (int64, error) {
	if t, ok := namedTimes[s]; ok {
		return t, nil
	}
	t, err := strconv.ParseInt(s, 10, 64)
	if err != nil || t < 0 {
		return 0, errUsage
	}
	return t, nil
}

// DispatchCommand runs a console command line and returns its output.
//
// Every failure, including an unknown command, bad usage or an unknown
// player, is reported as domain.ErrCommandFailed with the specific error
// as its cause. A leading "/" is ignored. Logic goroutine only.
func (s *Server) DispatchCommand(line string) (string, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "/"))
	if len(fields) == 0 {
		return "", domain.ErrCommandFailed.WithDetails("empty command")
	}

	name := strings.ToLower(fields[0])
	cmd, ok := consoleCommands[name]
	if !ok {
		return "", domain.ErrCommandFailed.
			WithDetails("unknown command: " + name).
			WithCause(domain.ErrUnknownCommand)
	}

	out, err := cmd.run(s, fields[1:])
	if err != nil {
		details := name
		if err == errUsage {
			details = "usage: " + cmd.usage
		}
		s.logger.Debug("console command failed", "command", name, "error", err)
		return "", domain.ErrCommandFailed.WithDetails(details).WithCause(err)
	}

	s.logger.Info("console command", "command", name, "output", out)
	return out, nil
}

// CommandNames returns the available console commands, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(consoleCommands))
	for name := range consoleCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
