package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/craftgate/internal/cli/connection"
	"github.com/yndnr/craftgate/internal/cli/output"
	"github.com/yndnr/craftgate/internal/core/domain"
	"github.com/yndnr/craftgate/internal/server/httpserver/handler"
)

// PlayersCommand returns the players command.
func PlayersCommand() *cli.Command {
	return &cli.Command{
		Name:    "players",
		Aliases: []string{"ls"},
		Usage:   "List online players",
		Action: func(c *cli.Context) error {
			var players []domain.Player
			s, err := getJSON(c, "/api/players", &players)
			if err != nil {
				return err
			}
			if len(players) == 0 && s.Output == output.FormatTable {
				fmt.Fprintln(out(c), "No players online")
				return nil
			}
			return render(c, s, players)
		},
	}
}

// ServerCommand returns the server subcommand group.
func ServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Server information",
		Subcommands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "Show server information and worlds",
				Action: serverInfo,
			},
		},
	}
}

func serverInfo(c *cli.Context) error {
	var info domain.ServerInfo
	s, err := getJSON(c, "/api/server/info", &info)
	if err != nil {
		return err
	}
	if s.Output != output.FormatTable {
		return render(c, s, info)
	}

	w := out(c)
	summary := &output.Table{}
	summary.AddRow("Name:", info.ServerName)
	summary.AddRow("Version:", info.Version)
	summary.AddRow("API version:", info.APIVersion)
	summary.AddRow("Online mode:", fmt.Sprint(info.OnlineMode))
	summary.AddRow("Players:", fmt.Sprintf("%d/%d", info.CurrentPlayers, info.MaxPlayers))
	if err := summary.Render(w); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return render(c, s, info.Worlds)
}

// BroadcastCommand returns the broadcast command.
func BroadcastCommand() *cli.Command {
	return &cli.Command{
		Name:      "broadcast",
		Aliases:   []string{"say"},
		Usage:     "Send a message to every online player",
		ArgsUsage: "MESSAGE...",
		Action: func(c *cli.Context) error {
			msg := strings.Join(c.Args().Slice(), " ")
			if msg == "" {
				return errors.New("message required")
			}
			return postAction(c, "/api/broadcast", handler.BroadcastRequest{Message: str(msg)})
		},
	}
}

// MessageCommand returns the message command.
func MessageCommand() *cli.Command {
	return &cli.Command{
		Name:      "message",
		Aliases:   []string{"msg", "tell"},
		Usage:     "Send a private message to a player",
		ArgsUsage: "PLAYER MESSAGE...",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return errors.New("player and message required")
			}
			return postAction(c, "/api/player/message", handler.PlayerMessageRequest{
				Player:  str(c.Args().First()),
				Message: str(strings.Join(c.Args().Tail(), " ")),
			})
		},
	}
}

// KickCommand returns the kick command.
func KickCommand() *cli.Command {
	return &cli.Command{
		Name:      "kick",
		Usage:     "Disconnect a player",
		ArgsUsage: "PLAYER",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "reason",
				Aliases: []string{"r"},
				Usage:   "Reason shown to the player",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errors.New("player required")
			}
			req := handler.KickRequest{Player: str(c.Args().First())}
			if c.IsSet("reason") {
				req.Reason = str(c.String("reason"))
			}
			return postAction(c, "/api/player/kick", req)
		},
	}
}

// GameModeCommand returns the gamemode command.
func GameModeCommand() *cli.Command {
	return &cli.Command{
		Name:      "gamemode",
		Aliases:   []string{"gm"},
		Usage:     "Change a player's game mode (survival, creative, adventure, spectator)",
		ArgsUsage: "PLAYER MODE",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return errors.New("player and mode required")
			}
			return postAction(c, "/api/player/gamemode", handler.GameModeRequest{
				Player:   str(c.Args().Get(0)),
				GameMode: str(c.Args().Get(1)),
			})
		},
	}
}

// ExecCommand returns the exec command.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Aliases:   []string{"cmd"},
		Usage:     "Run a console command on the server",
		ArgsUsage: "COMMAND...",
		Action: func(c *cli.Context) error {
			line := strings.Join(c.Args().Slice(), " ")
			if line == "" {
				return errors.New("command required")
			}
			return postAction(c, "/api/server/command", handler.CommandRequest{Command: str(line)})
		},
	}
}

// runRemote runs a console line through the gateway and returns its
// output.
func runRemote(ctx context.Context, client *connection.HTTPClient, line string) (string, error) {
	resp, err := client.Post(ctx, "/api/server/command", handler.CommandRequest{Command: str(line)})
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	var result handler.ActionResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return "", err
	}
	return result.Output, nil
}

func getJSON(c *cli.Context, path string, target any) (*Settings, error) {
	client, s, err := EnsureConnected(c)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
	defer cancel()

	resp, err := client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return s, connection.ParseResponse(resp, target)
}

func postAction(c *cli.Context, path string, body any) error {
	client, s, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
	defer cancel()

	resp, err := client.Post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result handler.ActionResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if s.Output != output.FormatTable {
		return render(c, s, result)
	}
	w := out(c)
	fmt.Fprintln(w, result.Message)
	if result.Output != "" {
		fmt.Fprintln(w, result.Output)
	}
	return nil
}
