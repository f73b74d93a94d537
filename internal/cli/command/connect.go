package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/craftgate/internal/cli/connection"
	"github.com/yndnr/craftgate/internal/server/httpserver/handler"
)

const requestTimeout = 30 * time.Second

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Aliases:   []string{"connect"},
		Usage:     "Log in to a gateway and save the session",
		ArgsUsage: "[SERVER]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Connection name to save under",
				Value:   "default",
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Admin username",
				Value:   "admin",
				EnvVars: []string{"CRAFTGATE_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Admin password",
				EnvVars: []string{"CRAFTGATE_PASSWORD"},
			},
		},
		Action: loginAction,
	}
}

func loginAction(c *cli.Context) error {
	mgr := GetConnectionManager(c)
	if mgr == nil {
		return errors.New("connection manager not initialized")
	}

	s, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	server := s.Server
	if arg := c.Args().First(); arg != "" {
		server = arg
	}
	if c.String("password") == "" {
		return errors.New("password required (--password or CRAFTGATE_PASSWORD)")
	}

	ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
	defer cancel()

	client, err := newClient(s, server, "")
	if err != nil {
		return err
	}
	resp, err := client.Post(ctx, "/api/auth/login", handler.LoginRequest{
		Username: str(c.String("username")),
		Password: str(c.String("password")),
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result handler.LoginResponse
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	conn := &connection.Connection{Name: c.String("name"), Server: client.BaseURL(), Token: result.Token}
	if err := mgr.Connect(conn); err != nil {
		return err
	}

	fmt.Fprintf(out(c), "Logged in to %s as %s\n", conn.Server, c.String("username"))
	return nil
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Aliases: []string{"disconnect"},
		Usage:   "Forget the current session token",
		Action: func(c *cli.Context) error {
			mgr := GetConnectionManager(c)
			if mgr == nil {
				return errors.New("connection manager not initialized")
			}
			if !mgr.IsConnected() {
				fmt.Fprintln(out(c), "Not logged in")
				return nil
			}
			if err := mgr.Disconnect(); err != nil {
				return err
			}
			fmt.Fprintln(out(c), "Logged out")
			return nil
		},
	}
}

// UseCommand returns the use command for switching connections.
func UseCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Switch to a saved connection",
		ArgsUsage: "CONNECTION_NAME",
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return errors.New("connection name required")
			}
			mgr := GetConnectionManager(c)
			if mgr == nil {
				return errors.New("connection manager not initialized")
			}
			conn, err := mgr.Use(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(c), "Using %s (%s)\n", name, conn.Server)
			return nil
		},
	}
}

// ConnectionsCommand lists saved connections.
func ConnectionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "connections",
		Usage: "List saved connections",
		Action: func(c *cli.Context) error {
			mgr := GetConnectionManager(c)
			if mgr == nil {
				return errors.New("connection manager not initialized")
			}
			s, err := ResolveSettings(c)
			if err != nil {
				return err
			}

			cfg := mgr.Config()
			list := make([]savedConnection, 0, len(cfg.Connections))
			for _, name := range mgr.Names() {
				cc := cfg.Connections[name]
				list = append(list, savedConnection{
					Current:  name == cfg.CurrentConnection,
					Name:     name,
					Server:   cc.Server,
					LoggedIn: cc.Token != "",
				})
			}
			return render(c, s, list)
		},
	}
}

// savedConnection is the listing view of a saved connection; tokens are
// never printed.
type savedConnection struct {
	Current  bool   `json:"current"`
	Name     string `json:"name"`
	Server   string `json:"server"`
	LoggedIn bool   `json:"logged_in"`
}

func str(s string) *string {
	return &s
}
