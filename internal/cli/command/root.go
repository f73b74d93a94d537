package command

import (
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/craftgate/internal/cli/config"
	"github.com/yndnr/craftgate/internal/cli/connection"
	"github.com/yndnr/craftgate/internal/cli/output"
	"github.com/yndnr/craftgate/internal/infra/buildinfo"
	"github.com/yndnr/craftgate/internal/infra/tlsroots"
)

const metaConnMgr = "connMgr"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "craftgate-cli",
		Usage:   "Remote control for a craftgate game server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			UseCommand(),
			ConnectionsCommand(),
			PlayersCommand(),
			ServerCommand(),
			BroadcastCommand(),
			MessageCommand(),
			KickCommand(),
			GameModeCommand(),
			ExecCommand(),
			ConsoleCommand(),
			HealthCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]any{}
			}
			c.App.Metadata[metaConnMgr] = connection.NewManager(cfg, c.String("config"))
			return nil
		},
	}
}

// globalFlags returns the global CLI flags. The server, token, output and
// socket flags override CRAFTGATE_* variables, which override the config
// file.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Gateway address, e.g. localhost:4567 (env CRAFTGATE_SERVER)",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Session token (env CRAFTGATE_TOKEN)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml (env CRAFTGATE_OUTPUT)",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM file of extra CAs to trust for https gateways",
			EnvVars: []string{"CRAFTGATE_CA_FILE"},
		},
		&cli.StringFlag{
			Name:  "socket",
			Usage: "Server console socket (env CRAFTGATE_CONSOLE_SOCKET)",
		},
	}
}

// Settings is the effective configuration for one invocation.
type Settings struct {
	Server string
	Token  string
	Output output.Format
	Wide   bool
	Socket string
	CAFile string
}

// ResolveSettings merges the saved connection, the environment and the
// global flags.
func ResolveSettings(c *cli.Context) (*Settings, error) {
	base := config.Default()
	if mgr := GetConnectionManager(c); mgr != nil {
		base = mgr.Config()
	}

	flags := map[string]string{}
	for _, name := range []string{"server", "token", "output", "socket"} {
		if c.IsSet(name) {
			flags[name] = c.String(name)
		}
	}
	merged := config.Merge(base, environ(), flags)

	format, err := output.ParseFormat(merged.DefaultOutput)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Server: merged.DefaultServer,
		Output: format,
		Wide:   c.Bool("wide"),
		Socket: merged.ConsoleSocket,
		CAFile: c.String("ca-file"),
	}
	if conn, ok := merged.Current(); ok {
		s.Server, s.Token = conn.Server, conn.Token
	}
	return s, nil
}

func environ() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "CRAFTGATE_") {
			env[k] = v
		}
	}
	return env
}

// GetConnectionManager retrieves the connection manager from context.
func GetConnectionManager(c *cli.Context) *connection.Manager {
	if mgr, ok := c.App.Metadata[metaConnMgr].(*connection.Manager); ok {
		return mgr
	}
	return nil
}

// EnsureConnected returns a client carrying the session token, or
// connection.ErrNotConnected when there is none.
func EnsureConnected(c *cli.Context) (*connection.HTTPClient, *Settings, error) {
	s, err := ResolveSettings(c)
	if err != nil {
		return nil, nil, err
	}
	if s.Token == "" {
		return nil, nil, connection.ErrNotConnected
	}
	client, err := newClient(s, s.Server, s.Token)
	if err != nil {
		return nil, nil, err
	}
	return client, s, nil
}

// publicClient returns a client for endpoints that need no token.
func publicClient(c *cli.Context) (*connection.HTTPClient, *Settings, error) {
	s, err := ResolveSettings(c)
	if err != nil {
		return nil, nil, err
	}
	client, err := newClient(s, s.Server, s.Token)
	if err != nil {
		return nil, nil, err
	}
	return client, s, nil
}

func newClient(s *Settings, server, token string) (*connection.HTTPClient, error) {
	if s.CAFile == "" {
		return connection.NewHTTPClient(server, token), nil
	}
	tlsCfg, err := tlsroots.ClientTLSConfigFromFile(s.CAFile)
	if err != nil {
		return nil, err
	}
	return connection.NewHTTPClient(server, token, connection.WithTLSConfig(tlsCfg)), nil
}

// render writes data in the selected format.
func render(c *cli.Context, s *Settings, data any) error {
	return output.NewFormatter(s.Output, s.Wide).Format(out(c), data)
}

func out(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}
