package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/craftgate/internal/cli/connection"
	"github.com/yndnr/craftgate/internal/cli/repl"
)

// ConsoleCommand returns the console command. With arguments it runs one
// line; without, it starts an interactive session.
func ConsoleCommand() *cli.Command {
	return &cli.Command{
		Name:      "console",
		Usage:     "Server console over the local socket, or the gateway with --remote",
		ArgsUsage: "[LINE...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "Send lines through the gateway instead of the local socket",
			},
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file for interactive sessions",
				Value: repl.DefaultHistoryFile(),
			},
		},
		Action: consoleAction,
	}
}

func consoleAction(c *cli.Context) error {
	exec, closeFn, err := consoleExecutor(c)
	if err != nil {
		return err
	}
	defer closeFn()

	if c.NArg() > 0 {
		reply, err := exec(strings.Join(c.Args().Slice(), " "))
		if err != nil {
			return err
		}
		if reply != "" {
			fmt.Fprintln(out(c), reply)
		}
		return nil
	}

	var commands []string
	if !c.Bool("remote") {
		commands = helpCommands(exec)
	}

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	return repl.New(repl.Config{
		Input:       in,
		Output:      out(c),
		Exec:        exec,
		Commands:    commands,
		HistoryFile: c.String("history"),
	}).Run()
}

func consoleExecutor(c *cli.Context) (repl.Executor, func(), error) {
	if c.Bool("remote") {
		client, _, err := EnsureConnected(c)
		if err != nil {
			return nil, nil, err
		}
		exec := func(line string) (string, error) {
			ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
			defer cancel()
			return runRemote(ctx, client, line)
		}
		return exec, func() {}, nil
	}

	s, err := ResolveSettings(c)
	if err != nil {
		return nil, nil, err
	}
	sock := connection.NewSocketClient(s.Socket)
	if err := sock.Connect(); err != nil {
		return nil, nil, fmt.Errorf("console socket %s: %w", s.Socket, err)
	}
	return sock.Execute, func() { sock.Close() }, nil
}

// helpCommands asks the console for its command list.
func helpCommands(exec repl.Executor) []string {
	reply, err := exec("help")
	if err != nil {
		return nil
	}
	list := strings.TrimPrefix(reply, "commands: ")
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
