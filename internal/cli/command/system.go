package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/craftgate/internal/cli/connection"
	"github.com/yndnr/craftgate/internal/cli/output"
	"github.com/yndnr/craftgate/internal/infra/buildinfo"
	"github.com/yndnr/craftgate/internal/server/httpserver/handler"
)

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check gateway health",
		Action: healthAction,
	}
}

func healthAction(c *cli.Context) error {
	health, s, err := fetchHealth(c)
	if err != nil {
		return err
	}
	if s.Output != output.FormatTable {
		return render(c, s, health)
	}
	fmt.Fprintf(out(c), "%s: %s (version %s)\n", s.Server, health.Status, health.Version)
	return nil
}

// versionInfo is the structured form of the version command.
type versionInfo struct {
	Client buildinfo.Info `json:"client"`
	Server string         `json:"server,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show client and server versions",
		Action: versionAction,
	}
}

func versionAction(c *cli.Context) error {
	s, err := ResolveSettings(c)
	if err != nil {
		return err
	}
	info := versionInfo{Client: buildinfo.Get()}
	if health, _, err := fetchHealth(c); err != nil {
		info.Error = err.Error()
	} else {
		info.Server = health.Version
	}

	if s.Output != output.FormatTable {
		return render(c, s, info)
	}
	w := out(c)
	fmt.Fprintf(w, "Client: %s (%s)\n", buildinfo.String(), info.Client.GoVersion)
	if info.Error != "" {
		fmt.Fprintf(w, "Server: unavailable (%s)\n", info.Error)
		return nil
	}
	fmt.Fprintf(w, "Server: %s\n", info.Server)
	return nil
}

func fetchHealth(c *cli.Context) (*handler.HealthResponse, *Settings, error) {
	client, s, err := publicClient(c)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	var health handler.HealthResponse
	if err := connection.ParseResponse(resp, &health); err != nil {
		return nil, nil, err
	}
	return &health, s, nil
}
