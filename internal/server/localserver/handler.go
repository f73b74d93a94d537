package localserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yndnr/craftgate/internal/telemetry/metric"
)

// CommandRunner runs a console command on the host.
type CommandRunner interface {
	RunCommand(ctx context.Context, command string) (string, error)
}

// HandlerConfig holds the dependencies of a Handler.
type HandlerConfig struct {
	Runner CommandRunner

	// Stats reports host state for the status command. Optional.
	Stats func() metric.HostStats

	// Commands are the host console commands listed by help.
	Commands []string

	Logger *slog.Logger
}

// Handler answers console lines.
type Handler struct {
	runner   CommandRunner
	stats    func() metric.HostStats
	commands []string
	logger   *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Handler{
		runner:   cfg.Runner,
		stats:    cfg.Stats,
		commands: cfg.Commands,
		logger:   l,
	}
}

// Execute runs one console line and returns the reply line, without the
// trailing newline.
func (h *Handler) Execute(ctx context.Context, line string) string {
	line = strings.TrimSpace(line)
	name, _, _ := strings.Cut(line, " ")

	switch name {
	case "":
		return "ERR empty command"
	case "help":
		return h.handleHelp()
	case "status":
		return h.handleStatus()
	}

	out, err := h.runner.RunCommand(ctx, line)
	if err != nil {
		h.logger.Info("console command failed", "command", name, "error", err)
		return "ERR " + oneLine(err.Error())
	}
	h.logger.Info("console command executed", "command", name)
	return "OK " + oneLine(out)
}

func (h *Handler) handleHelp() string {
	names := append([]string{"help", "status"}, h.commands...)
	return "OK commands: " + strings.Join(names, ", ")
}

func (h *Handler) handleStatus() string {
	if h.stats == nil {
		return "ERR status unavailable"
	}
	s := h.stats()
	return fmt.Sprintf("OK running=%t players=%d/%d queue=%d ticks=%d",
		s.Running, s.OnlinePlayers, s.MaxPlayers, s.QueueDepth, s.Ticks)
}

// oneLine keeps replies on a single protocol line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
