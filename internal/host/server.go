package host

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/craftgate/internal/core/domain"
	"github.com/yndnr/craftgate/internal/telemetry/metric"
)

// Default configuration values.
const (
	DefaultTickInterval = 50 * time.Millisecond
	DefaultQueueSize    = 1024
	DefaultMaxPlayers   = 20
)

// ProfileStore persists player profiles.
type ProfileStore interface {
	LoadProfile(ctx context.Context, uuid string) (*domain.PlayerProfile, bool, error)
	SaveProfile(ctx context.Context, p *domain.PlayerProfile) error
}

// Config configures a Server.
type Config struct {
	Name         string
	Version      string
	APIVersion   string
	OnlineMode   bool
	MaxPlayers   int
	TickInterval time.Duration
	QueueSize    int
	Worlds       []string

	// SeedPlayers join when the server starts.
	SeedPlayers []string

	// Profiles is optional; without it nothing is persisted.
	Profiles ProfileStore

	Logger *slog.Logger

	// Now is the time source for profile timestamps (default: time.Now).
	Now func() time.Time
}

// Snapshot is an immutable view of host state.
type Snapshot struct {
	Players []domain.Player
	Info    domain.ServerInfo
	Ticks   uint64
}

// Server is a single-goroutine game server host.
type Server struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	tasks chan func()

	// mu orders Execute against Stop so that no task is enqueued after
	// the logic goroutine has drained the queue.
	mu      sync.RWMutex
	stopped bool
	running atomic.Bool

	stopCh  chan struct{}
	doneCh  chan struct{}
	started atomic.Bool

	snapshot atomic.Pointer[Snapshot]

	// Owned by the logic goroutine.
	players map[string]*player
	worlds  []*world
	ticks   uint64
}

// New creates a stopped server.
func New(cfg Config) (*Server, error) {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultMaxPlayers
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if len(cfg.Worlds) == 0 {
		cfg.Worlds = []string{"world"}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		now:     cfg.Now,
		tasks:   make(chan func(), cfg.QueueSize),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		players: make(map[string]*player),
	}
	seen := make(map[string]bool)
	for _, name := range cfg.Worlds {
		if name == "" || seen[name] {
			return nil, fmt.Errorf("host: invalid or duplicate world name %q", name)
		}
		seen[name] = true
		s.worlds = append(s.worlds, &world{name: name})
	}
	s.publish()
	return s, nil
}

// Start launches the logic goroutine and joins the seed players.
func (s *Server) Start() error {
	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		return domain.ErrHostStopped
	}
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("host: already started")
	}
	s.running.Store(true)
	go s.loop()

	for _, name := range s.cfg.SeedPlayers {
		name := name
		if err := s.Execute(func() {
			if _, err := s.Join(name); err != nil {
				s.logger.Warn("seed player could not join", "player", name, "error", err)
			}
		}); err != nil {
			return fmt.Errorf("host: seed player %s: %w", name, err)
		}
	}

	s.logger.Info("host started",
		"name", s.cfg.Name,
		"version", s.cfg.Version,
		"worlds", s.cfg.Worlds,
		"tick_interval", s.cfg.TickInterval)
	return nil
}

// Stop stops accepting tasks, runs the ones already queued, saves online
// players and waits for the logic goroutine to exit or ctx to end.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	alreadyStopped := s.stopped
	s.stopped = true
	s.mu.Unlock()

	if !s.started.Load() {
		return nil
	}
	if !alreadyStopped {
		close(s.stopCh)
	}

	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("host: stop: %w", ctx.Err())
	}
}

// Execute enqueues task for the logic goroutine. It never blocks: a full
// queue yields domain.ErrQueueFull and a stopped server
// domain.ErrHostStopped.
func (s *Server) Execute(task func()) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped || !s.started.Load() {
		return domain.ErrHostStopped
	}
	select {
	case s.tasks <- task:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

func (s *Server) loop() {
	defer close(s.doneCh)
	defer s.running.Store(false)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case task := <-s.tasks:
			s.runTask(task)
		case <-ticker.C:
			s.tick()
			s.publish()
		case <-s.stopCh:
			s.drain()
			s.saveAll()
			s.publish()
			s.logger.Info("host stopped", "ticks", s.ticks)
			return
		}
	}
}

// drain runs every task still queued. Execute no longer accepts tasks once
// stopCh is closed, so the queue cannot grow while draining.
func (s *Server) drain() {
	for {
		select {
		case task := <-s.tasks:
			s.runTask(task)
		default:
			return
		}
	}
}

func (s *Server) runTask(task func()) {
	defer s.publish()
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("host task panicked", "panic", p, "stack", string(debug.Stack()))
		}
	}()
	task()
}

// publish stores a fresh snapshot. Logic goroutine only.
func (s *Server) publish() {
	players := s.sortedPlayers()
	out := make([]domain.Player, 0, len(players))
	for _, p := range players {
		out = append(out, p.view())
	}

	worlds := make([]domain.World, 0, len(s.worlds))
	for _, w := range s.worlds {
		worlds = append(worlds, w.view(s.worldPopulation(w.name)))
	}

	s.snapshot.Store(&Snapshot{
		Players: out,
		Info: domain.ServerInfo{
			Version:        s.cfg.Version,
			APIVersion:     s.cfg.APIVersion,
			ServerName:     s.cfg.Name,
			OnlineMode:     s.cfg.OnlineMode,
			MaxPlayers:     s.cfg.MaxPlayers,
			CurrentPlayers: len(out),
			Worlds:         worlds,
		},
		Ticks: s.ticks,
	})
}

// Snapshot returns the latest published snapshot. Safe from any goroutine;
// the result must not be modified.
func (s *Server) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Players returns a copy of the online players.
func (s *Server) Players() []domain.Player {
	snap := s.snapshot.Load()
	return append([]domain.Player(nil), snap.Players...)
}

// ServerInfo returns a copy of the server metadata.
func (s *Server) ServerInfo() domain.ServerInfo {
	info := s.snapshot.Load().Info
	info.Worlds = append([]domain.World(nil), info.Worlds...)
	return info
}

// Running reports whether the logic goroutine is running.
func (s *Server) Running() bool {
	return s.running.Load()
}

// Stats returns host statistics for the metrics collector.
func (s *Server) Stats() metric.HostStats {
	snap := s.snapshot.Load()
	return metric.HostStats{
		OnlinePlayers: len(snap.Players),
		MaxPlayers:    snap.Info.MaxPlayers,
		QueueDepth:    len(s.tasks),
		Ticks:         snap.Ticks,
		Running:       s.running.Load(),
	}
}
