package host

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yndnr/craftgate/internal/core/domain"
)

const (
	// ticksPerDay is the length of a world day in ticks.
	ticksPerDay = 24000

	// inboxSize caps the messages kept per player.
	inboxSize = 50

	defaultHealth = 20.0
)

// player is the logic goroutine's view of an online player.
type player struct {
	name     string
	uuid     string
	world    string
	gameMode domain.GameMode
	health   float64
	level    int
	inbox    []string
}

func (p *player) view() domain.Player {
	return domain.Player{
		Name:     p.name,
		UUID:     p.uuid,
		GameMode: p.gameMode,
		Health:   p.health,
		Level:    p.level,
	}
}

func (p *player) deliver(msg string) {
	p.inbox = append(p.inbox, msg)
	if len(p.inbox) > inboxSize {
		p.inbox = p.inbox[len(p.inbox)-inboxSize:]
	}
}

type world struct {
	name  string
	time  int64
	storm bool
}

func (w *world) view(population int) domain.World {
	weather := domain.WeatherClear
	if w.storm {
		weather = domain.WeatherStormy
	}
	return domain.World{
		Name:        w.name,
		PlayerCount: population,
		Time:        w.time,
		Weather:     weather,
	}
}

// OfflineUUID derives the stable UUID of a player name.
func OfflineUUID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("OfflinePlayer:"+strings.ToLower(name))).String()
}

func playerKey(name string) string {
	return strings.ToLower(name)
}

func (s *Server) tick() {
	s.ticks++
	for _, w := range s.worlds {
		w.time = (w.time + 1) % ticksPerDay
	}
}

func (s *Server) sortedPlayers() []*player {
	out := make([]*player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (s *Server) worldPopulation(name string) int {
	n := 0
	for _, p := range s.players {
		if p.world == name {
			n++
		}
	}
	return n
}

func (s *Server) findWorld(name string) *world {
	for _, w := range s.worlds {
		if w.name == name {
			return w
		}
	}
	return nil
}

// selectWorlds returns the named world, or every world when name is empty.
func (s *Server) selectWorlds(name string) ([]*world, error) {
	if name == "" {
		return s.worlds, nil
	}
	w := s.findWorld(name)
	if w == nil {
		return nil, domain.ErrWorldNotFound.WithDetails("world: " + name)
	}
	return []*world{w}, nil
}

func (s *Server) lookup(name string) (*player, error) {
	p, ok := s.players[playerKey(name)]
	if !ok {
		return nil, domain.ErrPlayerNotFound.WithDetails("player: " + name)
	}
	return p, nil
}

// HasPlayer reports whether name is online. Names are case-insensitive.
// Logic goroutine only.
func (s *Server) HasPlayer(name string) bool {
	_, ok := s.players[playerKey(name)]
	return ok
}

// Join brings a player online in the first world, restoring the saved
// profile if there is one. Logic goroutine only.
func (s *Server) Join(name string) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, domain.ErrMissingField.WithDetails("player name")
	}
	if s.HasPlayer(name) {
		return domain.Player{}, domain.ErrBadRequest.WithDetails("player already online: " + name)
	}
	if len(s.players) >= s.cfg.MaxPlayers {
		return domain.Player{}, domain.ErrBadRequest.WithDetails("server is full")
	}

	p := &player{
		name:     name,
		uuid:     OfflineUUID(name),
		world:    s.worlds[0].name,
		gameMode: domain.GameModeSurvival,
		health:   defaultHealth,
	}
	if s.cfg.Profiles != nil {
		prof, found, err := s.cfg.Profiles.LoadProfile(context.Background(), p.uuid)
		if err != nil {
			s.logger.Warn("profile load failed", "player", name, "error", err)
		} else if found {
			p.gameMode = prof.GameMode
			p.level = prof.Level
		}
	}

	s.players[playerKey(name)] = p
	s.logger.Info("player joined", "player", name, "uuid", p.uuid, "online", len(s.players))
	return p.view(), nil
}

// Leave takes a player offline and saves the profile. Logic goroutine only.
func (s *Server) Leave(name string) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	s.save(p)
	delete(s.players, playerKey(name))
	s.logger.Info("player left", "player", p.name, "online", len(s.players))
	return nil
}

// Broadcast delivers message to every online player and returns how many
// received it. Logic goroutine only.
func (s *Server) Broadcast(message string) int {
	for _, p := range s.players {
		p.deliver(message)
	}
	s.logger.Info("broadcast", "message", message, "recipients", len(s.players))
	return len(s.players)
}

// MessagePlayer delivers a private message. Logic goroutine only.
func (s *Server) MessagePlayer(name, message string) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	p.deliver(message)
	s.logger.Debug("message delivered", "player", p.name)
	return nil
}

// KickPlayer disconnects a player with reason. Logic goroutine only.
func (s *Server) KickPlayer(name, reason string) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	s.save(p)
	delete(s.players, playerKey(name))
	s.logger.Info("player kicked", "player", p.name, "reason", reason)
	return nil
}

// SetGameMode changes a player's game mode. Logic goroutine only.
func (s *Server) SetGameMode(name string, mode domain.GameMode) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}
	old := p.gameMode
	p.gameMode = mode
	s.save(p)
	s.logger.Info("gamemode changed", "player", p.name, "from", old, "to", mode)
	return nil
}

// Inbox returns the messages a player received, oldest first.
// Logic goroutine only.
func (s *Server) Inbox(name string) ([]string, error) {
	p, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), p.inbox...), nil
}

// SetTime sets the time of day in the named world, or in every world when
// worldName is empty. Logic goroutine only.
func (s *Server) SetTime(worldName string, t int64) error {
	worlds, err := s.selectWorlds(worldName)
	if err != nil {
		return err
	}
	t %= ticksPerDay
	if t < 0 {
		t += ticksPerDay
	}
	for _, w := range worlds {
		w.time = t
	}
	return nil
}

// SetWeather sets the weather of the named world, or of every world when
// worldName is empty. Logic goroutine only.
func (s *Server) SetWeather(worldName string, storm bool) error {
	worlds, err := s.selectWorlds(worldName)
	if err != nil {
		return err
	}
	for _, w := range worlds {
		w.storm = storm
	}
	return nil
}

func (s *Server) save(p *player) {
	if s.cfg.Profiles == nil {
		return
	}
	prof := &domain.PlayerProfile{
		UUID:     p.uuid,
		Name:     p.name,
		GameMode: p.gameMode,
		Level:    p.level,
		LastSeen: s.now().UTC().Truncate(time.Second),
	}
	if err := s.cfg.Profiles.SaveProfile(context.Background(), prof); err != nil {
		s.logger.Warn("profile save failed", "player", p.name, "error", err)
	}
}

func (s *Server) saveAll() {
	for _, p := range s.players {
		s.save(p)
	}
}
