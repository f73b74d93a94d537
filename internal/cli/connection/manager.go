package connection

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yndnr/craftgate/internal/cli/config"
)

// ErrNotConnected is returned when no connection is active.
var ErrNotConnected = errors.New("not connected; run 'craftgate-cli login' first")

// Manager tracks saved gateway connections and persists them to the CLI
// config file.
type Manager struct {
	cfg     *config.CLIConfig
	path    string
	current *Connection
}

// Connection represents a connection to a gateway.
type Connection struct {
	Name   string
	Server string
	Token  string
}

// NewManager creates a connection manager over cfg. path is where Save
// writes; empty means the default config path. A nil cfg starts from the
// defaults.
func NewManager(cfg *config.CLIConfig, path string) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}
	m := &Manager{cfg: cfg, path: path}
	if cc, ok := cfg.Current(); ok {
		m.current = &Connection{Name: cfg.CurrentConnection, Server: cc.Server, Token: cc.Token}
	}
	return m
}

// Connect records conn as the current connection and saves it.
func (m *Manager) Connect(conn *Connection) error {
	if conn == nil || conn.Server == "" {
		return errors.New("server address required")
	}
	if conn.Name == "" {
		conn.Name = "default"
	}

	m.cfg.Connections[conn.Name] = config.ConnectionConfig{Server: conn.Server, Token: conn.Token}
	m.cfg.CurrentConnection = conn.Name
	m.current = conn
	return m.save()
}

// Use switches to a saved connection.
func (m *Manager) Use(name string) (*Connection, error) {
	cc, ok := m.cfg.Connections[name]
	if !ok {
		return nil, fmt.Errorf("unknown connection %q", name)
	}
	m.cfg.CurrentConnection = name
	m.current = &Connection{Name: name, Server: cc.Server, Token: cc.Token}
	return m.current, m.save()
}

// Disconnect forgets the current connection's token and clears the
// active selection. The saved server address is kept.
func (m *Manager) Disconnect() error {
	if m.current == nil {
		return nil
	}
	if cc, ok := m.cfg.Connections[m.current.Name]; ok {
		cc.Token = ""
		m.cfg.Connections[m.current.Name] = cc
	}
	m.cfg.CurrentConnection = ""
	m.current = nil
	return m.save()
}

// Current returns the current connection.
func (m *Manager) Current() *Connection {
	return m.current
}

// IsConnected returns true if connected to a server.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}

// Names returns the saved connection names in order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.cfg.Connections))
	for name := range m.cfg.Connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns the configuration the manager writes.
func (m *Manager) Config() *config.CLIConfig {
	return m.cfg
}

func (m *Manager) save() error {
	if err := config.Save(m.cfg, m.path); err != nil {
		return fmt.Errorf("save connections: %w", err)
	}
	return nil
}
