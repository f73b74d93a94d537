package connection

import (
	"path/filepath"
	"testing"

	"github.com/yndnr/craftgate/internal/cli/config"
)

func TestNewManager(t *testing.T) {
	m := NewManager(nil, filepath.Join(t.TempDir(), "cli.yaml"))
	if m.Current() != nil || m.IsConnected() {
		t.Error("new manager should have no current connection")
	}
}

func TestNewManager_RestoresCurrent(t *testing.T) {
	cfg := config.Default()
	cfg.CurrentConnection = "lobby"
	cfg.Connections["lobby"] = config.ConnectionConfig{Server: "http://a:4567", Token: "t"}

	m := NewManager(cfg, filepath.Join(t.TempDir(), "cli.yaml"))
	cur := m.Current()
	if cur == nil || cur.Name != "lobby" || cur.Token != "t" {
		t.Errorf("Current() = %+v", cur)
	}
}

func TestManager_ConnectPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	m := NewManager(nil, path)

	if err := m.Connect(&Connection{Server: "http://a:4567", Token: "tok"}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if !m.IsConnected() || m.Current().Name != "default" {
		t.Errorf("Current() = %+v", m.Current())
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cc, ok := cfg.Current()
	if !ok || cc.Token != "tok" || cc.Server != "http://a:4567" {
		t.Errorf("saved = %+v, %v", cc, ok)
	}
}

func TestManager_ConnectRequiresServer(t *testing.T) {
	m := NewManager(nil, filepath.Join(t.TempDir(), "cli.yaml"))
	if err := m.Connect(&Connection{Name: "x"}); err == nil {
		t.Error("Connect without server should fail")
	}
}

func TestManager_UseAndDisconnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	m := NewManager(nil, path)
	m.Connect(&Connection{Name: "a", Server: "http://a:4567", Token: "ta"})
	m.Connect(&Connection{Name: "b", Server: "http://b:4567", Token: "tb"})

	if got := m.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names() = %v", got)
	}

	conn, err := m.Use("a")
	if err != nil || conn.Token != "ta" {
		t.Fatalf("Use(a) = %+v, %v", conn, err)
	}
	if _, err := m.Use("missing"); err == nil {
		t.Error("Use(missing) should fail")
	}

	if err := m.Disconnect(); err != nil {
		t.Fatal(err)
	}
	if m.IsConnected() {
		t.Error("should be disconnected")
	}

	cfg, _ := config.Load(path)
	if cfg.CurrentConnection != "" {
		t.Errorf("CurrentConnection = %q, want empty", cfg.CurrentConnection)
	}
	if cfg.Connections["a"].Token != "" || cfg.Connections["a"].Server != "http://a:4567" {
		t.Errorf("connection a = %+v", cfg.Connections["a"])
	}
	if cfg.Connections["b"].Token != "tb" {
		t.Error("other connections keep their tokens")
	}
}
