package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultServer != "http://localhost:4567" {
		t.Errorf("DefaultServer = %q, want %q", cfg.DefaultServer, "http://localhost:4567")
	}
	if cfg.DefaultOutput != "table" {
		t.Errorf("DefaultOutput = %q, want %q", cfg.DefaultOutput, "table")
	}
	if cfg.Connections == nil || len(cfg.Connections) != 0 {
		t.Errorf("Connections should be empty and non-nil, got %v", cfg.Connections)
	}
	if _, ok := cfg.Current(); ok {
		t.Error("default config should have no current connection")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("path %q should be absolute", path)
	}
	if !strings.HasSuffix(path, filepath.Join(".craftgate", "cli.yaml")) {
		t.Errorf("path = %q, should end with .craftgate/cli.yaml", path)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load should not error for nonexistent file: %v", err)
	}
	if cfg.DefaultServer != "http://localhost:4567" {
		t.Error("should return default config for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("connections: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "cli.yaml")

	cfg := Default()
	cfg.DefaultOutput = "json"
	cfg.CurrentConnection = "lobby"
	cfg.Connections["lobby"] = ConnectionConfig{Server: "http://mc.example.com:4567", Token: "tok"}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	conn, ok := got.Current()
	if !ok {
		t.Fatal("current connection lost")
	}
	if conn.Server != "http://mc.example.com:4567" || conn.Token != "tok" {
		t.Errorf("connection = %+v", conn)
	}
	if got.DefaultOutput != "json" {
		t.Errorf("DefaultOutput = %q, want json", got.DefaultOutput)
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.CurrentConnection = "lobby"
	base.Connections["lobby"] = ConnectionConfig{Server: "http://a:4567", Token: "saved"}

	tests := []struct {
		name       string
		env        map[string]string
		flags      map[string]string
		wantServer string
		wantToken  string
		wantOutput string
	}{
		{"nothing set", nil, nil, "http://a:4567", "saved", "table"},
		{"env server", map[string]string{EnvServer: "http://b:4567"}, nil, "http://b:4567", "saved", "table"},
		{"flag beats env", map[string]string{EnvToken: "env"}, map[string]string{"token": "flag"}, "http://a:4567", "flag", "table"},
		{"output", map[string]string{EnvOutput: "yaml"}, map[string]string{"output": "json"}, "http://a:4567", "saved", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(base, tt.env, tt.flags)
			conn, ok := got.Current()
			if !ok {
				t.Fatal("no current connection")
			}
			if conn.Server != tt.wantServer {
				t.Errorf("server = %q, want %q", conn.Server, tt.wantServer)
			}
			if conn.Token != tt.wantToken {
				t.Errorf("token = %q, want %q", conn.Token, tt.wantToken)
			}
			if got.DefaultOutput != tt.wantOutput {
				t.Errorf("output = %q, want %q", got.DefaultOutput, tt.wantOutput)
			}
		})
	}

	if base.Connections["lobby"].Token != "saved" {
		t.Error("Merge must not modify its input")
	}
}

func TestMerge_NoSavedConnection(t *testing.T) {
	got := Merge(Default(), map[string]string{EnvToken: "t"}, nil)
	conn, ok := got.Current()
	if !ok {
		t.Fatal("token override should create a connection")
	}
	if got.CurrentConnection != "default" {
		t.Errorf("CurrentConnection = %q, want default", got.CurrentConnection)
	}
	if conn.Server != "http://localhost:4567" || conn.Token != "t" {
		t.Errorf("connection = %+v", conn)
	}
}
