package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Merge.
const (
	EnvServer = "CRAFTGATE_SERVER"
	EnvToken  = "CRAFTGATE_TOKEN"
	EnvOutput = "CRAFTGATE_OUTPUT"
	EnvSocket = "CRAFTGATE_CONSOLE_SOCKET"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".craftgate", "cli.yaml")
}

// Load loads CLI configuration from file. A missing file yields the
// defaults.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Connections == nil {
		cfg.Connections = make(map[string]ConnectionConfig)
	}
	return cfg, nil
}

// Save writes CLI configuration to file with mode 0600, since saved
// connections carry session tokens.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Merge applies CRAFTGATE_* environment variables and then explicitly set
// flags on top of cfg. Recognised flag keys are server, token, output and
// socket. The server and token overrides replace the active connection.
func Merge(cfg *CLIConfig, env map[string]string, flags map[string]string) *CLIConfig {
	out := *cfg
	out.Connections = make(map[string]ConnectionConfig, len(cfg.Connections))
	for k, v := range cfg.Connections {
		out.Connections[k] = v
	}

	server, token := "", ""
	if conn, ok := cfg.Current(); ok {
		server, token = conn.Server, conn.Token
	}

	apply := func(src map[string]string, serverKey, tokenKey, outputKey, socketKey string) {
		if v := src[serverKey]; v != "" {
			server = v
		}
		if v := src[tokenKey]; v != "" {
			token = v
		}
		if v := src[outputKey]; v != "" {
			out.DefaultOutput = v
		}
		if v := src[socketKey]; v != "" {
			out.ConsoleSocket = v
		}
	}
	apply(env, EnvServer, EnvToken, EnvOutput, EnvSocket)
	apply(flags, "server", "token", "output", "socket")

	if server != "" {
		out.DefaultServer = server
	}
	if token != "" || server != "" {
		name := out.CurrentConnection
		if name == "" {
			name = "default"
		}
		out.CurrentConnection = name
		out.Connections[name] = ConnectionConfig{Server: out.DefaultServer, Token: token}
	}
	return &out
}
