package config

// CLIConfig is the configuration for craftgate-cli.
type CLIConfig struct {
	// Default connection settings
	DefaultServer string `yaml:"default_server"`
	DefaultOutput string `yaml:"default_output"` // table, json, yaml
	ConsoleSocket string `yaml:"console_socket"`

	// Saved connections
	Connections map[string]ConnectionConfig `yaml:"connections"`

	// Current active connection
	CurrentConnection string `yaml:"current_connection"`
}

// ConnectionConfig stores saved connection details.
type ConnectionConfig struct {
	Server string `yaml:"server"`
	Token  string `yaml:"token,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "http://localhost:4567",
		DefaultOutput: "table",
		ConsoleSocket: "/var/run/craftgate/console.sock",
		Connections:   make(map[string]ConnectionConfig),
	}
}

// Current returns the active saved connection, if any.
func (c *CLIConfig) Current() (ConnectionConfig, bool) {
	if c.CurrentConnection == "" {
		return ConnectionConfig{}, false
	}
	conn, ok := c.Connections[c.CurrentConnection]
	return conn, ok
}
