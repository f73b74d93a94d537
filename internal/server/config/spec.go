package config

import "time"

// ServerConfig is the root configuration for craftgate-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Security SecuritySection `koanf:"security"`
	Dispatch DispatchSection `koanf:"dispatch"`
	Host     HostSection     `koanf:"host"`
	Storage  StorageSection  `koanf:"storage"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP    HTTPConfig    `koanf:"http"`
	Console ConsoleConfig `koanf:"console"`
}

// HTTPConfig configures the HTTP gateway.
type HTTPConfig struct {
	Addr         string        `koanf:"addr"`
	TLSCertFile  string        `koanf:"tls_cert_file"`
	TLSKeyFile   string        `koanf:"tls_key_file"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For /
	// X-Real-IP. Enable only behind a reverse proxy that sets them.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// ConsoleConfig configures the local console socket.
type ConsoleConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// SecuritySection configures authentication and rate limiting.
type SecuritySection struct {
	JWTSecret            string      `koanf:"jwt_secret"`
	MaxRequestsPerMinute int         `koanf:"max_requests_per_minute"`
	BcryptCost           int         `koanf:"bcrypt_cost"`
	Admin                AdminConfig `koanf:"admin"`
}

// AdminConfig holds the administrator credentials.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// DispatchSection configures the command dispatcher.
type DispatchSection struct {
	Timeout time.Duration `koanf:"timeout"`
	MaxRate float64       `koanf:"max_rate"`
	Burst   int           `koanf:"burst"`
}

// HostSection configures the game server host.
type HostSection struct {
	Name         string        `koanf:"name"`
	Version      string        `koanf:"version"`
	APIVersion   string        `koanf:"api_version"`
	OnlineMode   bool          `koanf:"online_mode"`
	MaxPlayers   int           `koanf:"max_players"`
	TickInterval time.Duration `koanf:"tick_interval"`
	QueueSize    int           `koanf:"queue_size"`
	Worlds       []string      `koanf:"worlds"`
	SeedPlayers  []string      `koanf:"seed_players"`
}

// StorageSection configures profile storage.
type StorageSection struct {
	// DataDir is the Badger directory. Empty keeps profiles in memory.
	DataDir string `koanf:"data_dir"`
}

// MetricsSection configures the /metrics endpoint.
type MetricsSection struct {
	Enabled      bool `koanf:"enabled"`
	AuthRequired bool `koanf:"auth_required"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
