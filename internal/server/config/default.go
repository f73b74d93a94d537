package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr      = "0.0.0.0:4567"
	DefaultReadTimeout   = 10 * time.Second
	DefaultWriteTimeout  = 15 * time.Second
	DefaultConsoleSocket = "/var/run/craftgate/console.sock"

	// DefaultJWTSecret is the shipped placeholder secret. Running with it
	// logs a warning at startup.
	DefaultJWTSecret            = "your-secret-key-here"
	DefaultMaxRequestsPerMinute = 60
	DefaultBcryptCost           = 10
	DefaultAdminUsername        = "admin"
	DefaultAdminPassword        = "change-this-password"

	DefaultDispatchTimeout = 5 * time.Second
	DefaultDispatchBurst   = 1

	DefaultHostName      = "CraftBukkit"
	DefaultHostVersion   = "1.20.4"
	DefaultAPIVersion    = "1.20.4-R0.1-SNAPSHOT"
	DefaultMaxPlayers    = 20
	DefaultTickInterval  = 50 * time.Millisecond
	DefaultHostQueueSize = 1024

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultWorlds are the worlds a host loads when none are configured.
var DefaultWorlds = []string{"world", "world_nether", "world_the_end"}

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
			},
			Console: ConsoleConfig{
				Enabled: false,
				Path:    DefaultConsoleSocket,
			},
		},
		Security: SecuritySection{
			JWTSecret:            DefaultJWTSecret,
			MaxRequestsPerMinute: DefaultMaxRequestsPerMinute,
			BcryptCost:           DefaultBcryptCost,
			Admin: AdminConfig{
				Username: DefaultAdminUsername,
				Password: DefaultAdminPassword,
			},
		},
		Dispatch: DispatchSection{
			Timeout: DefaultDispatchTimeout,
			Burst:   DefaultDispatchBurst,
		},
		Host: HostSection{
			Name:         DefaultHostName,
			Version:      DefaultHostVersion,
			APIVersion:   DefaultAPIVersion,
			OnlineMode:   true,
			MaxPlayers:   DefaultMaxPlayers,
			TickInterval: DefaultTickInterval,
			QueueSize:    DefaultHostQueueSize,
			Worlds:       append([]string(nil), DefaultWorlds...),
		},
		Metrics: MetricsSection{
			Enabled:      true,
			AuthRequired: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// IsDefaultSecret reports whether the JWT secret is the shipped placeholder.
func (c *ServerConfig) IsDefaultSecret() bool {
	return c.Security.JWTSecret == DefaultJWTSecret
}

// IsDefaultAdminPassword reports whether the admin password is the shipped placeholder.
func (c *ServerConfig) IsDefaultAdminPassword() bool {
	return c.Security.Admin.Password == DefaultAdminPassword
}
