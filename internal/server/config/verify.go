package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verify validates the configuration and returns every problem found.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyServer(&cfg.Server),
		verifySecurity(&cfg.Security),
		verifyDispatch(&cfg.Dispatch),
		verifyHost(&cfg.Host),
		verifyLog(&cfg.Log),
	)
}

func verifyServer(cfg *ServerSection) error {
	var errs []error
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.http.addr: %w", err))
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		errs = append(errs, errors.New("server.http: tls_cert_file and tls_key_file must be set together"))
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			errs = append(errs, fmt.Errorf("server.http: %w", err))
		}
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 {
		errs = append(errs, errors.New("server.http: timeouts must not be negative"))
	}
	if cfg.Console.Enabled && cfg.Console.Path == "" {
		errs = append(errs, errors.New("server.console.path is required when the console is enabled"))
	}
	return errors.Join(errs...)
}

func verifySecurity(cfg *SecuritySection) error {
	var errs []error
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("security.jwt_secret is required"))
	}
	if cfg.MaxRequestsPerMinute < 1 {
		errs = append(errs, errors.New("security.max_requests_per_minute must be at least 1"))
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("security.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if cfg.Admin.Username == "" {
		errs = append(errs, errors.New("security.admin.username is required"))
	}
	if cfg.Admin.Password == "" {
		errs = append(errs, errors.New("security.admin.password is required"))
	}
	return errors.Join(errs...)
}

func verifyDispatch(cfg *DispatchSection) error {
	var errs []error
	if cfg.Timeout <= 0 {
		errs = append(errs, errors.New("dispatch.timeout must be positive"))
	}
	if cfg.MaxRate < 0 {
		errs = append(errs, errors.New("dispatch.max_rate must not be negative"))
	}
	if cfg.MaxRate > 0 && cfg.Burst < 1 {
		errs = append(errs, errors.New("dispatch.burst must be at least 1 when max_rate is set"))
	}
	return errors.Join(errs...)
}

func verifyHost(cfg *HostSection) error {
	var errs []error
	if cfg.MaxPlayers < 1 {
		errs = append(errs, errors.New("host.max_players must be at least 1"))
	}
	if cfg.TickInterval <= 0 {
		errs = append(errs, errors.New("host.tick_interval must be positive"))
	}
	if cfg.QueueSize < 1 {
		errs = append(errs, errors.New("host.queue_size must be at least 1"))
	}
	if len(cfg.Worlds) == 0 {
		errs = append(errs, errors.New("host.worlds must not be empty"))
	}
	if len(cfg.SeedPlayers) > cfg.MaxPlayers {
		errs = append(errs, errors.New("host.seed_players exceeds host.max_players"))
	}
	return errors.Join(errs...)
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
	return nil
}
