package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yndnr/craftgate/internal/core/service"
	"github.com/yndnr/craftgate/internal/dispatch"
	"github.com/yndnr/craftgate/internal/host"
	"github.com/yndnr/craftgate/internal/infra/buildinfo"
	"github.com/yndnr/craftgate/internal/infra/confloader"
	"github.com/yndnr/craftgate/internal/infra/shutdown"
	"github.com/yndnr/craftgate/internal/infra/tlsroots"
	"github.com/yndnr/craftgate/internal/server/config"
	"github.com/yndnr/craftgate/internal/server/httpserver"
	"github.com/yndnr/craftgate/internal/server/localserver"
	"github.com/yndnr/craftgate/internal/storage"
	"github.com/yndnr/craftgate/internal/telemetry/logger"
	"github.com/yndnr/craftgate/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "HTTP listen address (overrides server.http.addr)")
		logLevel    = flag.String("log-level", "", "Log level (overrides log.level)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()
	flagOverrides := map[string]any{
		"server.http.addr": *addr,
		"log.level":        *logLevel,
	}

	if *showVersion {
		fmt.Printf("craftgate-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile, flagOverrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting craftgate-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))
	warnDefaults(cfg, log)

	shutdownHandler := shutdown.NewHandler(shutdownTimeout)

	var reg *metric.Registry
	if cfg.Metrics.Enabled {
		reg = metric.NewRegistry()
	}

	// Storage
	kv, err := storage.NewBadgerEngine(storage.DefaultKVConfig(cfg.Storage.DataDir), log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if reg != nil {
		kv.RegisterMetrics(reg.Prometheus())
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing profile store")
		return kv.Close()
	})

	// Host
	gameHost, err := host.New(host.Config{
		Name:         cfg.Host.Name,
		Version:      cfg.Host.Version,
		APIVersion:   cfg.Host.APIVersion,
		OnlineMode:   cfg.Host.OnlineMode,
		MaxPlayers:   cfg.Host.MaxPlayers,
		TickInterval: cfg.Host.TickInterval,
		QueueSize:    cfg.Host.QueueSize,
		Worlds:       cfg.Host.Worlds,
		SeedPlayers:  cfg.Host.SeedPlayers,
		Profiles:     storage.NewProfileStore(kv),
		Logger:       log.With("component", "host"),
	})
	if err != nil {
		kv.Close()
		return fmt.Errorf("init host: %w", err)
	}
	if err := gameHost.Start(); err != nil {
		kv.Close()
		return fmt.Errorf("start host: %w", err)
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping host")
		return gameHost.Stop(ctx)
	})
	if reg != nil {
		reg.MustRegister(metric.NewHostCollector(gameHost.Stats))
	}

	// Services
	svc, err := initServices(cfg, gameHost, reg, log)
	if err != nil {
		shutdownHandler.Trigger()
		return joinShutdown(shutdownHandler, fmt.Errorf("init services: %w", err))
	}
	svc.limiter.Start(context.Background())
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		svc.limiter.Stop()
		return nil
	})

	// HTTP gateway
	var getCertificate func(*tls.ClientHelloInfo) (*tls.Certificate, error)
	if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
		certs, err := tlsroots.NewWatcher(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(log.With("component", "tls")))
		if err != nil {
			shutdownHandler.Trigger()
			return joinShutdown(shutdownHandler, fmt.Errorf("load certificate: %w", err))
		}
		certs.StartAsync()
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return certs.Stop()
		})
		getCertificate = certs.GetCertificate
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		AuthService:         svc.auth,
		GameService:         svc.game,
		RateLimiter:         svc.limiter,
		Metrics:             reg,
		MetricsAuthRequired: cfg.Metrics.AuthRequired,
		TrustProxyHeaders:   cfg.Server.HTTP.TrustProxyHeaders,
		Version:             buildinfo.Version,
		Logger:              log.With("component", "http"),
	})
	httpServer := httpserver.New(httpserver.Config{
		Addr:           cfg.Server.HTTP.Addr,
		TLSCertFile:    cfg.Server.HTTP.TLSCertFile,
		TLSKeyFile:     cfg.Server.HTTP.TLSKeyFile,
		GetCertificate: getCertificate,
		ReadTimeout:    cfg.Server.HTTP.ReadTimeout,
		WriteTimeout:   cfg.Server.HTTP.WriteTimeout,
		Logger:         log,
	}, router)
	if err := httpServer.Listen(); err != nil {
		shutdownHandler.Trigger()
		return joinShutdown(shutdownHandler, err)
	}
	shutdownHandler.OnShutdown(httpServer.Shutdown)
	go func() {
		if err := httpServer.Serve(); err != nil {
			log.Error("http server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	// Local console
	if cfg.Server.Console.Enabled {
		console := localserver.New(cfg.Server.Console.Path, localserver.NewHandler(localserver.HandlerConfig{
			Runner:   svc.game,
			Stats:    gameHost.Stats,
			Commands: host.CommandNames(),
			Logger:   log.With("component", "console"),
		}), log)
		if err := console.Listen(); err != nil {
			shutdownHandler.Trigger()
			return joinShutdown(shutdownHandler, fmt.Errorf("console: %w", err))
		}
		shutdownHandler.OnShutdown(console.Shutdown)
		go func() {
			if err := console.Serve(); err != nil {
				log.Error("console error", "error", err)
			}
		}()
	}

	// Config hot reload
	if *configFile != "" {
		watcher, err := startWatcher(*configFile, flagOverrides, svc.limiter, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started", "http_addr", httpServer.Addr())
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// joinShutdown runs the hooks registered so far after a startup failure.
func joinShutdown(h *shutdown.Handler, cause error) error {
	if err := h.Wait(); err != nil {
		return fmt.Errorf("%w (shutdown: %v)", cause, err)
	}
	return cause
}

// loadConfig loads configuration from file, environment and flags, in
// increasing precedence.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	slog.SetDefault(log.Slog())
	return log.Slog(), nil
}

func warnDefaults(cfg *config.ServerConfig, log *slog.Logger) {
	if cfg.IsDefaultSecret() {
		log.Warn("security.jwt_secret is the shipped default; anyone can forge session tokens until it is changed")
	}
	if cfg.IsDefaultAdminPassword() {
		log.Warn("security.admin.password is the shipped default; change it before exposing the gateway")
	}
}

type services struct {
	auth    *service.AuthService
	game    *service.GameService
	limiter *service.RateLimiter
}

func initServices(cfg *config.ServerConfig, gameHost *host.Server, reg *metric.Registry, log *slog.Logger) (*services, error) {
	creds, err := service.NewCredentialStore(
		cfg.Security.Admin.Username,
		cfg.Security.Admin.Password,
		cfg.Security.BcryptCost,
	)
	if err != nil {
		return nil, err
	}

	tokens, err := service.NewTokenService(cfg.Security.JWTSecret)
	if err != nil {
		return nil, err
	}

	dispatcher := dispatch.New(gameHost, dispatch.Config{
		Timeout: cfg.Dispatch.Timeout,
		MaxRate: cfg.Dispatch.MaxRate,
		Burst:   cfg.Dispatch.Burst,
		Logger:  log.With("component", "dispatch"),
		Metrics: reg,
	})

	limiter := service.NewRateLimiter(service.RateLimiterConfig{
		Limit:  cfg.Security.MaxRequestsPerMinute,
		Logger: log.With("component", "ratelimit"),
	})

	log.Info("services initialized",
		"admin_user", creds.Username(),
		"dispatch_timeout", cfg.Dispatch.Timeout,
		"max_requests_per_minute", limiter.Limit())

	return &services{
		auth:    service.NewAuthService(creds, tokens, log.With("component", "auth")),
		game:    service.NewGameService(gameHost, gameHost, dispatcher),
		limiter: limiter,
	}, nil
}

// startWatcher reloads log.level and security.max_requests_per_minute when
// the configuration file changes. Other keys need a restart.
func startWatcher(path string, overrides map[string]any, limiter *service.RateLimiter, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path, overrides)
		if err != nil {
			log.Error("config reload failed", "error", err)
			return
		}
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			log.Error("config reload: invalid log level", "error", err)
		}
		limiter.SetLimit(cfg.Security.MaxRequestsPerMinute)
		log.Info("configuration reloaded",
			"log_level", logger.GetLevel(),
			"max_requests_per_minute", cfg.Security.MaxRequestsPerMinute)
	})
	w.StartAsync()
	return w, nil
}
