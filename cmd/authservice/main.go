// Package main is the entry point for the authentication service. It
// loads configuration, wires the user store and auth service, and
// serves the /api/auth surface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/a-ems/aems/auth"
	"github.com/a-ems/aems/config"
	"github.com/a-ems/aems/logger"
	"github.com/a-ems/aems/observability"
	"github.com/a-ems/aems/server"
)

const serviceName = "auth-service"

type authServiceConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Auth      auth.Config          `yaml:"auth" mapstructure:"auth"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

func (c *authServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
}

func (c *authServiceConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg authServiceConfig
	if err := config.LoadConfig("authservice", &cfg, config.WithEnvAliases(map[string]string{
		"JWT_SECRET_KEY":        "auth.jwt.secret_key",
		"ACCESS_TOKEN_TTL":      "auth.jwt.access_ttl",
		"REFRESH_TOKEN_TTL":     "auth.jwt.refresh_ttl",
		"MFA_SESSION_TTL":       "auth.jwt.mfa_session_ttl",
		"RATE_LIMIT_PER_MINUTE": "server.rate_limit.requests_per_minute",
	})); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	log.Info("starting auth service", logger.Fields(
		"environment", cfg.Environment,
	))

	ctx := context.Background()
	metrics, telemetryShutdown := observability.Setup(
		ctx, cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment, log)
	defer telemetryShutdown(ctx)

	// The in-memory store backs development and tests; production
	// deployments plug a database-backed Store in here.
	store := auth.NewMemoryStore()
	svc, err := auth.NewService(cfg.Auth, store, log)
	if err != nil {
		return fmt.Errorf("building auth service: %w", err)
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	engine := srv.GinEngine()
	if metrics != nil {
		engine.Use(observability.RequestTelemetry(cfg.Name, metrics))
	}

	srv.RegisterDefaultEndpoints(cfg.Name, nil)
	auth.NewHandler(svc).MountRoutes(engine)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", logger.Fields("signal", sig.String()))

	return srv.Stop(ctx)
}
