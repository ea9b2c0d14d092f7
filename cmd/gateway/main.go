// Package main is the entry point for the API gateway. It loads
// configuration, initializes telemetry, and serves the edge routes:
// the service proxy, service discovery, and the gateway health check.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/a-ems/aems/config"
	"github.com/a-ems/aems/gateway"
	"github.com/a-ems/aems/logger"
	"github.com/a-ems/aems/observability"
	"github.com/a-ems/aems/server"
	"github.com/a-ems/aems/server/middleware"
)

const serviceName = "api-gateway"

type gatewayConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config             `yaml:"server" mapstructure:"server"`
	Gateway   gateway.Config            `yaml:"gateway" mapstructure:"gateway"`
	AuthGate  middleware.AuthGateConfig `yaml:"auth_gate" mapstructure:"auth_gate"`
	Telemetry observability.Config      `yaml:"telemetry" mapstructure:"telemetry"`
}

func (c *gatewayConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Gateway.ApplyDefaults()
	c.AuthGate.ApplyDefaults()
}

func (c *gatewayConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Gateway.Validate()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg gatewayConfig
	if err := config.LoadConfig("gateway", &cfg, config.WithEnvAliases(map[string]string{
		"RATE_LIMIT_PER_MINUTE": "server.rate_limit.requests_per_minute",
		"AUTH_EXCLUDED_PATHS":   "auth_gate.excluded_paths",
	})); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	log.Info("starting gateway", logger.Fields(
		"environment", cfg.Environment,
		"services", len(cfg.Gateway.Services),
	))

	ctx := context.Background()
	metrics, telemetryShutdown := observability.Setup(
		ctx, cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment, log)
	defer telemetryShutdown(ctx)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	engine := srv.GinEngine()
	if metrics != nil {
		engine.Use(observability.RequestTelemetry(cfg.Name, metrics))
	}

	router, err := gateway.NewRouter(cfg.Gateway, log)
	if err != nil {
		return fmt.Errorf("building gateway router: %w", err)
	}

	// The gate covers every gateway route; /health stays reachable
	// through the exclusion list.
	engine.Use(middleware.AuthGate(cfg.AuthGate))
	router.MountRoutes(engine)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", logger.Fields("signal", sig.String()))

	return srv.Stop(ctx)
}
