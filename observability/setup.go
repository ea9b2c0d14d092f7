package observability

import (
	"context"
	"time"

	"github.com/a-ems/aems/logger"
)

// Config is the bootstrap telemetry configuration services embed.
type Config struct {
	// Enabled turns telemetry on. Off by default so local runs need no
	// collector.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// ShutdownFunc flushes and stops the telemetry providers.
type ShutdownFunc func(context.Context)

// Setup initializes tracing and metrics for a service. It is
// best-effort: an unreachable collector logs a warning and returns nil
// metrics with a no-op shutdown, never an error that blocks serving.
func Setup(ctx context.Context, cfg Config, serviceName, serviceVersion, environment string, log *logger.Logger) (*Metrics, ShutdownFunc) {
	noop := func(context.Context) {}
	if !cfg.Enabled {
		return nil, noop
	}
	cfg.ApplyDefaults()

	tracerCfg := DefaultTracerConfig(serviceName)
	tracerCfg.ServiceVersion = serviceVersion
	tracerCfg.Environment = environment
	tracerCfg.Endpoint = cfg.Endpoint
	tracerCfg.SampleRate = cfg.SampleRate

	tp, err := InitTracer(ctx, tracerCfg)
	if err != nil {
		log.Warn("tracer init failed, continuing without tracing", logger.Fields(
			"error", err.Error(),
		))
		return nil, noop
	}

	meterCfg := DefaultMeterConfig(serviceName)
	meterCfg.ServiceVersion = serviceVersion
	meterCfg.Environment = environment
	meterCfg.Endpoint = cfg.Endpoint
	meterCfg.Interval = cfg.Interval

	mp, err := InitMeter(ctx, meterCfg)
	if err != nil {
		log.Warn("meter init failed, continuing without metrics", logger.Fields(
			"error", err.Error(),
		))
		return nil, func(shutdownCtx context.Context) {
			_ = tp.Shutdown(shutdownCtx)
		}
	}

	metrics, err := NewMetrics(Meter(serviceName))
	if err != nil {
		log.Warn("metric instruments failed", logger.Fields(
			"error", err.Error(),
		))
		metrics = nil
	}

	return metrics, func(shutdownCtx context.Context) {
		_ = mp.Shutdown(shutdownCtx)
		_ = tp.Shutdown(shutdownCtx)
	}
}
