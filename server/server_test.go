package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/a-ems/aems/errors"
	"github.com/a-ems/aems/logger"
	"github.com/a-ems/aems/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg server.Config
	cfg.ApplyDefaults()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.ReadTimeout != 15 || cfg.WriteTimeout != 15 || cfg.IdleTimeout != 60 {
		t.Errorf("unexpected timeout defaults: %d/%d/%d",
			cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout)
	}
	if cfg.MaxBodySize != "10MB" {
		t.Errorf("expected 10MB body limit, got %s", cfg.MaxBodySize)
	}
	if cfg.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("expected 60 req/min default, got %d", cfg.RateLimit.RequestsPerMinute)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin default, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestConfigApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := server.Config{Port: 9000, MaxBodySize: "1MB"}
	cfg.ApplyDefaults()

	if cfg.Port != 9000 {
		t.Errorf("explicit port overridden: %d", cfg.Port)
	}
	if cfg.MaxBodySize != "1MB" {
		t.Errorf("explicit body size overridden: %s", cfg.MaxBodySize)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*server.Config)
		wantErr bool
	}{
		{"defaults are valid", func(*server.Config) {}, false},
		{"negative port", func(c *server.Config) { c.Port = -1 }, true},
		{"port too large", func(c *server.Config) { c.Port = 70000 }, true},
		{"negative read timeout", func(c *server.Config) { c.ReadTimeout = -1 }, true},
		{"negative rate limit", func(c *server.Config) { c.RateLimit.RequestsPerMinute = -5 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg server.Config
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRespondOK_Envelope(t *testing.T) {
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) {
		server.RespondOK(c, map[string]string{"name": "aems"})
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Data["name"] != "aems" {
		t.Errorf("expected data wrapped, got %s", rr.Body.String())
	}
}

func TestRespondWithError_AppError(t *testing.T) {
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) {
		c.Set(server.CorrelationIDKey, "corr-9")
		server.RespondWithError(c, errors.NotFound("user", "u-1"))
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["code"] != "NOT_FOUND_ERROR" {
		t.Errorf("expected NOT_FOUND_ERROR, got %v", body["code"])
	}
	if body["correlation_id"] != "corr-9" {
		t.Errorf("expected correlation id echoed, got %v", body["correlation_id"])
	}
}

func TestRespondWithError_UnknownError(t *testing.T) {
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) {
		server.RespondWithError(c, fmt.Errorf("disk on fire"))
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["code"] != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %v", body["code"])
	}
}

func TestServerStartStop(t *testing.T) {
	cfg := server.Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0 // let the kernel pick a free port

	srv := server.New(cfg, logger.NewDefault("server-test"))
	srv.ApplyMiddleware()
	srv.GinEngine().GET("/ping", func(c *gin.Context) {
		server.RespondOK(c, "pong")
	})

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
