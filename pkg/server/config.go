package server

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds server configuration.
type Config struct {
	// Address is the host:port to listen on.
	Address string

	// DevMode disables caching of the bootloader script.
	DevMode bool

	// ReadTimeout is the WebSocket read deadline.
	ReadTimeout time.Duration

	// WriteTimeout is the WebSocket write deadline.
	WriteTimeout time.Duration

	// HeartbeatInterval is how often ping frames are sent.
	HeartbeatInterval time.Duration

	// EventQueueSize is the per-session event channel capacity.
	EventQueueSize int

	// ReadBufferSize is the WebSocket read buffer size.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	WriteBufferSize int

	// StaticDir is a directory of static files to serve. Empty
	// disables static serving.
	StaticDir string

	// StaticPrefix is the URL prefix for static files.
	StaticPrefix string

	// CheckOrigin validates the Origin header on upgrade.
	// Nil allows same-origin requests only.
	CheckOrigin func(r *http.Request) bool

	// Metrics enables the Prometheus middleware and /metrics endpoint.
	Metrics bool

	// Tracing enables the OpenTelemetry middleware.
	Tracing bool

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           "localhost:3000",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		EventQueueSize:    64,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
	}
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.EventQueueSize == 0 {
		c.EventQueueSize = d.EventQueueSize
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.StaticPrefix == "" {
		c.StaticPrefix = "/static/"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
