package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arbor-ui/arbor/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "arbor.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default static export directory.
	DefaultOutput = "dist"
)

// Config represents the complete arbor.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Export contains static export configuration.
	Export ExportConfig `json:"export,omitempty"`

	// Publish contains S3 publish configuration.
	Publish PublishConfig `json:"publish,omitempty"`

	// Telemetry contains metrics and tracing configuration.
	Telemetry TelemetryConfig `json:"telemetry,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default: "/static/").
	Prefix string `json:"prefix,omitempty"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	// Output is the directory exported pages are written to.
	Output string `json:"output,omitempty"`
}

// PublishConfig contains S3 publish settings.
type PublishConfig struct {
	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty"`

	// Region is the AWS region.
	Region string `json:"region,omitempty"`

	// Prefix is an object key prefix for uploaded files.
	Prefix string `json:"prefix,omitempty"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Metrics enables the Prometheus /metrics endpoint.
	Metrics bool `json:"metrics,omitempty"`

	// Tracing enables OpenTelemetry span creation.
	Tracing bool `json:"tracing,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads arbor.json from dir. A missing file is not an error; the
// defaults are returned instead.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.New("A301").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("A302").Wrap(err).
			WithSuggestion("check " + path + " for JSON syntax errors")
	}
	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to the path it was loaded from, or to
// dir/arbor.json when it was never loaded from disk.
func (c *Config) Save(dir string) error {
	path := c.configPath
	if path == "" {
		path = filepath.Join(dir, ConfigFileName)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/static/"
	}
	if c.Export.Output == "" {
		c.Export.Output = DefaultOutput
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("A302").
			WithMessagef("invalid server port %d", c.Server.Port).
			WithSuggestion("use a port between 1 and 65535")
	}
	if c.Publish.Bucket != "" && c.Publish.Region == "" {
		return errors.New("A302").
			WithMessagef("publish.bucket is set but publish.region is empty").
			WithSuggestion("set publish.region to the bucket's AWS region")
	}
	return nil
}
