// Package config loads service settings from defaults, an optional YAML file
// and environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/security"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// ServiceConfig is the static metadata served on GET /.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	EnableSwagger   bool          `yaml:"enable_swagger"`
	// EnableProfiling mounts net/http/pprof under /debug/pprof.
	EnableProfiling bool `yaml:"enable_profiling"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	// OTLPEndpoint is a host:port for the OTLP/gRPC trace exporter. Empty
	// keeps spans in-process.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Config holds all configuration for the service.
type Config struct {
	Service  ServiceConfig           `yaml:"service"`
	Server   ServerConfig            `yaml:"server"`
	Log      LogConfig               `yaml:"log"`
	Security security.SecurityConfig `yaml:"security"`
	Tracing  TracingConfig           `yaml:"tracing"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "EduBloom AI Service",
			Version:     "1.0.0",
			Description: "Microservice providing risk prediction utilities for EduBloom.",
		},
		Server: ServerConfig{
			Port:            8000,
			Environment:     EnvDevelopment,
			ShutdownTimeout: 15 * time.Second,
			AllowedOrigins:  []string{"*"},
			EnableSwagger:   true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Security: security.DefaultSecurityConfig(),
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv exports the variables of a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error

	if v, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		errs = append(errs, envErr("PORT", err))
		c.Server.Port = port
	}
	c.Server.Environment = getEnv("ENVIRONMENT", c.Server.Environment)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Tracing.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.OTLPEndpoint)

	if v, ok := os.LookupEnv("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		errs = append(errs, envErr("MAX_UPLOAD_BYTES", err))
		c.Security.MaxUploadBytes = n
	}
	if v, ok := os.LookupEnv("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("REQUEST_TIMEOUT", err))
		c.Security.RequestTimeout = d
	}
	if v, ok := os.LookupEnv("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("SHUTDOWN_TIMEOUT", err))
		c.Server.ShutdownTimeout = d
	}
	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("ENABLE_SWAGGER"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("ENABLE_SWAGGER", err))
		c.Server.EnableSwagger = b
	}
	if v, ok := os.LookupEnv("ENABLE_PROFILING"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("ENABLE_PROFILING", err))
		c.Server.EnableProfiling = b
	}
	if v, ok := os.LookupEnv("ENABLE_HSTS"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("ENABLE_HSTS", err))
		c.Security.EnableHSTS = b
	}

	return errors.Join(errs...)
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if c.Security.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max upload bytes must be positive"))
	}
	if c.Security.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// GinMode maps the environment to a gin mode.
func (c *Config) GinMode() string {
	switch c.Server.Environment {
	case EnvProduction:
		return gin.ReleaseMode
	case EnvTest:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// Address returns the listen address.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func envErr(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("invalid %s: %w", key, err)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
