package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "EduBloom AI Service", cfg.Service.Name)
	assert.Equal(t, "1.0.0", cfg.Service.Version)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Server.EnableSwagger)
	assert.Equal(t, int64(10<<20), cfg.Security.MaxUploadBytes)
	assert.Equal(t, 30*time.Second, cfg.Security.RequestTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Tracing.OTLPEndpoint)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Service, cfg.Service)
	assert.Equal(t, ":8000", cfg.Address())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  environment: production
  allowed_origins: ["https://edubloom.example"]
log:
  level: debug
security:
  max_upload_bytes: 2048
  request_timeout: 5s
`), 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("ENABLE_HSTS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env overrides file")
	assert.Equal(t, EnvProduction, cfg.Server.Environment)
	assert.Equal(t, []string{"https://edubloom.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int64(2048), cfg.Security.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.Security.RequestTimeout)
	assert.True(t, cfg.Security.EnableHSTS)
	assert.Equal(t, "EduBloom AI Service", cfg.Service.Name, "unset keys keep defaults")
	assert.Equal(t, gin.ReleaseMode, cfg.GinMode())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("MAX_UPLOAD_BYTES", "512")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("SHUTDOWN_TIMEOUT", "1s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ENABLE_SWAGGER", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, gin.TestMode, cfg.GinMode())
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, int64(512), cfg.Security.MaxUploadBytes)
	assert.Equal(t, 2*time.Second, cfg.Security.RequestTimeout)
	assert.Equal(t, time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Server.EnableSwagger)
	assert.Equal(t, "collector:4317", cfg.Tracing.OTLPEndpoint)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
		want string
	}{
		{name: "bad port", env: map[string]string{"PORT": "eighty"}, want: "invalid PORT"},
		{name: "bad duration", env: map[string]string{"REQUEST_TIMEOUT": "soon"}, want: "invalid REQUEST_TIMEOUT"},
		{name: "zero upload limit", env: map[string]string{"MAX_UPLOAD_BYTES": "0"}, want: "max upload bytes must be positive"},
		{name: "unknown log format", env: map[string]string{"LOG_FORMAT": "xml"}, want: `unknown log format "xml"`},
		{name: "malformed yaml", file: "server: [", want: "parse config file"},
		{name: "missing file", file: "-", want: "read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			switch tt.file {
			case "":
			case "-":
				path = filepath.Join(t.TempDir(), "absent.yaml")
			default:
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Cleanup(func() { os.Unsetenv("EDUBLOOM_DOTENV_PROBE") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("EDUBLOOM_DOTENV_PROBE=loaded\nLOG_FORMAT=json\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("EDUBLOOM_DOTENV_PROBE"))
	assert.Equal(t, "text", os.Getenv("LOG_FORMAT"), "existing variables win")

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
	assert.NoError(t, LoadDotEnv(""))
}
