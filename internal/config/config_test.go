package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	for _, env := range []string{"HOST", "PORT", "APP_PORT", "ENVIRONMENT", "DATABASE_TYPE", "CORS_ORIGINS", "HEARTBEAT_INTERVAL"} {
		t.Setenv(env, "")
	}

	got := Load(newViper(t))

	if got.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", got.Host)
	}
	if got.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", got.Port, DefaultPort)
	}
	if got.Environment != "development" {
		t.Errorf("Environment = %q, want development", got.Environment)
	}
	if got.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", got.DatabaseType)
	}
	if got.HeartbeatInterval != DefaultHeartbeatInterval {
		t.Errorf("HeartbeatInterval = %s, want %s", got.HeartbeatInterval, DefaultHeartbeatInterval)
	}
	if got.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %s, want %s", got.ShutdownTimeout, DefaultShutdownTimeout)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_TYPE", "NONE")
	t.Setenv("HEARTBEAT_INTERVAL", "5")
	t.Setenv("CORS_ORIGINS", "https://demo.example.com, ,https://ci.example.com")

	got := Load(newViper(t))

	if got.Port != 8081 {
		t.Errorf("Port = %d, want 8081", got.Port)
	}
	if got.Environment != "production" {
		t.Errorf("Environment = %q, want production", got.Environment)
	}
	if got.DatabaseType != "none" {
		t.Errorf("DatabaseType = %q, want none", got.DatabaseType)
	}
	if got.HeartbeatInterval != 5*time.Second {
		t.Errorf("HeartbeatInterval = %s, want 5s", got.HeartbeatInterval)
	}

	wantOrigins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5000",
		"https://demo.example.com",
		"https://ci.example.com",
	}
	if diff := cmp.Diff(wantOrigins, got.AllowedOrigins); diff != "" {
		t.Errorf("AllowedOrigins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "9000")
	if got := Load(newViper(t)).Port; got != 9000 {
		t.Errorf("Port = %d, want 9000 from APP_PORT", got)
	}

	t.Setenv("PORT", "not-a-number")
	if got := Load(newViper(t)).Port; got != DefaultPort {
		t.Errorf("Port = %d, want default %d for malformed value", got, DefaultPort)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("DATABASE_PORT", "")

	path := filepath.Join(t.TempDir(), "cicd-demo.yaml")
	content := "environment: staging\nshutdown_timeout: 3s\ndatabase:\n  type: mysql\n  port: 3307\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := newViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}

	got := Load(v)
	if got.Environment != "staging" {
		t.Errorf("Environment = %q, want staging", got.Environment)
	}
	if got.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 3s", got.ShutdownTimeout)
	}
	if got.DatabaseType != "mysql" || got.DatabasePort != 3307 {
		t.Errorf("database = %s:%d, want mysql:3307", got.DatabaseType, got.DatabasePort)
	}
}

func TestAsDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"":      time.Minute,
		"250ms": 250 * time.Millisecond,
		"12":    12 * time.Second,
		"-3s":   time.Minute,
		"soon":  time.Minute,
	}
	for raw, want := range tests {
		if got := asDuration(raw, time.Minute); got != want {
			t.Errorf("asDuration(%q) = %s, want %s", raw, got, want)
		}
	}
}
