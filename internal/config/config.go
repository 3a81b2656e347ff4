package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	HostKey              = "host"
	PortKey              = "port"
	EnvironmentKey       = "environment"
	DatabaseTypeKey      = "database.type"
	SQLitePathKey        = "database.sqlite_path"
	DatabaseHostKey      = "database.host"
	DatabasePortKey      = "database.port"
	DatabaseNameKey      = "database.name"
	DatabaseUserKey      = "database.user"
	DatabasePasswordKey  = "database.password"
	CORSOriginsKey       = "cors.origins"
	HeartbeatIntervalKey = "heartbeat_interval"
	ShutdownTimeoutKey   = "shutdown_timeout"

	LogLevelKey   = "log.level"
	LogFormatKey  = "log.format"
	LogNoColorKey = "log.no_color"
)

const (
	DefaultPort              = 5000
	DefaultEnvironment       = "development"
	DefaultDatabasePort      = 3306
	DefaultHeartbeatInterval = 25 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
)

// Settings holds runtime configuration resolved from flags, environment and
// the optional config file.
type Settings struct {
	Host              string
	Port              int
	Environment       string
	DatabaseType      string
	SQLiteDBPath      string
	DatabaseHost      string
	DatabasePort      int
	DatabaseName      string
	DatabaseUser      string
	DatabasePassword  string
	AllowedOrigins    []string
	HeartbeatInterval time.Duration
	ShutdownTimeout   time.Duration
}

// SetDefaults registers defaults and environment variable names on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(HostKey, "0.0.0.0")
	v.SetDefault(EnvironmentKey, DefaultEnvironment)
	v.SetDefault(DatabaseTypeKey, "sqlite")
	v.SetDefault(SQLitePathKey, "cicd-demo.db")
	v.SetDefault(DatabaseHostKey, "localhost")
	v.SetDefault(DatabaseNameKey, "cicd_demo")
	v.SetDefault(DatabaseUserKey, "cicd_demo")
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault(LogFormatKey, "console")

	bindEnv(v, HostKey, "HOST")
	bindEnv(v, PortKey, "PORT", "APP_PORT")
	bindEnv(v, EnvironmentKey, "ENVIRONMENT")
	bindEnv(v, DatabaseTypeKey, "DATABASE_TYPE")
	bindEnv(v, SQLitePathKey, "SQLITE_DB_PATH")
	bindEnv(v, DatabaseHostKey, "DATABASE_HOST")
	bindEnv(v, DatabasePortKey, "DATABASE_PORT")
	bindEnv(v, DatabaseNameKey, "DATABASE_NAME")
	bindEnv(v, DatabaseUserKey, "DATABASE_USER")
	bindEnv(v, DatabasePasswordKey, "DATABASE_PASSWORD")
	bindEnv(v, CORSOriginsKey, "CORS_ORIGINS")
	bindEnv(v, HeartbeatIntervalKey, "HEARTBEAT_INTERVAL")
	bindEnv(v, ShutdownTimeoutKey, "SHUTDOWN_TIMEOUT")
	bindEnv(v, LogLevelKey, "LOG_LEVEL")
	bindEnv(v, LogFormatKey, "LOG_FORMAT")
	bindEnv(v, LogNoColorKey, "NO_COLOR")
}

func Load(v *viper.Viper) Settings {
	return Settings{
		Host:              firstNonEmpty(v.GetString(HostKey), "0.0.0.0"),
		Port:              asInt(v.GetString(PortKey), DefaultPort),
		Environment:       firstNonEmpty(v.GetString(EnvironmentKey), DefaultEnvironment),
		DatabaseType:      strings.ToLower(firstNonEmpty(v.GetString(DatabaseTypeKey), "sqlite")),
		SQLiteDBPath:      firstNonEmpty(v.GetString(SQLitePathKey), "cicd-demo.db"),
		DatabaseHost:      firstNonEmpty(v.GetString(DatabaseHostKey), "localhost"),
		DatabasePort:      asInt(v.GetString(DatabasePortKey), DefaultDatabasePort),
		DatabaseName:      firstNonEmpty(v.GetString(DatabaseNameKey), "cicd_demo"),
		DatabaseUser:      firstNonEmpty(v.GetString(DatabaseUserKey), "cicd_demo"),
		DatabasePassword:  v.GetString(DatabasePasswordKey),
		AllowedOrigins:    loadAllowedOrigins(v.GetString(CORSOriginsKey)),
		HeartbeatInterval: asDuration(v.GetString(HeartbeatIntervalKey), DefaultHeartbeatInterval),
		ShutdownTimeout:   asDuration(v.GetString(ShutdownTimeoutKey), DefaultShutdownTimeout),
	}
}

func bindEnv(v *viper.Viper, key string, envs ...string) {
	_ = v.BindEnv(append([]string{key}, envs...)...)
}

func loadAllowedOrigins(extra string) []string {
	origins := []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5000"}
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return origins
	}

	for _, item := range strings.Split(extra, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		origins = append(origins, item)
	}
	return origins
}

func asInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// asDuration accepts Go duration strings ("30s") or a bare number of seconds.
func asDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
