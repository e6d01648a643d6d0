// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Client backends.
const (
	BackendREST  = "rest"
	BackendStore = "store"
)

// Session backends.
const (
	SessionFile  = "file"
	SessionRedis = "redis"
)

// Config holds every setting of the server and the command-line client.
type Config struct {
	Port      int
	DBPath    string
	StaticDir string

	LogLevel string
	LogFile  string

	// AdminEnforce turns on the server-side admin check on /api/admin.
	AdminEnforce bool
	// NameAlphabet is the regexp character class account names are drawn from.
	NameAlphabet string
	// CatalogFile optionally replaces the built-in skill catalog.
	CatalogFile string

	ClientBackend  string
	APIURL         string
	SessionBackend string
	SessionFile    string
	RedisURL       string
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "data/skill-log.db")
	v.SetDefault("static_dir", "web/dist")
	v.SetDefault("log_level", "info")
	v.SetDefault("admin_enforce", true)
	v.SetDefault("client_backend", BackendREST)
	v.SetDefault("api_url", "http://localhost:8080/api")
	v.SetDefault("session_backend", SessionFile)
	v.SetDefault("session_file", ".skill-log-session.json")
	v.SetDefault("redis_url", "redis://localhost:6379/0")

	cfg := Config{
		Port:           v.GetInt("port"),
		DBPath:         v.GetString("db_path"),
		StaticDir:      v.GetString("static_dir"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		LogFile:        v.GetString("log_file"),
		AdminEnforce:   v.GetBool("admin_enforce"),
		NameAlphabet:   v.GetString("name_alphabet"),
		CatalogFile:    v.GetString("catalog_file"),
		ClientBackend:  strings.ToLower(v.GetString("client_backend")),
		APIURL:         strings.TrimRight(v.GetString("api_url"), "/"),
		SessionBackend: strings.ToLower(v.GetString("session_backend")),
		SessionFile:    v.GetString("session_file"),
		RedisURL:       v.GetString("redis_url"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.ClientBackend != BackendREST && cfg.ClientBackend != BackendStore {
		return Config{}, fmt.Errorf("invalid CLIENT_BACKEND %q (want %s or %s)", cfg.ClientBackend, BackendREST, BackendStore)
	}
	if cfg.SessionBackend != SessionFile && cfg.SessionBackend != SessionRedis {
		return Config{}, fmt.Errorf("invalid SESSION_BACKEND %q (want %s or %s)", cfg.SessionBackend, SessionFile, SessionRedis)
	}

	return cfg, nil
}
