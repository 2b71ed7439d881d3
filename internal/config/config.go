// Package config loads server configuration from an optional YAML file and
// BE_-prefixed environment variables. Every knob has a default, so the
// server starts with no config at all.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Picks       PicksConfig       `mapstructure:"picks"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	// Path of the SQLite database file backing the key-value store.
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// CredentialsConfig holds the one fixed pair per sign-in surface.
type CredentialsConfig struct {
	UserName      string `mapstructure:"user_name"`
	UserPassword  string `mapstructure:"user_password"`
	AdminName     string `mapstructure:"admin_name"`
	AdminPassword string `mapstructure:"admin_password"`
}

// PicksConfig controls the optional pick-counter rollover job. With
// rollover disabled (the default) counters never reset: the free "weekly"
// and paid "daily" limits are effectively lifetime ceilings.
type PicksConfig struct {
	Rollover     bool   `mapstructure:"rollover"`
	FreeSchedule string `mapstructure:"free_schedule"`
	PaidSchedule string `mapstructure:"paid_schedule"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty) merged with BE_-prefixed environment variables, e.g.
// BE_SERVER_ADDR or BE_AUTH_JWT_SECRET.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.path", "breakout-edge.db")
	v.SetDefault("auth.jwt_secret", "dev-secret-change-me-in-prod!!")
	v.SetDefault("credentials.user_name", "login")
	v.SetDefault("credentials.user_password", "123")
	v.SetDefault("credentials.admin_name", "admin")
	v.SetDefault("credentials.admin_password", "123")
	v.SetDefault("picks.rollover", false)
	v.SetDefault("picks.free_schedule", "0 0 * * 1") // Mondays at midnight
	v.SetDefault("picks.paid_schedule", "0 0 * * *") // every midnight
	v.SetDefault("log.level", "info")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			// A missing file is fine; a malformed one is not. Viper
			// reports a missing explicit path as a bare *os.PathError,
			// not as ConfigFileNotFoundError (that one is only for
			// config-path searches), so both are checked.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
