package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the server runtime configuration, read from config.yaml and
// overridable through APP_* environment variables. Credentials for email
// providers live in the separate settings document (see settings.go).
type Config struct {
	App struct {
		Env          string `mapstructure:"env"`
		Addr         string `mapstructure:"addr"`
		DatabaseURL  string `mapstructure:"database_url"`
		HeadersDir   string `mapstructure:"headers_dir"`
		SettingsPath string `mapstructure:"settings_path"`
	} `mapstructure:"app"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		JWTTTL    time.Duration `mapstructure:"jwt_ttl"`
	} `mapstructure:"auth"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default exists for the secret, so AutomaticEnv alone never
	// surfaces APP_AUTH_JWT_SECRET through Unmarshal.
	_ = v.BindEnv("auth.jwt_secret")

	v.SetDefault("app.env", "dev")
	v.SetDefault("app.addr", ":8080")
	v.SetDefault("app.database_url", "netrates.db")
	v.SetDefault("app.headers_dir", "headers")
	v.SetDefault("app.settings_path", "config.json")
	v.SetDefault("auth.jwt_ttl", "24h")
	v.SetDefault("metrics.enabled", true)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		// A missing config.yaml is fine; defaults plus env cover it.
		if !errors.Is(err, os.ErrNotExist) {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
