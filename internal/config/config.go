package config

import (
	// 外部依赖
	"sync"

	defaults "github.com/creasty/defaults"
)

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"genlab"`
	Service  string `mapstructure:"SERVICE" default:"genlab-api"`
	Env      string `mapstructure:"ENV" default:"dev"`
	Host     string `mapstructure:"HOST" default:"0.0.0.0"`
	Port     int    `mapstructure:"PORT" default:"8080"`
}

type Database struct {
	Host     string `mapstructure:"DATABASE_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"DATABASE_PORT" default:"5432"`
	User     string `mapstructure:"DATABASE_USER" default:"genlab"`
	Password string `mapstructure:"DATABASE_PASSWORD"`
	Name     string `mapstructure:"DATABASE_NAME" default:"genlab"`
}

type Redis struct {
	Addr     string `mapstructure:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Log struct {
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	LogPath  string `mapstructure:"LOG_PATH"`
}

type OAuth2 struct {
	ClientID     string   `mapstructure:"OAUTH2_CLIENT_ID"`
	ClientSecret string   `mapstructure:"OAUTH2_CLIENT_SECRET"`
	Scopes       []string `mapstructure:"OAUTH2_SCOPES"`
	TokenURL     string   `mapstructure:"OAUTH2_TOKEN_URL"`
	AuthURL      string   `mapstructure:"OAUTH2_AUTH_URL"`
	RedirectURL  string   `mapstructure:"OAUTH2_REDIRECT_URL"`
	UserInfoURL  string   `mapstructure:"OAUTH2_USERINFO_URL"`
}

type Config struct {
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Redis    Redis    `mapstructure:",squash"`
	Log      Log      `mapstructure:",squash"`
	OAuth2   OAuth2   `mapstructure:",squash"`
}

var (
	global *Config
	once   sync.Once
)

// Global returns the process config singleton. Values arrive from the
// environment via viper in main; defaults are applied here.
func Global() *Config {
	once.Do(func() {
		global = &Config{}
		_ = defaults.Set(global)
	})
	return global
}
