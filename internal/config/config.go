package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process configuration, parsed from the environment.
type Config struct {
	DBPath         string        `env:"DB_PATH" envDefault:"footbase.db"`
	Addr           string        `env:"ADDR" envDefault:":8080"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1,::1"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"text"`
}

func Load() (Config, error) {
	return env.ParseAs[Config]()
}
