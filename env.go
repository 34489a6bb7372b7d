package shopauth

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type envConfig struct {
	LoginPermissionID string        `env:"LOGIN_AUTH_PERMISSION"`
	InstanceURL       string        `env:"OMS_INSTANCE_URL"`
	DefaultTimeZone   string        `env:"OMS_DEFAULT_TIME_ZONE"`
	ViewSize          int           `env:"OMS_QUERY_VIEW_SIZE"`
	RedisPrefix       string        `env:"AUTHSTATE_REDIS_PREFIX"`
	AuthStateTTL      time.Duration `env:"AUTHSTATE_TTL"`
}

// ConfigFromEnv returns the default configuration overlaid with the
// deployment environment surface. LOGIN_AUTH_PERMISSION selects the gate
// permission id; leaving it unset disables the login gate.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, err
	}

	cfg.Gate.PermissionID = ec.LoginPermissionID
	if ec.InstanceURL != "" {
		cfg.Instance.URL = ec.InstanceURL
	}
	if ec.DefaultTimeZone != "" {
		cfg.Instance.DefaultTimeZone = ec.DefaultTimeZone
	}
	if ec.ViewSize > 0 {
		cfg.Query.ViewSize = ec.ViewSize
	}
	if ec.RedisPrefix != "" {
		cfg.AuthState.RedisPrefix = ec.RedisPrefix
	}
	if ec.AuthStateTTL > 0 {
		cfg.AuthState.TTL = ec.AuthStateTTL
	}

	return cfg, nil
}
