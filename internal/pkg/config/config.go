package config

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the user store: mongo, mysql, postgres or memory.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`
	BcryptCost  int    `env:"BCRYPT_COST,  default=12"`

	// TrustedProxies lists the CIDRs whose X-Forwarded-For is believed when
	// resolving the client IP. Empty means the socket peer is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Session SessionConfig
	Login   LoginConfig
	Admin   AdminConfig
	Mongo   MongoConfig
	SQL     SQLConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET"`
	CookieName string        `env:"SESSION_COOKIE,  default=portal_session"`
	MaxAge     time.Duration `env:"SESSION_MAX_AGE, default=12h"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
	Lock        time.Duration `env:"LOGIN_LOCK,         default=10m"`
}

// AdminConfig seeds an ADMIN account at startup when Username and Password
// are both set.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL, default=admin@localhost"`
	Password string `env:"ADMIN_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts_portal"`
}

type SQLConfig struct {
	DSN          string `env:"SQL_DSN"`
	MaxOpenConns int    `env:"SQL_MAX_OPEN_CONNS, default=20"`
	MaxIdleConns int    `env:"SQL_MAX_IDLE_CONNS, default=5"`
	LogLevel     string `env:"SQL_LOG_LEVEL,      default=silent"`
}

// RedisConfig enables login throttling when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "mongo", "memory":
	case "mysql", "postgres":
		if c.SQL.DSN == "" {
			return fmt.Errorf("SQL_DSN is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(strings.TrimSpace(cidr)); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: invalid CIDR %q", cidr)
		}
	}
	if c.IsProduction() && len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes in production")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from l and validates it.
func LoadFrom(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
