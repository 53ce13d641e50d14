package config

import (
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreDriver != "mongo" || cfg.BcryptCost != 12 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Login.MaxAttempts != 5 || cfg.Login.Window != 15*time.Minute || cfg.Login.Lock != 10*time.Minute {
		t.Fatalf("unexpected login defaults: %+v", cfg.Login)
	}
	if cfg.Session.CookieName != "portal_session" {
		t.Fatalf("unexpected cookie name %q", cfg.Session.CookieName)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER": "postgres",
		"SQL_DSN":      "postgres://u:p@localhost/db",
		"BCRYPT_COST":  "10",
		"LOGIN_LOCK":   "1m",
		"REDIS_ADDR":   "localhost:6379",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != "postgres" || cfg.BcryptCost != 10 || cfg.Login.Lock != time.Minute || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":     {"STORE_DRIVER": "sqlite"},
		"sql without dsn":    {"STORE_DRIVER": "mysql"},
		"short prod secret":  {"ENV": "production", "SESSION_SECRET": "short"},
		"malformed duration": {"LOGIN_WINDOW": "soon"},
		"bad proxy cidr":     {"TRUSTED_PROXIES": "10.0.0.0/8,proxy.local"},
	}
	for name, env := range cases {
		if _, err := LoadFrom(envconfig.MapLookuper(env)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadFrom_TrustedProxies(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{
		"TRUSTED_PROXIES": "10.0.0.0/8,192.168.1.0/24",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "192.168.1.0/24" {
		t.Fatalf("unexpected proxies: %v", cfg.TrustedProxies)
	}
}
