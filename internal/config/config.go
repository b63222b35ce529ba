package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	UpstreamBaseURL     string
	UpstreamTimeoutSecs int

	// "sqlite" (embedded cache file) or "mysql" (shared cache).
	CacheDriver string
	SQLitePath  string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs      int
	FraudCacheTTLSecs int
	OTPCooldownSecs   int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort: getenv("APP_PORT", "8080"),

		UpstreamBaseURL:     getenv("UPSTREAM_BASE_URL", "http://localhost:9000"),
		UpstreamTimeoutSecs: getenvInt("UPSTREAM_TIMEOUT_SECONDS", 15),

		CacheDriver: getenv("CACHE_DRIVER", "sqlite"),
		SQLitePath:  getenv("SQLITE_PATH", "loantrack.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loantrack"),
		MySQLUser: getenv("MYSQL_USER", "loantrack"),
		MySQLPass: getenv("MYSQL_PASS", "loantrack"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs:      getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		FraudCacheTTLSecs: getenvInt("FRAUD_CACHE_TTL_SECONDS", 1800),
		OTPCooldownSecs:   getenvInt("OTP_COOLDOWN_SECONDS", 60),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.UpstreamBaseURL == "" {
		return errors.New("missing UPSTREAM_BASE_URL")
	}
	switch c.CacheDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
