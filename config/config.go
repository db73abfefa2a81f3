package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config -> runtime settings. Environment first, then the optional YAML file named by
// WAITLIST_CONFIG (or --config) overrides whatever it sets.
type Config struct {
	Env              string        `yaml:"app_env"`
	Port             string        `yaml:"port"`
	GinMode          string        `yaml:"gin_mode"`
	DBDriver         string        `yaml:"db_driver"`
	DBDSN            string        `yaml:"db_dsn"`
	TransitionPolicy string        `yaml:"transition_policy"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	CORSOrigins      []string      `yaml:"cors_origins"`
	RateLimitRPS     float64       `yaml:"rate_limit_rps"`
	RateLimitBurst   int           `yaml:"rate_limit_burst"`
	MonitorInterval  time.Duration `yaml:"monitor_interval"`
	RabbitMQURL      string        `yaml:"rabbitmq_url"`
	Redis            RedisConfig   `yaml:"redis"`
	Cache            CacheConfig   `yaml:"cache"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig -> response cache for venue reads. Needs Redis, off otherwise.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	Prefix  string        `yaml:"prefix"`
}

// Load reads .env (if present), the environment and then the YAML overlay at path.
// An empty path falls back to WAITLIST_CONFIG.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:              getenv("APP_ENV", "development"),
		Port:             getenv("PORT", "8080"),
		GinMode:          getenv("GIN_MODE", "debug"),
		DBDriver:         getenv("DB_DRIVER", "sqlite"),
		DBDSN:            getenv("DB_DSN", "waitlist.db"),
		TransitionPolicy: getenv("TRANSITION_POLICY", "permissive"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "text"),
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "*")),
		RateLimitRPS:     envFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:   envInt("RATE_LIMIT_BURST", 100),
		MonitorInterval:  envDur("MONITOR_INTERVAL", time.Second),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Enabled: envBool("CACHE_ENABLED", false),
			TTL:     envDur("CACHE_TTL", 30*time.Second),
			Prefix:  getenv("CACHE_PREFIX", "waitlist"),
		},
	}

	if path == "" {
		path = os.Getenv("WAITLIST_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
