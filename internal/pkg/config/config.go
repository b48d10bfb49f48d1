// Package config 加载 trip-planner 的运行配置。
//
// 优先级: 环境变量 > TOML 配置文件 > 内置默认值。
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "TRIP_"

// EnvConfigPath 指定配置文件路径的环境变量
const EnvConfigPath = EnvPrefix + "CONFIG"

// 存储驱动
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Duration 支持 "30s" 形式的 TOML 字符串
type Duration time.Duration

// UnmarshalText 实现 encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std 转换为 time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
}

type SuggestionConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

type KratosConfig struct {
	PublicURL string `toml:"public_url"`
}

type SessionConfig struct {
	CookieName         string   `toml:"cookie_name"`
	IdentityCookieName string   `toml:"identity_cookie_name"`
	Secure             bool     `toml:"secure"`
	IdentityCacheTTL   Duration `toml:"identity_cache_ttl"`
}

type StoreConfig struct {
	Driver    string   `toml:"driver"`
	TTL       Duration `toml:"ttl"`
	SweepSpec string   `toml:"sweep"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type NATSConfig struct {
	URL string `toml:"url"`
}

// Config 服务配置
type Config struct {
	Environment string `toml:"environment"`
	LogLevel    string `toml:"log_level"`

	Server     ServerConfig     `toml:"server"`
	Suggestion SuggestionConfig `toml:"suggestion"`
	Kratos     KratosConfig     `toml:"kratos"`
	Session    SessionConfig    `toml:"session"`
	Store      StoreConfig      `toml:"store"`
	Redis      RedisConfig      `toml:"redis"`
	NATS       NATSConfig       `toml:"nats"`
}

// Default 返回内置默认配置
func Default() Config {
	return Config{
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration(15 * time.Second),
			RateLimit:       20,
			RateBurst:       40,
		},
		Suggestion: SuggestionConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: Duration(2 * time.Minute),
		},
		Kratos: KratosConfig{
			PublicURL: "http://127.0.0.1:4433",
		},
		Session: SessionConfig{
			CookieName:         "trip_sid",
			IdentityCookieName: "trip_session",
			IdentityCacheTTL:   Duration(5 * time.Minute),
		},
		Store: StoreConfig{
			Driver:    StoreMemory,
			TTL:       Duration(24 * time.Hour),
			SweepSpec: "@every 5m",
		},
		Redis: RedisConfig{
			Addr:   "127.0.0.1:6379",
			Prefix: "trip:ctx:",
		},
	}
}

// Load 读取配置文件并应用环境变量覆盖。
// path 为空时使用 TRIP_CONFIG；文件不存在时使用默认值。
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if _, err := url.ParseRequestURI(c.Suggestion.BaseURL); err != nil {
		return fmt.Errorf("suggestion.base_url: %w", err)
	}
	if c.Suggestion.Timeout <= 0 {
		return errors.New("suggestion.timeout must be positive")
	}
	if _, err := url.ParseRequestURI(c.Kratos.PublicURL); err != nil {
		return fmt.Errorf("kratos.public_url: %w", err)
	}
	if c.Session.CookieName == "" || c.Session.IdentityCookieName == "" {
		return errors.New("session cookie names are required")
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required when store.driver is redis")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}

// IsProduction 是否生产环境
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// LogFields 以扁平 key 形式导出配置，敏感项已脱敏
func (c Config) LogFields() map[string]any {
	return SanitizeConfigForLog(map[string]any{
		"environment":              c.Environment,
		"log_level":                c.LogLevel,
		"server.addr":              c.Server.Addr,
		"suggestion.base_url":      c.Suggestion.BaseURL,
		"suggestion.timeout":       c.Suggestion.Timeout.Std().String(),
		"kratos.public_url":        c.Kratos.PublicURL,
		"store.driver":             c.Store.Driver,
		"store.ttl":                c.Store.TTL.Std().String(),
		"redis.addr":               c.Redis.Addr,
		"redis.password":           c.Redis.Password,
		"nats.url":                 c.NATS.URL,
		"session.identity_cache":   c.Session.IdentityCacheTTL.Std().String(),
		"session.secure_cookies":   c.Session.Secure,
		"server.rate_limit_per_ip": c.Server.RateLimit,
	})
}
