package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvOrDefault 获取环境变量，如果不存在则返回默认值
// 这是配置加载的核心函数：环境变量 > 默认值
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// MustGetEnv 获取环境变量，如果不存在则 panic
func MustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic("environment variable " + key + " is required but not set")
	}
	return value
}

// getEnvInt 读取整数环境变量，解析失败时保留原值
func getEnvInt(key string, current int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return current
}

func getEnvFloat(key string, current float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return current
}

func getEnvBool(key string, current bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	return current
}

func getEnvDuration(key string, current Duration) Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return Duration(v)
		}
	}
	return current
}

// applyEnvOverrides 用环境变量覆盖配置文件的值 (环境变量 > 配置文件 > 默认值)
func applyEnvOverrides(cfg *Config) {
	cfg.Environment = GetEnvOrDefault("ENVIRONMENT", cfg.Environment)
	cfg.Environment = GetEnvOrDefault(EnvPrefix+"ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = GetEnvOrDefault(EnvPrefix+"LOG_LEVEL", cfg.LogLevel)

	cfg.Server.Addr = GetEnvOrDefault(EnvPrefix+"SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.ShutdownTimeout = getEnvDuration(EnvPrefix+"SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.RateLimit = getEnvFloat(EnvPrefix+"SERVER_RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Server.RateBurst = getEnvInt(EnvPrefix+"SERVER_RATE_BURST", cfg.Server.RateBurst)

	cfg.Suggestion.BaseURL = GetEnvOrDefault(EnvPrefix+"SUGGESTION_BASE_URL", cfg.Suggestion.BaseURL)
	cfg.Suggestion.Timeout = getEnvDuration(EnvPrefix+"SUGGESTION_TIMEOUT", cfg.Suggestion.Timeout)

	cfg.Kratos.PublicURL = GetEnvOrDefault(EnvPrefix+"KRATOS_PUBLIC_URL", cfg.Kratos.PublicURL)

	cfg.Session.CookieName = GetEnvOrDefault(EnvPrefix+"SESSION_COOKIE", cfg.Session.CookieName)
	cfg.Session.IdentityCookieName = GetEnvOrDefault(EnvPrefix+"IDENTITY_COOKIE", cfg.Session.IdentityCookieName)
	cfg.Session.Secure = getEnvBool(EnvPrefix+"SESSION_SECURE", cfg.Session.Secure)
	cfg.Session.IdentityCacheTTL = getEnvDuration(EnvPrefix+"IDENTITY_CACHE_TTL", cfg.Session.IdentityCacheTTL)

	cfg.Store.Driver = GetEnvOrDefault(EnvPrefix+"STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.TTL = getEnvDuration(EnvPrefix+"STORE_TTL", cfg.Store.TTL)
	cfg.Store.SweepSpec = GetEnvOrDefault(EnvPrefix+"STORE_SWEEP", cfg.Store.SweepSpec)

	cfg.Redis.Addr = GetEnvOrDefault(EnvPrefix+"REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt(EnvPrefix+"REDIS_DB", cfg.Redis.DB)

	cfg.NATS.URL = GetEnvOrDefault(EnvPrefix+"NATS_URL", cfg.NATS.URL)
}

// SanitizeConfigForLog 清理配置中的敏感信息，用于日志输出
func SanitizeConfigForLog(config map[string]any) map[string]any {
	sanitized := make(map[string]any)
	for k, v := range config {
		if isSensitiveKey(k) {
			sanitized[k] = "***REDACTED***"
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

// isSensitiveKey 判断是否是敏感配置项
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	sensitiveKeywords := []string{
		"password", "secret", "token", "credential", "private", "api_key",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}
