package apitest

import (
	"os"
	"testing"
)

// EnvBaseURL 指向运行中的 web-server，未设置时冒烟测试跳过
const EnvBaseURL = "TRIP_SMOKE_BASE_URL"

// Config defines runtime inputs for API tests.
type Config struct {
	BaseURL string
	// Email/Password 可选的 Kratos 测试账号
	Email    string
	Password string
}

// LoadConfig reads environment variables; skips the test when no server is configured.
func LoadConfig(t *testing.T) Config {
	t.Helper()
	cfg := Config{
		BaseURL:  getenv(EnvBaseURL, ""),
		Email:    getenv("TRIP_SMOKE_EMAIL", ""),
		Password: getenv("TRIP_SMOKE_PASSWORD", ""),
	}
	if cfg.BaseURL == "" {
		t.Skipf("%s 未设置，跳过冒烟测试", EnvBaseURL)
	}
	return cfg
}

// getenv fetches an environment variable with fallback to default value.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
