package middleware

import (
	"net/http"
	"time"

	"trip-planner/internal/pkg/ctxkey"
	"trip-planner/internal/pkg/log"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionConfig 浏览器会话 cookie 配置
type SessionConfig struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// SessionMiddleware 为每个浏览器分配会话 ID（行程上下文的 key）
// cookie 缺失或不是合法 UUID 时重新签发；写请求会顺延 cookie 有效期，与行程上下文的 TTL 保持一致
func SessionMiddleware(config SessionConfig, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if cookie, err := c.Cookie(config.CookieName); err == nil {
				if id, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = id.String()
				}
			}

			switch {
			case sessionID == "":
				sessionID = uuid.NewString()
				setSessionCookie(c, config, sessionID)
				logger.DebugContext(c.Request().Context(), "签发浏览器会话", log.String("session_id", sessionID))
			case config.MaxAge > 0 && isWriteMethod(c.Request().Method):
				setSessionCookie(c, config, sessionID)
			}

			ctx := ctxkey.WithValue(c.Request().Context(), ctxkey.SessionID, sessionID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(string(ctxkey.SessionID), sessionID)

			return next(c)
		}
	}
}

func setSessionCookie(c echo.Context, config SessionConfig, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     config.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(config.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// isWriteMethod 会写入行程上下文的请求方法
func isWriteMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// GetSessionID 从 Echo Context 中获取浏览器会话 ID
func GetSessionID(c echo.Context) string {
	if id, ok := c.Get(string(ctxkey.SessionID)).(string); ok {
		return id
	}
	return ctxkey.GetString(c.Request().Context(), ctxkey.SessionID)
}
