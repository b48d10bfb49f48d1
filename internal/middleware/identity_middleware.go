package middleware

import (
	"context"
	"net/http"

	"trip-planner/internal/pkg/ctxkey"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

const currentUserKey = "current_user"

// CurrentUser 当前请求的登录用户
type CurrentUser struct {
	IdentityID   string
	Email        string
	SessionToken string
}

// IdentityResolver 根据会话 token 解析登录用户
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, sessionToken string) (identityID, email string, err error)
}

// IdentityMiddleware 从身份 cookie 解析登录用户
// 未登录的请求照常放行；token 失效时清除 cookie
// secure 与签发 cookie 时的配置一致，浏览器不会回传该属性
func IdentityMiddleware(resolver IdentityResolver, cookieName string, secure bool, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			identityID, email, err := resolver.ResolveIdentity(ctx, cookie.Value)
			if err != nil {
				if xerrors.HasCode(err, xerrors.CodeInvalidToken) || xerrors.HasCode(err, xerrors.CodeSessionExpired) {
					ClearCookie(c, cookieName, secure)
					logger.DebugContext(ctx, "身份会话已失效，清除 cookie")
				} else {
					logger.WarnContext(ctx, "解析身份会话失败，按未登录处理", log.Any("error", err))
				}
				return next(c)
			}

			ctx = ctxkey.WithValue(ctx, ctxkey.IdentityID, identityID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(currentUserKey, &CurrentUser{
				IdentityID:   identityID,
				Email:        email,
				SessionToken: cookie.Value,
			})

			return next(c)
		}
	}
}

// GetCurrentUser 从 Echo Context 中获取当前用户，未登录时返回 nil
func GetCurrentUser(c echo.Context) *CurrentUser {
	user, _ := c.Get(currentUserKey).(*CurrentUser)
	return user
}

// ClearCookie 让浏览器删除指定 cookie
func ClearCookie(c echo.Context, name string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
