package middleware

import (
	"fmt"
	"runtime/debug"

	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

// RecoveryMiddleware 恢复中间件
// panic 转换为 500 AppError，交由 ErrorMiddleware 统一输出
func RecoveryMiddleware(logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ctx := c.Request().Context()

					// 记录 panic 信息
					logger.ErrorContext(ctx, "应用程序 panic",
						log.Any("panic_value", r),
						log.String("path", c.Request().URL.Path),
						log.String("method", c.Request().Method),
						log.String("stack", string(debug.Stack())),
					)

					err = xerrors.FromCode(xerrors.CodeInternalError).
						WithService("echo-middleware", "recovery").
						WithMetadata("panic_value", fmt.Sprintf("%v", r))
				}
			}()

			return next(c)
		}
	}
}
