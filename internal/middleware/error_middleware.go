package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	"trip-planner/internal/pkg/response"
	"trip-planner/internal/pkg/validator"
	"trip-planner/internal/pkg/xerrors"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// HTMLErrorRenderer 页面请求的错误渲染函数
type HTMLErrorRenderer func(c echo.Context, status int, appErr *xerrors.AppError) error

// ErrorMiddleware 统一错误处理中间件
// /api 路径与 Accept: application/json 的请求输出 JSON 信封，其余请求渲染错误页
func ErrorMiddleware(respWriter response.Writer, renderHTML HTMLErrorRenderer, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			if c.Response().Committed {
				logger.WarnContext(c.Request().Context(), "响应已提交，忽略错误", log.Any("error", err))
				return nil
			}

			appErr := toAppError(c, err, logger)

			if renderHTML != nil && !IsAPIRequest(c) {
				status := xerrors.GetHTTPStatus(appErr.Code)
				if appErr.Level >= xerrors.LevelError {
					log.LogAppError(c.Request().Context(), "页面请求失败", appErr)
				}
				renderErr := renderHTML(c, status, appErr)
				if renderErr == nil {
					metrics.DefaultErrorMetrics.RecordError(appErr, status, metrics.SurfacePage)
					return nil
				}
				logger.ErrorContext(c.Request().Context(), "错误页渲染失败", log.Any("error", renderErr))
			}

			return respWriter.WriteError(c.Request().Context(), c.Response().Writer, appErr)
		}
	}
}

// IsAPIRequest 判断请求是否期望 JSON 响应
func IsAPIRequest(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, "/api/") {
		return true
	}
	accept := req.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}

// toAppError 将任意错误统一为 AppError
func toAppError(c echo.Context, err error, logger log.Logger) *xerrors.AppError {
	if appErr, ok := xerrors.As(err); ok {
		return appErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return convertEchoError(httpErr)
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return xerrors.FromCode(xerrors.CodeInvalidParams).
			WithMetadata("validation_errors", validator.TranslateValidationErrors(c.Request().Context(), err))
	}

	logger.ErrorContext(c.Request().Context(), "未处理的错误",
		log.Any("original_error", err),
		log.String("error_type", fmt.Sprintf("%T", err)),
	)
	return xerrors.NewWithError(xerrors.CodeInternalError, "unhandled error", err).
		WithService("echo-middleware", "error_handler")
}

// convertEchoError 将 Echo 错误转换为业务错误
func convertEchoError(echoErr *echo.HTTPError) *xerrors.AppError {
	message := fmt.Sprintf("%v", echoErr.Message)

	var appErr *xerrors.AppError
	switch echoErr.Code {
	case http.StatusBadRequest:
		appErr = xerrors.FromCode(xerrors.CodeInvalidParams)
	case http.StatusUnauthorized:
		appErr = xerrors.FromCode(xerrors.CodeAuthenticationFailed)
	case http.StatusForbidden:
		appErr = xerrors.FromCode(xerrors.CodeForbidden)
	case http.StatusNotFound:
		appErr = xerrors.FromCode(xerrors.CodeResourceNotFound)
	case http.StatusMethodNotAllowed, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		appErr = xerrors.FromCode(xerrors.CodeInvalidRequest)
	case http.StatusTooManyRequests:
		appErr = xerrors.FromCode(xerrors.CodeRateLimitExceeded)
	default:
		appErr = xerrors.FromCode(xerrors.CodeInternalError).
			WithMetadata("echo_code", echoErr.Code)
	}

	if echoErr.Internal != nil {
		appErr.Err = echoErr.Internal
	}
	return appErr.WithMetadata("echo_message", message)
}
