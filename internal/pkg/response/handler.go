// File: internal/pkg/response/handler.go
package response

import (
	"context"
	"net/http"

	"trip-planner/internal/pkg/i18n"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	"trip-planner/internal/pkg/trace"
	"trip-planner/internal/pkg/xerrors"
)

// Writer 统一的 JSON 响应写入器
type Writer interface {
	WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error
	WriteStatus(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error
	WriteError(ctx context.Context, w http.ResponseWriter, err error) error
}

// ValidationDetails 校验失败时放在 data 中的字段错误列表
type ValidationDetails struct {
	Fields any `json:"fields"`
}

// ResponseHandler Writer 的默认实现
type ResponseHandler struct {
	logger      log.Logger
	environment string
}

var _ Writer = (*ResponseHandler)(nil)

// NewResponseHandler 创建响应处理器
// 非生产环境会在 error 字段中附带底层错误，便于排查
func NewResponseHandler(logger log.Logger, environment string) *ResponseHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &ResponseHandler{logger: logger, environment: environment}
}

// WriteSuccess 200 + 成功信封
func (h *ResponseHandler) WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error {
	return h.WriteStatus(ctx, w, http.StatusOK, data)
}

// WriteStatus 指定状态码的成功信封 (如 202 Accepted)
func (h *ResponseHandler) WriteStatus(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error {
	resp := Success(&data)
	resp.Message = i18n.GetErrorMessage(xerrors.CodeSuccess, i18n.GetLanguage(ctx))
	resp.TraceId = trace.GetTraceID(ctx)
	return JSON(w, statusCode, resp)
}

// WriteError 将错误转换为 AppError 并输出失败信封
func (h *ResponseHandler) WriteError(ctx context.Context, w http.ResponseWriter, err error) error {
	appErr := xerrors.Wrap(err, xerrors.CodeInternalError, xerrors.CodeInternalError.Message())
	if appErr == nil {
		appErr = xerrors.FromCode(xerrors.CodeInternalError)
	}

	status := xerrors.GetHTTPStatus(appErr.Code)
	traceID := trace.GetTraceID(ctx)

	if appErr.Level >= xerrors.LevelError {
		log.LogAppError(ctx, "request failed", appErr)
	} else {
		h.logger.DebugContext(ctx, "request rejected", log.Any("error", appErr))
	}

	resp := Error[any](appErr.Code.ToInt(), i18n.GetErrorMessage(appErr.Code, i18n.GetLanguage(ctx)), h.errorDetail(appErr))
	resp.TraceId = traceID
	if details, ok := appErr.Metadata("validation_errors"); ok {
		var d any = ValidationDetails{Fields: details}
		resp.Data = &d
	}

	metrics.DefaultErrorMetrics.RecordError(appErr, status, metrics.SurfaceAPI)
	return JSON(w, status, resp)
}

func (h *ResponseHandler) errorDetail(appErr *xerrors.AppError) string {
	if h.environment == "production" {
		return ""
	}
	if appErr.Err != nil {
		return appErr.Err.Error()
	}
	return appErr.Message
}
