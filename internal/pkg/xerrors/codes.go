// File: internal/pkg/xerrors/codes.go
package xerrors

import "fmt"

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (undefined)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "unknown error"
}

// ToInt 转换为 int（用于 JSON 序列化等场景）
func (c ErrorCode) ToInt() int {
	return int(c)
}

// -----------------------------------------------------------------------------
// 业务错误码统一定义
// 按模块或领域对错误码进行分段，便于管理。
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess           ErrorCode = 100000 // 操作成功
	CodeInternalError     ErrorCode = 100001 // 内部服务错误
	CodeInvalidParams     ErrorCode = 100002 // 参数错误
	CodeInvalidRequest    ErrorCode = 100003 // 请求格式错误
	CodeForbidden         ErrorCode = 100403 // 禁止访问 (CSRF 校验失败等)
	CodeResourceNotFound  ErrorCode = 100404 // 资源不存在
	CodeRateLimitExceeded ErrorCode = 100429 // 请求频率限制

	// 2xxxxx: 认证相关错误码
	CodeAuthenticationFailed ErrorCode = 200001 // 认证失败
	CodeInvalidToken         ErrorCode = 200002 // 无效令牌
	CodeInvalidCredentials   ErrorCode = 200004 // 凭据无效
	CodeAccountLocked        ErrorCode = 200005 // 账户被锁定
	CodeSessionExpired       ErrorCode = 200007 // 会话过期
	CodeSessionAlreadyActive ErrorCode = 200008 // 已存在有效会话

	// 6xxxxx: 行程业务错误码
	CodeSuggestionPending  ErrorCode = 600101 // 行程建议仍在生成
	CodeInvalidDateRange   ErrorCode = 600103 // 日期区间无效
	CodeDataIntegrityError ErrorCode = 600002 // 数据完整性错误

	// 7xxxxx: 外部服务错误码
	CodeExternalServiceError ErrorCode = 700001 // 外部服务错误
	CodeKratosError          ErrorCode = 700002 // Kratos服务错误
	CodeCacheError           ErrorCode = 700004 // 缓存服务错误
	CodeMessageQueueError    ErrorCode = 700005 // 消息队列错误
)

// -----------------------------------------------------------------------------
// HTTP 状态码常量定义
// -----------------------------------------------------------------------------
const (
	HTTPStatusOK       = 200 // 请求成功
	HTTPStatusAccepted = 202 // 请求已接受但未处理

	HTTPStatusBadRequest          = 400 // 错误请求
	HTTPStatusUnauthorized        = 401 // 未经授权
	HTTPStatusForbidden           = 403 // 禁止访问
	HTTPStatusNotFound            = 404 // 资源未找到
	HTTPStatusConflict            = 409 // 资源冲突
	HTTPStatusUnprocessableEntity = 422 // 无法处理的实体
	HTTPStatusTooManyRequests     = 429 // 请求过多

	HTTPStatusInternalServerError = 500 // 内部服务器错误
	HTTPStatusBadGateway          = 502 // 错误网关
	HTTPStatusServiceUnavailable  = 503 // 服务不可用
)

// -----------------------------------------------------------------------------
// 错误消息映射
// -----------------------------------------------------------------------------
var codeMessages = map[ErrorCode]string{
	CodeSuccess:           "ok",
	CodeInternalError:     "internal server error",
	CodeInvalidParams:     "invalid parameters",
	CodeInvalidRequest:    "malformed request",
	CodeForbidden:         "forbidden",
	CodeResourceNotFound:  "resource not found",
	CodeRateLimitExceeded: "too many requests",

	CodeAuthenticationFailed: "authentication failed",
	CodeInvalidToken:         "invalid session token",
	CodeInvalidCredentials:   "invalid credentials",
	CodeAccountLocked:        "account locked",
	CodeSessionExpired:       "session expired",
	CodeSessionAlreadyActive: "session already active",

	CodeSuggestionPending:  "suggestion is still being prepared",
	CodeInvalidDateRange:   "end date is before start date",
	CodeDataIntegrityError: "data integrity error",

	CodeExternalServiceError: "external service error",
	CodeKratosError:          "identity provider error",
	CodeCacheError:           "cache service error",
	CodeMessageQueueError:    "message queue error",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码
func GetHTTPStatus(code ErrorCode) int {
	switch {
	case code == CodeSuccess:
		return HTTPStatusOK
	case code >= 200000 && code < 300000:
		if code == CodeSessionAlreadyActive {
			return HTTPStatusConflict
		}
		if code == CodeAccountLocked {
			return HTTPStatusForbidden
		}
		return HTTPStatusUnauthorized
	case code == CodeForbidden:
		return HTTPStatusForbidden
	case code == CodeResourceNotFound:
		return HTTPStatusNotFound
	case code == CodeInvalidParams || code == CodeInvalidRequest:
		return HTTPStatusBadRequest
	case code == CodeRateLimitExceeded:
		return HTTPStatusTooManyRequests
	case code == CodeSuggestionPending:
		return HTTPStatusAccepted
	case code >= 600000 && code < 700000:
		return HTTPStatusUnprocessableEntity
	case code == CodeExternalServiceError:
		return HTTPStatusBadGateway
	case code >= 700000:
		return HTTPStatusServiceUnavailable
	default:
		return HTTPStatusInternalServerError
	}
}

// 辅助函数
// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 200000 && code < 300000:
		return "authentication"
	case code >= 600000 && code < 700000:
		return "trip"
	case code >= 700000 && code < 800000:
		return "external"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code >= 100002 && code <= 100003: // 参数错误等
		return LevelWarn
	case code == CodeForbidden || code == CodeResourceNotFound || code == CodeRateLimitExceeded:
		return LevelWarn
	case code >= 200000 && code < 300000:
		return LevelWarn
	case code >= 700001: // 外部服务错误
		return LevelCritical
	default:
		return LevelError
	}
}

// isRetryableByCode 根据错误码判断是否可重试
func isRetryableByCode(code ErrorCode) bool {
	retryableCodes := map[ErrorCode]bool{
		CodeInternalError:        true,
		CodeExternalServiceError: true,
		CodeKratosError:          true,
		CodeCacheError:           true,
		CodeMessageQueueError:    true,
		CodeRateLimitExceeded:    true,
	}
	return retryableCodes[code]
}
