// File: internal/pkg/i18n/error_messages.go
package i18n

import (
	"trip-planner/internal/pkg/xerrors"

	"golang.org/x/text/language"
)

// ErrorMessages 错误消息的多语言映射
var ErrorMessages = map[xerrors.ErrorCode]map[language.Tag]string{
	// 1xxxxx: 通用错误码
	xerrors.CodeSuccess:           {language.Chinese: "操作成功", language.English: "Operation successful"},
	xerrors.CodeInternalError:     {language.Chinese: "内部服务错误", language.English: "Internal server error"},
	xerrors.CodeInvalidParams:     {language.Chinese: "参数错误", language.English: "Invalid parameters"},
	xerrors.CodeInvalidRequest:    {language.Chinese: "请求格式错误", language.English: "Invalid request format"},
	xerrors.CodeForbidden:         {language.Chinese: "禁止访问", language.English: "Forbidden"},
	xerrors.CodeResourceNotFound:  {language.Chinese: "资源不存在", language.English: "Resource not found"},
	xerrors.CodeRateLimitExceeded: {language.Chinese: "请求频率限制", language.English: "Rate limit exceeded"},

	// 2xxxxx: 认证相关错误码
	xerrors.CodeAuthenticationFailed: {language.Chinese: "认证失败", language.English: "Authentication failed"},
	xerrors.CodeInvalidToken:         {language.Chinese: "无效令牌", language.English: "Invalid token"},
	xerrors.CodeInvalidCredentials:   {language.Chinese: "凭据无效", language.English: "Invalid credentials"},
	xerrors.CodeAccountLocked:        {language.Chinese: "账户被锁定", language.English: "Account locked"},
	xerrors.CodeSessionExpired:       {language.Chinese: "会话过期", language.English: "Session expired"},
	xerrors.CodeSessionAlreadyActive: {language.Chinese: "已存在有效会话", language.English: "Session already active"},

	// 6xxxxx: 行程业务错误码
	xerrors.CodeSuggestionPending:  {language.Chinese: "行程建议仍在生成", language.English: "Suggestion is still being prepared"},
	xerrors.CodeInvalidDateRange:   {language.Chinese: "结束日期早于开始日期", language.English: "End date is before start date"},
	xerrors.CodeDataIntegrityError: {language.Chinese: "数据完整性错误", language.English: "Data integrity error"},

	// 7xxxxx: 外部服务错误码
	xerrors.CodeExternalServiceError: {language.Chinese: "外部服务错误", language.English: "External service error"},
	xerrors.CodeKratosError:          {language.Chinese: "身份服务错误", language.English: "Identity service error"},
	xerrors.CodeCacheError:           {language.Chinese: "缓存服务错误", language.English: "Cache service error"},
	xerrors.CodeMessageQueueError:    {language.Chinese: "消息队列错误", language.English: "Message queue error"},
}

// GetErrorMessage 获取错误码对应语言的消息
func GetErrorMessage(code xerrors.ErrorCode, lang language.Tag) string {
	if messages, ok := ErrorMessages[code]; ok {
		if msg, ok := messages[lang]; ok {
			return msg
		}
		// 如果指定语言没有翻译，返回英文（默认）
		if msg, ok := messages[DefaultLanguage]; ok {
			return msg
		}
	}
	if lang == language.Chinese {
		return "未知错误"
	}
	return "Unknown error"
}
