// File: internal/pkg/xerrors/kratos_errors.go
package xerrors

import "strings"

// KratosID Kratos UI 消息 ID
type KratosID int64

// 登录流程会遇到的 Kratos 消息 ID
const (
	ErrorValidation                    KratosID = 4000000
	ErrorValidationGeneric             KratosID = 4000001
	ErrorValidationRequired            KratosID = 4000002
	ErrorValidationInvalidFormat       KratosID = 4000004
	ErrorValidationInvalidCredentials  KratosID = 4000006
	ErrorValidationIdentifierMissing   KratosID = 4000009
	ErrorValidationAddressNotVerified  KratosID = 4000010
	ErrorValidationAccountNotFound     KratosID = 4000037
	ErrorValidationCaptchaError        KratosID = 4000038
	ErrorValidationLogin               KratosID = 4010000
	ErrorValidationLoginFlowExpired    KratosID = 4010001
	ErrorValidationLoginNoStrategy     KratosID = 4010002
	ErrorValidationLoginAddressUnknown KratosID = 4010010
	ErrorSystem                        KratosID = 5000000
	ErrorSystemGeneric                 KratosID = 5000001
)

// Kratos 错误 ID 到业务错误码的映射
var kratosErrorMap = map[KratosID]ErrorCode{
	ErrorValidationInvalidCredentials:  CodeInvalidCredentials,
	ErrorValidationAccountNotFound:     CodeInvalidCredentials,
	ErrorValidationLoginAddressUnknown: CodeInvalidCredentials,
	ErrorValidationAddressNotVerified:  CodeAccountLocked,
	ErrorValidationLoginFlowExpired:    CodeSessionExpired,
	ErrorValidationLoginNoStrategy:     CodeKratosError,

	ErrorValidation:                  CodeInvalidParams,
	ErrorValidationGeneric:           CodeInvalidParams,
	ErrorValidationRequired:          CodeInvalidParams,
	ErrorValidationInvalidFormat:     CodeInvalidParams,
	ErrorValidationIdentifierMissing: CodeInvalidParams,
	ErrorValidationCaptchaError:      CodeInvalidParams,
	ErrorValidationLogin:             CodeAuthenticationFailed,
	ErrorSystem:                      CodeKratosError,
	ErrorSystemGeneric:               CodeKratosError,
}

// TranslateKratosError 将 Kratos 错误 ID 转换为业务错误码和消息
func TranslateKratosError(kratosID int64) (ErrorCode, string) {
	if appCode, exists := kratosErrorMap[KratosID(kratosID)]; exists {
		return appCode, appCode.Message()
	}
	return CodeAuthenticationFailed, CodeAuthenticationFailed.Message()
}

// TranslateKratosErrorText 根据 Kratos 错误文本进行模糊匹配翻译
func TranslateKratosErrorText(errorText string) (ErrorCode, string) {
	if errorText == "" {
		return CodeAuthenticationFailed, CodeAuthenticationFailed.Message()
	}

	errorTextLower := strings.ToLower(errorText)

	// 按优先级顺序进行模式匹配
	patterns := []struct {
		keywords []string
		code     ErrorCode
	}{
		{[]string{"credentials are invalid", "invalid credentials", "wrong password", "account not found", "user not found"}, CodeInvalidCredentials},
		{[]string{"not verified"}, CodeAccountLocked},
		{[]string{"flow expired", "expired"}, CodeSessionExpired},
		{[]string{"already available", "already logged in"}, CodeSessionAlreadyActive},
		{[]string{"required", "missing", "invalid format", "malformed"}, CodeInvalidParams},
	}

	for _, pattern := range patterns {
		for _, keyword := range pattern.keywords {
			if strings.Contains(errorTextLower, keyword) {
				return pattern.code, pattern.code.Message()
			}
		}
	}

	return CodeAuthenticationFailed, CodeAuthenticationFailed.Message()
}

// GetKratosErrorPriority 获取错误的优先级（数字越小优先级越高）
func GetKratosErrorPriority(code ErrorCode) int {
	priorityMap := map[ErrorCode]int{
		CodeInvalidCredentials:   1,
		CodeAccountLocked:        2,
		CodeSessionExpired:       3,
		CodeSessionAlreadyActive: 4,
		CodeAuthenticationFailed: 10,
		CodeInvalidParams:        99,
	}

	if priority, exists := priorityMap[code]; exists {
		return priority
	}
	return 50
}
