package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trip-planner/internal/pkg/i18n"

	"github.com/go-playground/validator/v10"
)

// ValidationError 验证错误详情
type ValidationError struct {
	Field   string `json:"field"`           // 字段名
	Message string `json:"message"`         // 错误消息
	Tag     string `json:"tag"`             // 验证标签（如：required, email）
	Value   string `json:"value,omitempty"` // 实际值（脱敏后）
}

// fieldLabelKeys 字段名 -> 文案 key
var fieldLabelKeys = map[string]string{
	"transportation": i18n.KeyTransportLabel,
	"hotel":          i18n.KeyHotelLabel,
	"location":       i18n.KeyLocationLabel,
	"budget":         i18n.KeyBudgetLabel,
	"traveller":      i18n.KeyTravellerLabel,
	"date":           i18n.KeyDateLabel,
	"startDate":      i18n.KeyDateFrom,
	"endDate":        i18n.KeyDateTo,
	"from":           i18n.KeyDateFrom,
	"to":             i18n.KeyDateTo,
	"email":          i18n.KeyLoginEmail,
	"password":       i18n.KeyLoginPassword,
}

// TranslateValidationErrors 翻译所有验证错误（返回详细列表）
func TranslateValidationErrors(ctx context.Context, err error) []ValidationError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// 非 validator 错误，返回通用错误
		return []ValidationError{
			{
				Field:   "request",
				Message: err.Error(),
				Tag:     "unknown",
			},
		}
	}

	result := make([]ValidationError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		result = append(result, ValidationError{
			Field:   fieldErr.Field(),
			Message: translateFieldError(ctx, fieldErr),
			Tag:     fieldErr.Tag(),
			Value:   sanitizeValue(fieldErr.Field(), fieldErr.Value()),
		})
	}

	return result
}

// FieldMessages 每个字段的第一条错误消息，供页面表单逐字段展示
func FieldMessages(ctx context.Context, err error) map[string]string {
	messages := make(map[string]string)
	for _, ve := range TranslateValidationErrors(ctx, err) {
		if _, exists := messages[ve.Field]; !exists {
			messages[ve.Field] = ve.Message
		}
	}
	return messages
}

const maxValueRunes = 50

// sanitizeValue 脱敏敏感值（避免在错误消息中泄露密码等）
func sanitizeValue(field string, value interface{}) string {
	if value == nil || strings.Contains(strings.ToLower(field), "password") {
		return ""
	}

	strValue := fmt.Sprintf("%v", value)
	if runes := []rune(strValue); len(runes) > maxValueRunes {
		return string(runes[:maxValueRunes]) + "..."
	}
	return strValue
}

// translateFieldError 翻译单个字段验证错误
func translateFieldError(ctx context.Context, fe validator.FieldError) string {
	field := FieldLabel(ctx, fe.Field())

	switch fe.Tag() {
	case "required":
		return i18n.T(ctx, i18n.KeyFieldRequired, field)
	case "email":
		return i18n.T(ctx, i18n.KeyFieldEmail, field)
	case "min":
		return i18n.T(ctx, i18n.KeyFieldMin, field, fe.Param())
	case "max":
		return i18n.T(ctx, i18n.KeyFieldMax, field, fe.Param())
	case "oneof":
		return i18n.T(ctx, i18n.KeyFieldOneOf, field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "date_not_before":
		return i18n.T(ctx, i18n.KeyFieldAfter, field, FieldLabel(ctx, lowerFirst(fe.Param())))
	default:
		return i18n.T(ctx, i18n.KeyFieldInvalid, field)
	}
}

// FieldLabel 返回字段的本地化名称
func FieldLabel(ctx context.Context, field string) string {
	if key, ok := fieldLabelKeys[field]; ok {
		return i18n.T(ctx, key)
	}
	return smartConvertFieldName(field)
}

// smartConvertFieldName 驼峰字段名转为以空格分隔的名称
// 例如: startDate -> Start Date
func smartConvertFieldName(field string) string {
	var result strings.Builder
	for i, r := range field {
		if i == 0 {
			result.WriteString(strings.ToUpper(string(r)))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
