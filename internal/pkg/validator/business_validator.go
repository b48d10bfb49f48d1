package validator

import (
	"reflect"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// DateLayout 表单日期格式 (<input type="date">)
const DateLayout = "2006-01-02"

// registerBusinessRules 注册自定义验证规则
func registerBusinessRules(v *validator.Validate) {
	mustRegister(v, "safe_text", validateSafeText)
	mustRegister(v, "date_not_before", validateDateNotBefore)
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// validateSafeText 自由文本字段 (目的地、预算)
// 1. 长度不超过 200 字符
// 2. 不含控制字符
// 3. 不能包含脚本标签和危险内容
func validateSafeText(fl validator.FieldLevel) bool {
	text := fl.Field().String()

	if !utf8.ValidString(text) || utf8.RuneCountInString(text) > 200 {
		return false
	}

	for _, r := range text {
		if unicode.IsControl(r) {
			return false
		}
	}

	dangerousPatterns := []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"<iframe", "<object",
	}

	lowerText := strings.ToLower(text)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerText, pattern) {
			return false
		}
	}

	return true
}

// validateDateNotBefore 日期不早于参数指定的同级字段，任一为空时不校验
// 用法: `validate:"omitempty,date_not_before=StartDate"`
func validateDateNotBefore(fl validator.FieldLevel) bool {
	end := fl.Field().String()
	if end == "" {
		return true
	}

	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return false
	}
	other := parent.FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String || other.String() == "" {
		return true
	}

	from, err := time.Parse(DateLayout, other.String())
	if err != nil {
		// 起始日期自身的格式错误由它自己的规则报告
		return true
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return false
	}
	return !to.Before(from)
}
