package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
// 返回原始的 validator.ValidationErrors，由调用方按字段翻译。
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new custom validator instance
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误中的字段名使用 json 名，与表单 name 和 JSON 接口保持一致
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	registerBusinessRules(v)

	return &CustomValidator{validator: v}
}
