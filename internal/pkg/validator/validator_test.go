package validator

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"trip-planner/internal/pkg/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type tripInput struct {
	Transportation string `json:"transportation" validate:"required,oneof=publicTransit rent personalVehicle"`
	Location       string `json:"location" validate:"required,safe_text"`
	StartDate      string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate        string `json:"endDate" validate:"omitempty,datetime=2006-01-02,date_not_before=StartDate"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(&tripInput{
		Transportation: "rent",
		Location:       "Montreal, Canada",
		StartDate:      "2024-06-01",
		EndDate:        "2024-06-01",
	})
	assert.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	v := New()
	ctx := context.Background()

	err := v.Validate(&tripInput{
		Transportation: "boat",
		Location:       "",
		StartDate:      "2024-06-10",
		EndDate:        "2024-06-01",
	})
	require.Error(t, err)

	messages := FieldMessages(ctx, err)
	assert.Equal(t, "Transportation must be one of: publicTransit, rent, personalVehicle", messages["transportation"])
	assert.Equal(t, "Location is required", messages["location"])
	assert.Equal(t, "To must not be before From", messages["endDate"])
	assert.NotContains(t, messages, "startDate")
}

func TestValidate_SafeText(t *testing.T) {
	v := New()
	err := v.Validate(&tripInput{
		Transportation: "rent",
		Location:       "<script>alert(1)</script>",
	})
	require.Error(t, err)

	list := TranslateValidationErrors(context.Background(), err)
	require.Len(t, list, 1)
	assert.Equal(t, "location", list[0].Field)
	assert.Equal(t, "safe_text", list[0].Tag)
}

func TestValidate_LoginLocalized(t *testing.T) {
	v := New()
	ctx := i18n.WithLanguage(context.Background(), language.Chinese)

	err := v.Validate(&loginInput{Email: "not-an-email", Password: "123"})
	require.Error(t, err)

	list := TranslateValidationErrors(ctx, err)
	require.Len(t, list, 2)
	assert.Equal(t, "邮箱必须是有效的邮箱地址", list[0].Message)
	assert.Equal(t, "密码长度不能少于6个字符", list[1].Message)
	// 密码值不得出现在错误详情里
	assert.Empty(t, list[1].Value)
}

func TestTranslateValidationErrors_NonValidatorError(t *testing.T) {
	list := TranslateValidationErrors(context.Background(), assert.AnError)
	require.Len(t, list, 1)
	assert.Equal(t, "request", list[0].Field)
}

func TestSmartConvertFieldName(t *testing.T) {
	assert.Equal(t, "Start Date", smartConvertFieldName("startDate"))
	assert.Equal(t, "Budget", smartConvertFieldName("budget"))
}

func TestSanitizeValue(t *testing.T) {
	assert.Empty(t, sanitizeValue("Password", "s3cret-pass"))
	assert.Empty(t, sanitizeValue("Location", nil))
	assert.Equal(t, "Kyoto", sanitizeValue("Location", "Kyoto"))

	// 按字符截断，中文不会被截成非法 UTF-8
	long := strings.Repeat("京", maxValueRunes+5)
	got := sanitizeValue("Location", long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("京", maxValueRunes)+"...", got)
}
