package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trip-planner/internal/pkg/i18n"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/trace"
	"trip-planner/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	TraceID string          `json:"trace_id"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newContext(ctx context.Context) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEchoOK(t *testing.T) {
	ctx := trace.WithTraceID(context.Background(), "trace-ok")
	c, rec := newContext(ctx)
	h := NewResponseHandler(log.GetLogger(), "test")

	require.NoError(t, EchoOK(c, h, map[string]string{"state": "idle"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, xerrors.CodeSuccess.ToInt(), env.Code)
	assert.Equal(t, "trace-ok", env.TraceID)
	assert.JSONEq(t, `{"state":"idle"}`, string(env.Data))
}

func TestEchoAccepted(t *testing.T) {
	c, rec := newContext(context.Background())
	h := NewResponseHandler(log.GetLogger(), "test")

	require.NoError(t, EchoAccepted(c, h, map[string]string{"request_id": "r1"}))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestEchoError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		lang       language.Tag
		wantStatus int
		wantCode   xerrors.ErrorCode
		wantMsg    string
	}{
		{
			name:       "业务错误保留错误码",
			err:        xerrors.FromCode(xerrors.CodeInvalidCredentials),
			lang:       language.English,
			wantStatus: http.StatusUnauthorized,
			wantCode:   xerrors.CodeInvalidCredentials,
			wantMsg:    "Invalid credentials",
		},
		{
			name:       "普通错误转为内部错误",
			err:        errors.New("boom"),
			lang:       language.English,
			wantStatus: http.StatusInternalServerError,
			wantCode:   xerrors.CodeInternalError,
			wantMsg:    "Internal server error",
		},
		{
			name:       "按语言返回消息",
			err:        xerrors.FromCode(xerrors.CodeInvalidParams),
			lang:       language.Chinese,
			wantStatus: http.StatusBadRequest,
			wantCode:   xerrors.CodeInvalidParams,
			wantMsg:    "参数错误",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(i18n.WithLanguage(context.Background(), tt.lang))
			h := NewResponseHandler(log.GetLogger(), "test")

			require.NoError(t, EchoError(c, h, tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, tt.wantCode.ToInt(), env.Code)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestEchoError_ValidationDetails(t *testing.T) {
	c, rec := newContext(context.Background())
	h := NewResponseHandler(log.GetLogger(), "production")

	err := xerrors.FromCode(xerrors.CodeInvalidParams).
		WithMetadata("validation_errors", []map[string]string{{"field": "hotel"}})
	require.NoError(t, EchoError(c, h, err))

	env := decode(t, rec)
	assert.JSONEq(t, `{"fields":[{"field":"hotel"}]}`, string(env.Data))
	// 生产环境不暴露错误详情
	assert.Empty(t, env.Error)
}
