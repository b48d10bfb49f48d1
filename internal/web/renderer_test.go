package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"trip-planner/internal/middleware"
	"trip-planner/internal/pkg/i18n"
	"trip-planner/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type alertView struct {
	Kind    string
	Title   string
	Message string
}

type loginView struct {
	Email  string
	Errors map[string]string
	Alert  *alertView
}

func newContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = r
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestNewRenderer_ParsesAllPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	for _, name := range pageNames {
		assert.Contains(t, r.pages, name)
	}
}

func TestRender_UnknownPage(t *testing.T) {
	c, _ := newContext(t, "/")
	var buf bytes.Buffer
	err := c.Echo().Renderer.Render(&buf, "nope", Page{}, c)
	require.Error(t, err)
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInternalError))
	assert.Zero(t, buf.Len())
}

func TestRender_LoginErrorAlert(t *testing.T) {
	c, rec := newContext(t, "/login")
	page := NewPage(c, i18n.KeyLoginTitle, loginView{
		Email:  "traveller@example.com",
		Errors: map[string]string{},
		Alert:  &alertView{Kind: "error", Title: "Error", Message: "Invalid email or password. Please try again."},
	})
	page.CSRF = "token-123"

	require.NoError(t, c.Render(http.StatusUnauthorized, PageLogin, page))

	body := rec.Body.String()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body, `data-kind="error"`)
	assert.Contains(t, body, "Continue the journey with us here.")
	assert.Contains(t, body, `value="traveller@example.com"`)
	assert.Contains(t, body, `value="token-123"`)
	// 未登录时显示登录入口
	assert.Contains(t, body, `href="/login"`)
}

func TestRender_LoggedInShowsLogout(t *testing.T) {
	c, rec := newContext(t, "/login")
	page := NewPage(c, i18n.KeyLoginTitle, loginView{})
	page.User = &middleware.CurrentUser{IdentityID: "id-1", Email: "me@example.com"}

	require.NoError(t, c.Render(http.StatusOK, PageLogin, page))

	body := rec.Body.String()
	assert.Contains(t, body, "me@example.com")
	assert.Contains(t, body, `action="/logout"`)
	assert.NotContains(t, body, `data-kind=`)
}

func TestRender_EscapesUserInput(t *testing.T) {
	c, rec := newContext(t, "/login")
	page := NewPage(c, i18n.KeyLoginTitle, loginView{Email: `"><script>alert(1)</script>`})

	require.NoError(t, c.Render(http.StatusOK, PageLogin, page))

	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

func TestErrorPageRenderer_Localized(t *testing.T) {
	c, rec := newContext(t, "/missing")
	ctx := i18n.WithLanguage(c.Request().Context(), language.Chinese)
	c.SetRequest(c.Request().WithContext(ctx))

	render := ErrorPageRenderer()
	require.NoError(t, render(c, http.StatusNotFound, xerrors.FromCode(xerrors.CodeResourceNotFound)))

	body := rec.Body.String()
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body, `data-code="100404"`)
	assert.Contains(t, body, "返回首页")
	assert.Contains(t, body, `lang="zh"`)
}

func TestStaticHandler_ServesCSS(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".suggestion.scroll")
}
