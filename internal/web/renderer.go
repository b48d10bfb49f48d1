// Package web 页面模板渲染。模板与静态资源随二进制一起嵌入。
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"trip-planner/internal/middleware"
	"trip-planner/internal/pkg/i18n"
	"trip-planner/internal/pkg/trace"
	"trip-planner/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// 页面模板名
const (
	PageLanding = "landing"
	PageResult  = "result"
	PageLogin   = "login"
	PageError   = "error"
)

var pageNames = []string{PageLanding, PageResult, PageLogin, PageError}

// Page 所有页面共享的数据
type Page struct {
	Lang    language.Tag
	Title   string
	CSRF    string
	User    *middleware.CurrentUser
	TraceID string
	// Refresh > 0 时页面每隔 Refresh 秒自动刷新
	Refresh int
	Body    any
}

// NewPage 从请求中提取语言、CSRF token 与登录用户
func NewPage(c echo.Context, titleKey string, body any) Page {
	ctx := c.Request().Context()
	return Page{
		Lang:    i18n.GetLanguage(ctx),
		Title:   i18n.T(ctx, titleKey),
		CSRF:    middleware.CSRFToken(c),
		User:    middleware.GetCurrentUser(c),
		TraceID: trace.GetTraceID(ctx),
		Body:    body,
	}
}

// Renderer 实现 echo.Renderer
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer 解析全部内嵌模板，每个页面与 layout 组成独立的模板集
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"t": func(lang language.Tag, key string, args ...any) string {
			return i18n.Translate(lang, key, args...)
		},
		"langCode": i18n.GetLanguageCode,
		// 建议文本按原样展示，仅保留换行
		"lines": func(s string) []string {
			return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render 渲染页面；先写入缓冲区，模板出错时不会输出半个页面
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return xerrors.New(xerrors.CodeInternalError, "unknown page template").WithMetadata("page", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return xerrors.NewWithError(xerrors.CodeInternalError, "render template failed", err).
			WithMetadata("page", name)
	}
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler 内嵌静态资源，挂载在 /static/ 下
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// ErrorView 错误页数据
type ErrorView struct {
	Status  int
	Code    int
	Message string
}

// ErrorPageRenderer 页面请求的错误渲染，用于 middleware.ErrorMiddleware
func ErrorPageRenderer() middleware.HTMLErrorRenderer {
	return func(c echo.Context, status int, appErr *xerrors.AppError) error {
		ctx := c.Request().Context()
		view := ErrorView{
			Status:  status,
			Code:    appErr.Code.ToInt(),
			Message: errorMessage(ctx, appErr),
		}
		page := NewPage(c, i18n.KeyErrorTitle, view)
		return c.Render(status, PageError, page)
	}
}

func errorMessage(ctx context.Context, appErr *xerrors.AppError) string {
	return i18n.GetErrorMessage(appErr.Code, i18n.GetLanguage(ctx))
}
