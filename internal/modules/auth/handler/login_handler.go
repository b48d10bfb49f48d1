package handler

import (
	"net/http"
	"strings"

	"trip-planner/internal/middleware"
	"trip-planner/internal/modules/auth/service"
	"trip-planner/internal/pkg/i18n"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/validator"
	"trip-planner/internal/pkg/xerrors"
	"trip-planner/internal/web"

	"github.com/labstack/echo/v4"
)

// 提示框类型
const (
	AlertSuccess = "success"
	AlertError   = "error"
)

// LoginForm 登录表单
type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"traveller@example.com"`
	Password string `json:"password" form:"password" validate:"required,min=6" example:"s3cret-pass"`
}

// AlertState 登录页提示框，只在本次渲染中存在
type AlertState struct {
	Kind    string
	Title   string
	Message string
}

// LoginView 登录页数据
type LoginView struct {
	Email  string
	Errors map[string]string
	Alert  *AlertState
}

// CookieConfig 身份 cookie 配置
type CookieConfig struct {
	Name   string
	Secure bool
}

// LoginHandler 登录 / 登出
type LoginHandler struct {
	service *service.AuthService
	cookie  CookieConfig
	logger  log.Logger
}

// NewLoginHandler 创建登录 Handler
func NewLoginHandler(svc *service.AuthService, cookie CookieConfig, logger log.Logger) *LoginHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &LoginHandler{
		service: svc,
		cookie:  cookie,
		logger:  logger.With("component", "login_handler"),
	}
}

// LoginPage 登录页
func (h *LoginHandler) LoginPage(c echo.Context) error {
	return h.render(c, http.StatusOK, LoginView{})
}

// Login 提交登录
// 校验失败 422 且不访问身份服务；认证失败 401 并显示通用错误提示
func (h *LoginHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var form LoginForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	form.Email = strings.TrimSpace(form.Email)

	if err := c.Validate(&form); err != nil {
		return h.render(c, http.StatusUnprocessableEntity, LoginView{
			Email:  form.Email,
			Errors: validator.FieldMessages(ctx, err),
		})
	}

	out, err := h.service.Login(ctx, service.LoginInput{Email: form.Email, Password: form.Password})
	if err != nil {
		// 身份服务的具体原因只写日志
		if appErr, ok := xerrors.As(err); ok {
			log.LogAppError(ctx, "登录失败", appErr)
		} else {
			h.logger.WarnContext(ctx, "登录失败", log.Any("error", err))
		}
		return h.render(c, http.StatusUnauthorized, LoginView{
			Email: form.Email,
			Alert: &AlertState{
				Kind:    AlertError,
				Title:   i18n.T(ctx, i18n.KeyAlertErrorTitle),
				Message: i18n.T(ctx, i18n.KeyAlertErrorMessage),
			},
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    out.SessionToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout 登出，身份服务失败时仍清除本地 cookie
func (h *LoginHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if user := middleware.GetCurrentUser(c); user != nil {
		if err := h.service.Logout(ctx, user.SessionToken); err != nil {
			h.logger.WarnContext(ctx, "撤销会话失败", log.Any("error", err))
		}
	} else if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if err := h.service.Logout(ctx, cookie.Value); err != nil {
			h.logger.WarnContext(ctx, "撤销会话失败", log.Any("error", err))
		}
	}

	middleware.ClearCookie(c, h.cookie.Name, h.cookie.Secure)
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *LoginHandler) render(c echo.Context, status int, view LoginView) error {
	if view.Errors == nil {
		view.Errors = map[string]string{}
	}
	return c.Render(status, web.PageLogin, web.NewPage(c, i18n.KeyLoginTitle, view))
}

// RegisterRoutes 注册登录相关路由
func RegisterRoutes(e *echo.Echo, h *LoginHandler) {
	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.POST("/logout", h.Logout)
}
