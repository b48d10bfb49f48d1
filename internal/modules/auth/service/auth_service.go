package service

import (
	"context"
	"strings"
	"time"

	"trip-planner/internal/middleware"
	"trip-planner/internal/modules/auth/client"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	"trip-planner/internal/pkg/notify"
	"trip-planner/internal/pkg/sessioncache"
	"trip-planner/internal/pkg/xerrors"
)

// 登录结果标签
const (
	outcomeSuccess = "success"
	outcomeDenied  = "denied"
	outcomeError   = "error"
)

// AuthService 认证服务业务逻辑层
type AuthService struct {
	provider     client.IdentityProvider
	sessionCache *sessioncache.Cache
	metrics      *metrics.LoginMetrics
	publish      func(ctx context.Context, identityID string) error
	logger       log.Logger
}

var _ middleware.IdentityResolver = (*AuthService)(nil)

// Options AuthService 可选依赖
type Options struct {
	Metrics *metrics.LoginMetrics
	// Publish 登录成功事件，默认发送到 NATS
	Publish func(ctx context.Context, identityID string) error
	Logger  log.Logger
}

// NewAuthService 创建认证服务实例
func NewAuthService(provider client.IdentityProvider, cache *sessioncache.Cache, opts Options) *AuthService {
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultLoginMetrics
	}
	if opts.Publish == nil {
		opts.Publish = notify.PublishLogin
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	return &AuthService{
		provider:     provider,
		sessionCache: cache,
		metrics:      opts.Metrics,
		publish:      opts.Publish,
		logger:       opts.Logger.With("module", "auth_service"),
	}
}

// LoginInput 登录输入参数
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput 登录输出
type LoginOutput struct {
	IdentityID   string
	Email        string
	SessionToken string
}

// Login 校验邮箱密码并缓存身份
// 凭证只透传给身份服务，不落盘也不写日志
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	start := time.Now()
	email := strings.TrimSpace(input.Email)

	session, err := s.provider.VerifyCredentials(ctx, email, input.Password)
	if err != nil {
		outcome := outcomeError
		if isCredentialError(err) {
			outcome = outcomeDenied
		}
		s.metrics.ObserveDuration(metrics.GetServiceName(), outcome, time.Since(start))
		return nil, xerrors.Wrap(err, xerrors.CodeAuthenticationFailed, "login failed")
	}
	s.metrics.ObserveDuration(metrics.GetServiceName(), outcomeSuccess, time.Since(start))

	output := &LoginOutput{
		IdentityID:   session.IdentityID,
		Email:        session.Email,
		SessionToken: session.SessionToken,
	}

	if s.sessionCache != nil {
		s.sessionCache.Set(ctx, sessioncache.Identity{
			IdentityID:   output.IdentityID,
			Email:        output.Email,
			SessionToken: output.SessionToken,
		})
	}

	if err := s.publish(ctx, output.IdentityID); err != nil {
		s.logger.WarnContext(ctx, "发布登录事件失败", log.Any("error", err))
	}

	s.logger.InfoContext(ctx, "用户登录成功", log.String("identity_id", output.IdentityID))
	return output, nil
}

// Logout 撤销身份服务会话并清除缓存
// 身份服务不可用时仍清除本地缓存，错误返回给调用方记录
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	if s.sessionCache != nil {
		s.sessionCache.Delete(ctx, sessionToken, "logout")
	}
	if err := s.provider.RevokeSession(ctx, sessionToken); err != nil {
		return xerrors.Wrap(err, xerrors.CodeKratosError, "revoke session failed")
	}
	return nil
}

// ResolveIdentity 根据 session token 获取登录身份，优先命中缓存
func (s *AuthService) ResolveIdentity(ctx context.Context, sessionToken string) (string, string, error) {
	if s.sessionCache != nil {
		if cached, ok := s.sessionCache.Get(ctx, sessionToken); ok {
			return cached.IdentityID, cached.Email, nil
		}
	}

	session, err := s.provider.ValidateSession(ctx, sessionToken)
	if err != nil {
		if s.sessionCache != nil {
			s.sessionCache.Delete(ctx, sessionToken, "invalid")
		}
		return "", "", err
	}

	if s.sessionCache != nil {
		s.sessionCache.Set(ctx, sessioncache.Identity{
			IdentityID:   session.IdentityID,
			Email:        session.Email,
			SessionToken: sessionToken,
		})
	}
	return session.IdentityID, session.Email, nil
}

func isCredentialError(err error) bool {
	appErr, ok := xerrors.As(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case xerrors.CodeInvalidCredentials, xerrors.CodeAuthenticationFailed, xerrors.CodeInvalidParams:
		return true
	}
	return false
}
