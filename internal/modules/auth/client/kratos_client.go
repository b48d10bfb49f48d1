package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/xerrors"

	ory "github.com/ory/kratos-client-go"
)

const defaultTimeout = 10 * time.Second

// Session 身份服务返回的登录会话
type Session struct {
	IdentityID   string
	Email        string
	SessionToken string
	ExpiresAt    *time.Time
}

// IdentityProvider 第三方身份服务
type IdentityProvider interface {
	// VerifyCredentials 校验邮箱密码，成功时返回新的会话
	VerifyCredentials(ctx context.Context, email, password string) (*Session, error)
	// ValidateSession 校验 session token 是否仍然有效
	ValidateSession(ctx context.Context, sessionToken string) (*Session, error)
	// RevokeSession 注销会话
	RevokeSession(ctx context.Context, sessionToken string) error
}

// KratosClient 封装 Ory Kratos Public API 调用
type KratosClient struct {
	publicURL    string
	publicClient *ory.APIClient
}

var _ IdentityProvider = (*KratosClient)(nil)

// NewKratosClient 创建 Kratos 客户端
// publicURL 为空时客户端不可用，所有调用返回未初始化错误
func NewKratosClient(publicURL string, timeout time.Duration) *KratosClient {
	if strings.TrimSpace(publicURL) == "" {
		return &KratosClient{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	publicConfig := ory.NewConfiguration()
	publicConfig.Servers = []ory.ServerConfiguration{
		{
			URL: strings.TrimRight(publicURL, "/"),
		},
	}
	publicConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &KratosClient{
		publicURL:    publicURL,
		publicClient: ory.NewAPIClient(publicConfig),
	}
}

// VerifyCredentials 使用 native 登录流程校验密码
// 1. 创建 login flow
// 2. 以 password 方式提交
func (c *KratosClient) VerifyCredentials(ctx context.Context, email, password string) (*Session, error) {
	if err := c.ready("VerifyCredentials"); err != nil {
		return nil, err
	}
	flow, resp, err := c.publicClient.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		log.ErrorContext(ctx, "创建登录流程失败", log.Any("error", err))
		return nil, translateKratosError("CreateNativeLoginFlow", err, resp).
			WithService("kratos_client", "VerifyCredentials")
	}

	updateLoginBody := ory.UpdateLoginFlowBody{
		UpdateLoginFlowWithPasswordMethod: &ory.UpdateLoginFlowWithPasswordMethod{
			Method:     "password",
			Identifier: email,
			Password:   password,
		},
	}

	result, resp, err := c.publicClient.FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(updateLoginBody).
		Execute()
	if err != nil {
		appErr := translateKratosError("UpdateLoginFlow", err, resp).
			WithService("kratos_client", "VerifyCredentials")
		log.WarnContext(ctx, "Kratos 登录失败",
			log.Int("code", appErr.Code.ToInt()),
			log.Any("kratos_error_id", metadataOrEmpty(appErr, "kratos_error_id")))
		return nil, appErr
	}

	session := result.Session
	if session.Identity == nil {
		return nil, xerrors.NewKratosDataIntegrityError("session.identity", "login succeeded without identity").
			WithService("kratos_client", "VerifyCredentials")
	}

	// SessionToken 优先使用 API 返回的 session_token
	token := session.Id
	if result.SessionToken != nil && *result.SessionToken != "" {
		token = *result.SessionToken
	}

	out := toSession(&session, token)
	if out.Email == "" {
		out.Email = email
	}
	return out, nil
}

// ValidateSession 通过 whoami 校验 session token
func (c *KratosClient) ValidateSession(ctx context.Context, sessionToken string) (*Session, error) {
	if sessionToken == "" {
		return nil, xerrors.NewSessionInvalidError("empty session token").
			WithService("kratos_client", "ValidateSession")
	}
	if err := c.ready("ValidateSession"); err != nil {
		return nil, err
	}

	session, resp, err := c.publicClient.FrontendAPI.ToSession(ctx).
		XSessionToken(sessionToken).
		Execute()
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				return nil, xerrors.NewSessionExpiredError().
					WithService("kratos_client", "ValidateSession")
			case http.StatusForbidden:
				return nil, xerrors.NewSessionInvalidError("session requires a higher assurance level").
					WithService("kratos_client", "ValidateSession")
			}
		}
		log.ErrorContext(ctx, "验证 Session 失败", log.Any("error", err))
		return nil, translateKratosError("ToSession", err, resp).
			WithService("kratos_client", "ValidateSession")
	}

	if session.Active != nil && !*session.Active {
		return nil, xerrors.NewSessionExpiredError().
			WithService("kratos_client", "ValidateSession")
	}
	if session.Identity == nil {
		return nil, xerrors.NewKratosDataIntegrityError("session.identity", "whoami returned no identity").
			WithService("kratos_client", "ValidateSession")
	}

	return toSession(session, sessionToken), nil
}

// RevokeSession 撤销 Session (登出)
// Native 应用直接调用 PerformNativeLogout，不需要 logout flow
func (c *KratosClient) RevokeSession(ctx context.Context, sessionToken string) error {
	if err := c.ready("RevokeSession"); err != nil {
		return err
	}
	logoutBody := ory.NewPerformNativeLogoutBody(sessionToken)

	resp, err := c.publicClient.FrontendAPI.PerformNativeLogout(ctx).
		PerformNativeLogoutBody(*logoutBody).
		Execute()
	if err != nil {
		// 会话已失效，视为登出成功
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil
		}
		if resp != nil {
			return xerrors.NewKratosAPIError("PerformNativeLogout", resp.StatusCode).
				WithService("kratos_client", "RevokeSession")
		}
		return translateKratosError("PerformNativeLogout", err, resp).
			WithService("kratos_client", "RevokeSession")
	}
	return nil
}

func (c *KratosClient) ready(method string) *xerrors.AppError {
	if c.publicClient == nil {
		return xerrors.NewKratosClientNotInitializedError("public").
			WithService("kratos_client", method)
	}
	return nil
}

func toSession(s *ory.Session, token string) *Session {
	out := &Session{
		SessionToken: token,
		ExpiresAt:    s.ExpiresAt,
	}
	if s.Identity != nil {
		out.IdentityID = s.Identity.Id
		out.Email = traitString(s.Identity.Traits, "email")
	}
	return out
}

func traitString(traits interface{}, key string) string {
	traitsMap, ok := traits.(map[string]interface{})
	if !ok {
		return ""
	}
	str, _ := traitsMap[key].(string)
	return str
}

func metadataOrEmpty(appErr *xerrors.AppError, key string) interface{} {
	v, _ := appErr.Metadata(key)
	return v
}

// kratosErrorBody Kratos 错误响应中与登录相关的部分
// 登录流程失败时返回带 ui.messages 的 flow，其它接口返回 {"error": {...}}
type kratosErrorBody struct {
	UI *struct {
		Messages []kratosMessage `json:"messages"`
		Nodes    []struct {
			Messages []kratosMessage `json:"messages"`
		} `json:"nodes"`
	} `json:"ui"`
	Error *struct {
		ID      string `json:"id"`
		Code    int    `json:"code"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
}

type kratosMessage struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// translateKratosError 将 Kratos 错误转换为业务错误码
// 按优先级在所有 UI 消息中选择最重要的一条，无法识别时按错误文本匹配
func translateKratosError(operation string, err error, resp *http.Response) *xerrors.AppError {
	var apiErr *ory.GenericOpenAPIError
	if !errors.As(err, &apiErr) || len(apiErr.Body()) == 0 {
		appErr := xerrors.NewKratosError(operation, err)
		if resp != nil {
			appErr = appErr.WithMetadata("status_code", resp.StatusCode)
		}
		return appErr
	}

	var body kratosErrorBody
	if jsonErr := json.Unmarshal(apiErr.Body(), &body); jsonErr != nil {
		return xerrors.NewKratosErrorFromMessage(operation, string(apiErr.Body()), err)
	}

	var messages []kratosMessage
	if body.UI != nil {
		messages = append(messages, body.UI.Messages...)
		for _, node := range body.UI.Nodes {
			messages = append(messages, node.Messages...)
		}
	}

	var selected *kratosMessage
	bestPriority := 0
	for i := range messages {
		if messages[i].Type != "" && messages[i].Type != "error" {
			continue
		}
		code, _ := xerrors.TranslateKratosError(messages[i].ID)
		priority := xerrors.GetKratosErrorPriority(code)
		if selected == nil || priority < bestPriority {
			selected = &messages[i]
			bestPriority = priority
		}
	}

	var appErr *xerrors.AppError
	switch {
	case selected != nil:
		appErr = xerrors.NewKratosErrorFromID(operation, selected.ID, err).
			WithMetadata("kratos_message", selected.Text)
	case body.Error != nil:
		appErr = xerrors.NewKratosErrorFromMessage(operation, body.Error.Reason+" "+body.Error.Message, err).
			WithMetadata("kratos_error", body.Error.ID)
	default:
		appErr = xerrors.NewKratosErrorFromMessage(operation, err.Error(), err)
	}

	if resp != nil {
		appErr = appErr.WithMetadata("status_code", resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError {
			appErr.Code = xerrors.CodeKratosError
		}
	}
	return appErr
}
