package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"trip-planner/internal/modules/trip/model"
	"trip-planner/internal/pkg/xerrors"
)

const (
	// ServiceName 日志与错误元数据中的外部服务名
	ServiceName = "suggestion-api"

	suggestPath     = "/api/gpt"
	defaultTimeout  = 2 * time.Minute
	maxBodyExcerpt  = 512
	maxResponseSize = 1 << 20
)

// SuggestionClient 行程建议服务
type SuggestionClient interface {
	Suggest(ctx context.Context, req model.SearchRequest) (string, error)
}

var _ SuggestionClient = (*HTTPClient)(nil)

// HTTPClient 通过 POST /api/gpt 获取行程建议
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewHTTPClient 创建建议服务客户端，timeout <= 0 时使用默认值
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse suggestion base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("suggestion base url %q must include scheme and host", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Suggest 发送一次请求
// 2xx 且包含 GPTSuggestion 字段时返回建议文本（可以为空），其它情况返回 CodeExternalServiceError
func (c *HTTPClient) Suggest(ctx context.Context, req model.SearchRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", xerrors.NewWithError(xerrors.CodeInternalError, "encode suggestion request", err)
	}

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: c.baseURL.Path + suggestPath})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", xerrors.NewWithError(xerrors.CodeInternalError, "build suggestion request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", xerrors.NewExternalServiceError(ServiceName, err).
			WithService("suggestion-client", "suggest")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", xerrors.NewExternalServiceError(ServiceName, err).
			WithService("suggestion-client", "suggest").
			WithMetadata("status_code", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", xerrors.NewExternalStatusError(ServiceName, resp.StatusCode, excerpt(body)).
			WithService("suggestion-client", "suggest")
	}

	var out model.SuggestionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", xerrors.NewExternalServiceError(ServiceName, fmt.Errorf("decode response: %w", err)).
			WithService("suggestion-client", "suggest").
			WithMetadata("status_code", resp.StatusCode).
			WithMetadata("body_excerpt", excerpt(body))
	}
	if out.GPTSuggestion == nil {
		return "", xerrors.NewExternalStatusError(ServiceName, resp.StatusCode, excerpt(body)).
			WithService("suggestion-client", "suggest").
			WithMetadata("reason", "missing GPTSuggestion")
	}

	return *out.GPTSuggestion, nil
}

// excerpt 截取响应体用于日志，按字符截断
func excerpt(body []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(body)), "\uFFFD")
	if utf8.RuneCountInString(s) > maxBodyExcerpt {
		return string([]rune(s)[:maxBodyExcerpt]) + "..."
	}
	return s
}
