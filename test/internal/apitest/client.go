package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// APIResponse matches the project's generic API envelope.
type APIResponse[T any] struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      *T     `json:"data"`
	Timestamp int64  `json:"timestamp"`
	TraceID   string `json:"trace_id"`
}

// Client is a lightweight HTTP helper for API tests.
// 每个 Client 持有独立的 cookie jar，相当于一个浏览器会话
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Status safely returns HTTP status code (0 if resp is nil).
func Status(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// NewClient creates a client with its own cookie jar; redirects are not followed.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// PostJSON sends a JSON POST.
func PostJSON[T any, R any](ctx context.Context, c *Client, path string, payload T) (*APIResponse[R], *http.Response, []byte, error) {
	return doJSON[T, R](ctx, c, http.MethodPost, path, &payload)
}

// PutJSON sends a JSON PUT.
func PutJSON[T any, R any](ctx context.Context, c *Client, path string, payload T) (*APIResponse[R], *http.Response, []byte, error) {
	return doJSON[T, R](ctx, c, http.MethodPut, path, &payload)
}

// GetJSON sends a JSON GET.
func GetJSON[R any](ctx context.Context, c *Client, path string) (*APIResponse[R], *http.Response, []byte, error) {
	return doJSON[struct{}, R](ctx, c, http.MethodGet, path, nil)
}

// GetPage fetches an HTML page and returns its body.
func (c *Client) GetPage(ctx context.Context, path string) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return resp, "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, "", fmt.Errorf("read response: %w", err)
	}
	return resp, string(body), nil
}

func doJSON[T any, R any](ctx context.Context, c *Client, method, path string, payload *T) (*APIResponse[R], *http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, resp, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, nil, fmt.Errorf("read response: %w", err)
	}

	var apiResp APIResponse[R]
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, resp, bodyBytes, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, resp, bodyBytes, nil
}
