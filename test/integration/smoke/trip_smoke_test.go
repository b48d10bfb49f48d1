package smoke

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/pkg/xerrors"
	"trip-planner/test/internal/apitest"
)

// TestHealthAndLanding 服务可用且首页可渲染
func TestHealthAndLanding(t *testing.T) {
	cfg := apitest.LoadConfig(t)
	client := apitest.NewClient(cfg.BaseURL)
	ctx := context.Background()

	resp, _, err := client.GetPage(ctx, "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body, err := client.GetPage(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/search"`)
}

// TestSearchRejectsInvalidForm 缺少字段时返回字段列表且不进入 loading
func TestSearchRejectsInvalidForm(t *testing.T) {
	cfg := apitest.LoadConfig(t)
	client := apitest.NewClient(cfg.BaseURL)
	ctx := context.Background()

	resp, httpResp, raw, err := apitest.PostJSON[apitest.SearchForm, apitest.ValidationDetails](ctx, client, "/api/search", apitest.SearchForm{Location: "Montreal"})
	require.NoError(t, err, string(raw))
	require.Equal(t, http.StatusBadRequest, httpResp.StatusCode, string(raw))
	require.Equal(t, int(xerrors.CodeInvalidParams), resp.Code)
	require.NotNil(t, resp.Data)
	assert.NotEmpty(t, resp.Data.Fields)

	state, _, raw, err := apitest.GetJSON[apitest.StateResponse](ctx, client, "/api/search/state")
	require.NoError(t, err, string(raw))
	require.NotNil(t, state.Data)
	assert.Equal(t, "idle", state.Data.Status)
}

// TestSearchRoundTrip 写入日期、提交搜索并轮询到终态
func TestSearchRoundTrip(t *testing.T) {
	cfg := apitest.LoadConfig(t)
	client := apitest.NewClient(cfg.BaseURL)
	ctx := context.Background()

	_, httpResp, raw, err := apitest.PutJSON[apitest.DatesRequest, apitest.StateResponse](ctx, client, "/api/trip/dates",
		apitest.DatesRequest{From: "2030-06-01", To: "2030-06-07"})
	require.NoError(t, err, string(raw))
	require.Equal(t, http.StatusOK, httpResp.StatusCode, string(raw))

	submit, httpResp, raw, err := apitest.PostJSON[apitest.SearchForm, apitest.SubmitResponse](ctx, client, "/api/search", apitest.SearchForm{
		Transportation: "publicTransit",
		Hotel:          "threeStar",
		Location:       "Montreal",
		Budget:         "2000$",
		Traveller:      "two",
	})
	require.NoError(t, err, string(raw))
	require.Equal(t, http.StatusAccepted, httpResp.StatusCode, string(raw))
	require.NotNil(t, submit.Data)
	require.NotEmpty(t, submit.Data.RequestID)

	var final apitest.StateResponse
	require.Eventually(t, func() bool {
		state, _, _, err := apitest.GetJSON[apitest.StateResponse](ctx, client, "/api/search/state")
		if err != nil || state.Data == nil {
			return false
		}
		final = *state.Data
		return final.Status == "succeeded" || final.Status == "failed"
	}, 3*time.Minute, time.Second)

	assert.Equal(t, submit.Data.RequestID, final.RequestID)
	assert.Equal(t, "2030-06-01", final.DateRange.From)
	if final.Status == "failed" {
		t.Logf("建议服务返回失败 code=%d", final.ErrorCode)
	}
}
