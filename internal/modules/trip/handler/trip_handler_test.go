package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"trip-planner/internal/middleware"
	"trip-planner/internal/modules/trip/model"
	"trip-planner/internal/modules/trip/service"
	"trip-planner/internal/modules/trip/store"
	"trip-planner/internal/pkg/i18n"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	"trip-planner/internal/pkg/notify"
	"trip-planner/internal/pkg/response"
	"trip-planner/internal/pkg/validator"
	"trip-planner/internal/pkg/xerrors"
	"trip-planner/internal/web"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loadingText = "We are currently cooking your schedule for the trip! Please be patient!"

// stubClient 可阻塞的建议服务替身
type stubClient struct {
	mu    sync.Mutex
	calls []model.SearchRequest
	gate  chan struct{}
	text  string
	err   error
}

func (s *stubClient) Suggest(ctx context.Context, req model.SearchRequest) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubClient) lastCall() model.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

type testServer struct {
	e      *echo.Echo
	client *stubClient
	svc    *service.TripService
	cookie *http.Cookie
}

func setupTestServer(t *testing.T, client *stubClient) *testServer {
	t.Helper()

	logger := log.NewLogger(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	st := store.NewMemoryStore(time.Hour, metrics.NewStoreMetricsWithRegistry("test", reg), logger)
	svc := service.NewTripService(st, client, logger, service.Options{
		CallTimeout: 5 * time.Second,
		Metrics:     metrics.NewSuggestionMetricsWithRegistry("test", reg),
		Publish: func(context.Context, notify.SuggestionCompletedEvent) error {
			return nil
		},
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Close(ctx)
	})

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	respWriter := response.NewResponseHandler(logger, "test")
	e := echo.New()
	e.Validator = validator.New()
	e.Renderer = renderer
	e.Use(i18n.Middleware())
	e.Use(middleware.ErrorMiddleware(respWriter, web.ErrorPageRenderer(), logger))
	e.Use(middleware.SessionMiddleware(middleware.SessionConfig{CookieName: "trip_sid", MaxAge: time.Hour}, logger))

	h := NewTripHandler(svc, respWriter, logger)
	RegisterRoutes(e, h)

	return &testServer{e: e, client: client, svc: svc}
}

func (s *testServer) do(t *testing.T, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "trip_sid" {
			s.cookie = c
		}
	}
	return rec
}

func (s *testServer) postForm(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	return s.do(t, http.MethodPost, path, echo.MIMEApplicationForm, values.Encode())
}

func (s *testServer) postJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return s.do(t, method, path, echo.MIMEApplicationJSON, string(data))
}

func validForm() url.Values {
	return url.Values{
		"transportation": {"publicTransit"},
		"hotel":          {"threeStar"},
		"location":       {"Montreal, Canada"},
		"budget":         {"2000$"},
		"traveller":      {"two"},
		"startDate":      {"2024-06-01"},
		"endDate":        {"2024-06-07"},
	}
}

type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestLanding_RendersHeadingAndIssuesSession(t *testing.T) {
	s := setupTestServer(t, &stubClient{text: "ok"})

	rec := s.do(t, http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Make your trips come true")
	assert.Contains(t, rec.Body.String(), `name="transportation"`)
	require.NotNil(t, s.cookie)
}

func TestLanding_Localized(t *testing.T) {
	s := setupTestServer(t, &stubClient{text: "ok"})

	rec := s.do(t, http.MethodGet, "/?lang=zh", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "让你的旅行成真")
}

func TestSubmitSearch_MissingFieldsBlocksDispatch(t *testing.T) {
	s := setupTestServer(t, &stubClient{text: "ok"})

	form := validForm()
	form.Del("location")
	form.Set("traveller", "seven")
	rec := s.postForm(t, "/search", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Location is required")
	assert.Contains(t, body, "Traveller must be one of")
	// 已填写的值被回显
	assert.Contains(t, body, `value="2000$"`)
	assert.Equal(t, 0, s.client.callCount())
}

func TestSubmitSearch_ReversedDatesBlocksDispatch(t *testing.T) {
	s := setupTestServer(t, &stubClient{text: "ok"})

	form := validForm()
	form.Set("startDate", "2024-06-10")
	form.Set("endDate", "2024-06-01")
	rec := s.postForm(t, "/search", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "To must not be before From")
	assert.Equal(t, 0, s.client.callCount())
}

func TestSubmitSearch_LoadingThenSuggestion(t *testing.T) {
	client := &stubClient{text: "Day 1: Old Montreal\nDay 2: Mount Royal", gate: make(chan struct{})}
	s := setupTestServer(t, client)

	rec := s.postForm(t, "/search", validForm())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, ResultPath, rec.Header().Get(echo.HeaderLocation))

	// 等待中：显示 loading，并自动刷新
	rec = s.do(t, http.MethodGet, ResultPath, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), loadingText)
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh"`)
	assert.NotContains(t, rec.Body.String(), "Old Montreal")

	close(client.gate)

	require.Eventually(t, func() bool {
		return strings.Contains(s.do(t, http.MethodGet, ResultPath, "", "").Body.String(), `id="suggestion"`)
	}, 2*time.Second, 10*time.Millisecond)

	rec = s.do(t, http.MethodGet, ResultPath, "", "")
	body := rec.Body.String()
	assert.Contains(t, body, "<p>Day 1: Old Montreal</p>")
	assert.Contains(t, body, "<p>Day 2: Mount Royal</p>")
	assert.NotContains(t, body, loadingText)
	assert.NotContains(t, body, `http-equiv="refresh"`)

	require.Equal(t, 1, client.callCount())
	sent := client.lastCall()
	assert.Equal(t, model.TransportPublicTransit, sent.Transportation)
	assert.Equal(t, "Montreal, Canada", sent.Location)
	require.NotNil(t, sent.StartDate)
	assert.Equal(t, "2024-06-01", sent.StartDate.Format(model.DateLayout))
}

func TestSubmitSearch_FailureShowsNotice(t *testing.T) {
	client := &stubClient{err: xerrors.NewExternalStatusError("suggestion-api", 500, "boom")}
	s := setupTestServer(t, client)

	rec := s.postForm(t, "/search", validForm())
	require.Equal(t, http.StatusSeeOther, rec.Code)

	require.Eventually(t, func() bool {
		return strings.Contains(s.do(t, http.MethodGet, ResultPath, "", "").Body.String(), "We could not prepare your trip")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubmitSearch_LegacyTransportationSpelling(t *testing.T) {
	client := &stubClient{text: "ok"}
	s := setupTestServer(t, client)

	form := validForm()
	form.Set("transportation", "personalVehical")
	rec := s.postForm(t, "/search", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Eventually(t, func() bool { return client.callCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, model.TransportPersonalVehicle, client.lastCall().Transportation)
}

func TestLanding_PrefillsFromHolder(t *testing.T) {
	s := setupTestServer(t, &stubClient{text: "ok"})

	rec := s.postJSON(t, http.MethodPut, "/api/trip/dates", map[string]string{"from": "2024-07-01", "to": "2024-07-05"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/", "", "")
	assert.Contains(t, rec.Body.String(), `value="2024-07-01"`)
	assert.Contains(t, rec.Body.String(), `value="2024-07-05"`)
}

func TestSubmitSearchAPI_MergesHolderDates(t *testing.T) {
	client := &stubClient{text: "Pack an umbrella"}
	s := setupTestServer(t, client)

	rec := s.postJSON(t, http.MethodPut, "/api/trip/dates", DatesRequest{From: "2024-08-01", To: "2024-08-03"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.postJSON(t, http.MethodPost, "/api/search", SearchForm{
		Transportation: "rent",
		Hotel:          "fiveStar",
		Location:       "Lisbon",
		Budget:         "3000€",
		Traveller:      "one",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var submitted SubmitResponse
	env := decodeEnvelope(t, rec, &submitted)
	assert.Equal(t, xerrors.CodeSuccess.ToInt(), env.Code)
	assert.NotEmpty(t, submitted.RequestID)
	assert.Equal(t, model.StatusLoading, submitted.Status)
	require.NotNil(t, submitted.Request.StartDate)
	assert.Equal(t, "2024-08-01", submitted.Request.StartDate.Format(model.DateLayout))

	var state StateResponse
	require.Eventually(t, func() bool {
		decodeEnvelope(t, s.do(t, http.MethodGet, "/api/search/state", "", ""), &state)
		return state.Status == model.StatusSucceeded
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, submitted.RequestID, state.RequestID)
	assert.Equal(t, "Pack an umbrella", state.Suggestion)
	assert.Equal(t, "2024-08-01", state.DateRange.From)
	assert.Equal(t, "2024-08-03", state.DateRange.To)
}

func TestSubmitSearchAPI_ValidationErrors(t *testing.T) {
	client := &stubClient{text: "ok"}
	s := setupTestServer(t, client)

	rec := s.postJSON(t, http.MethodPost, "/api/search", SearchForm{Transportation: "boat"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var details struct {
		Fields []validator.ValidationError `json:"fields"`
	}
	env := decodeEnvelope(t, rec, &details)
	assert.Equal(t, xerrors.CodeInvalidParams.ToInt(), env.Code)

	fields := make(map[string]string)
	for _, f := range details.Fields {
		fields[f.Field] = f.Tag
	}
	assert.Equal(t, "oneof", fields["transportation"])
	assert.Equal(t, "required", fields["location"])
	assert.Equal(t, "required", fields["hotel"])
	assert.Equal(t, 0, client.callCount())
}

func TestGetState_FreshSessionIsIdle(t *testing.T) {
	s := setupTestServer(t, &stubClient{text: "ok"})

	var state StateResponse
	rec := s.do(t, http.MethodGet, "/api/search/state", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &state)

	assert.Equal(t, model.StatusIdle, state.Status)
	assert.Empty(t, state.Suggestion)
	assert.Nil(t, state.LastRequest)
}

func TestGetState_FailedCarriesCode(t *testing.T) {
	client := &stubClient{err: xerrors.NewExternalServiceError("suggestion-api", io.ErrUnexpectedEOF)}
	s := setupTestServer(t, client)

	form := validForm()
	rec := s.postForm(t, "/search", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	var state StateResponse
	require.Eventually(t, func() bool {
		decodeEnvelope(t, s.do(t, http.MethodGet, "/api/search/state", "", ""), &state)
		return state.Status == model.StatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, xerrors.CodeExternalServiceError.ToInt(), state.ErrorCode)
	assert.NotEmpty(t, state.ErrorMessage)
	assert.Empty(t, state.Suggestion)
}

func TestUpdateDates_RejectsReversedRange(t *testing.T) {
	s := setupTestServer(t, &stubClient{text: "ok"})

	rec := s.postJSON(t, http.MethodPut, "/api/trip/dates", DatesRequest{From: "2024-08-03", To: "2024-08-01"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, xerrors.CodeInvalidParams.ToInt(), env.Code)
}

func TestUpdateDates_MalformedDate(t *testing.T) {
	s := setupTestServer(t, &stubClient{text: "ok"})

	rec := s.postJSON(t, http.MethodPut, "/api/trip/dates", DatesRequest{From: "08/03/2024"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	client := &stubClient{text: "Only for the first browser"}
	s := setupTestServer(t, client)

	rec := s.postForm(t, "/search", validForm())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Eventually(t, func() bool { return client.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// 没有 cookie 的另一个浏览器
	other := &testServer{e: s.e}
	var state StateResponse
	decodeEnvelope(t, other.do(t, http.MethodGet, "/api/search/state", "", ""), &state)
	assert.Equal(t, model.StatusIdle, state.Status)
}

func TestSearchForm_ToInput(t *testing.T) {
	t.Run("both dates empty keeps holder range", func(t *testing.T) {
		in, err := SearchForm{Transportation: "rent", Hotel: "oneStar", Traveller: "six"}.ToInput()
		require.NoError(t, err)
		assert.Nil(t, in.Dates)
		assert.Equal(t, 6, in.Fields.Traveller.Int())
	})

	t.Run("open ended range", func(t *testing.T) {
		in, err := SearchForm{StartDate: "2024-06-01"}.ToInput()
		require.NoError(t, err)
		require.NotNil(t, in.Dates)
		assert.Equal(t, "2024-06-01", in.Dates.FromString())
		assert.Nil(t, in.Dates.To)
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := SearchForm{StartDate: "2024-06-02", EndDate: "2024-06-01"}.ToInput()
		assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidDateRange))
	})
}

func TestSearchForm_Normalize(t *testing.T) {
	f := SearchForm{Transportation: " personalVehical ", Location: "  Paris  "}
	f.Normalize()
	assert.Equal(t, "personalVehicle", f.Transportation)
	assert.Equal(t, "Paris", f.Location)
}
