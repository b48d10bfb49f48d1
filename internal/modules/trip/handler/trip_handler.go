package handler

import (
	"net/http"
	"time"

	"trip-planner/internal/middleware"
	"trip-planner/internal/modules/trip/model"
	"trip-planner/internal/modules/trip/service"
	"trip-planner/internal/pkg/i18n"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/response"
	"trip-planner/internal/pkg/validator"
	"trip-planner/internal/pkg/xerrors"
	"trip-planner/internal/web"

	"github.com/labstack/echo/v4"
)

// resultRefreshSeconds 结果页在 loading 状态下的自动刷新间隔
const resultRefreshSeconds = 2

// ResultPath 提交成功后跳转的结果页
const ResultPath = "/search/result"

// TripHandler 行程搜索 Handler（页面 + JSON 接口）
type TripHandler struct {
	service    *service.TripService
	respWriter response.Writer
	logger     log.Logger
}

// NewTripHandler 创建行程搜索 Handler
func NewTripHandler(svc *service.TripService, respWriter response.Writer, logger log.Logger) *TripHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &TripHandler{
		service:    svc,
		respWriter: respWriter,
		logger:     logger.With("component", "trip_handler"),
	}
}

// ==================== 页面数据 ====================

// SearchView 首页搜索表单
type SearchView struct {
	Form            SearchForm
	Errors          map[string]string
	Transportations []Option
	Hotels          []Option
	Travellers      []Option
}

// ResultView 结果面板
type ResultView struct {
	Status     string
	RequestID  string
	Suggestion string
	Request    *model.SearchRequest
}

func newSearchView(form SearchForm, errs map[string]string) SearchView {
	return SearchView{
		Form:            form,
		Errors:          errs,
		Transportations: transportationOptions(),
		Hotels:          hotelOptions(),
		Travellers:      travellerOptions(),
	}
}

func newResultView(tc *model.TripContext) ResultView {
	view := ResultView{
		Status:    string(tc.Suggestion.Status()),
		RequestID: tc.Suggestion.RequestID(),
		Request:   tc.LastRequest,
	}
	if text, ok := tc.Suggestion.Suggestion(); ok {
		view.Suggestion = text
	}
	return view
}

// ==================== HTTP Request/Response Models ====================

// SubmitResponse 提交成功响应
type SubmitResponse struct {
	RequestID string                 `json:"request_id" example:"5f0c6c1e-3a55-4a8f-9b53-0a8f3d1f6f11"` // 请求ID，用于轮询状态
	Status    model.SuggestionStatus `json:"status" example:"loading"`                                  // 当前状态
	Request   model.SearchRequest    `json:"request"`                                                   // 实际发送给建议服务的请求
}

// DatesResponse 日期区间
type DatesResponse struct {
	From string `json:"from,omitempty" example:"2024-06-01"`
	To   string `json:"to,omitempty" example:"2024-06-07"`
}

// StateResponse 会话中的行程状态
type StateResponse struct {
	Status       model.SuggestionStatus `json:"status" example:"succeeded"`            // idle | loading | succeeded | failed
	RequestID    string                 `json:"request_id,omitempty"`                  // 当前请求ID
	Suggestion   string                 `json:"suggestion,omitempty"`                  // 建议文本（succeeded）
	ErrorCode    int                    `json:"error_code,omitempty" example:"700001"` // 错误码（failed）
	ErrorMessage string                 `json:"error_message,omitempty"`               // 面向用户的提示（failed）
	DateRange    DatesResponse          `json:"date_range"`                            // 日期区间
	LastRequest  *model.SearchRequest   `json:"last_request,omitempty"`                // 最近一次请求
	UpdatedAt    time.Time              `json:"updated_at"`                            // 更新时间
}

func toStateResponse(c echo.Context, tc *model.TripContext) StateResponse {
	resp := StateResponse{
		Status:      tc.Suggestion.Status(),
		RequestID:   tc.Suggestion.RequestID(),
		DateRange:   DatesResponse{From: tc.DateRange.FromString(), To: tc.DateRange.ToString()},
		LastRequest: tc.LastRequest,
		UpdatedAt:   tc.UpdatedAt,
	}
	if text, ok := tc.Suggestion.Suggestion(); ok {
		resp.Suggestion = text
	}
	if code, ok := tc.Suggestion.FailureCode(); ok {
		resp.ErrorCode = code.ToInt()
		resp.ErrorMessage = i18n.T(c.Request().Context(), i18n.KeyResultFailed)
	}
	return resp
}

// ==================== 页面 Handlers ====================

// Landing 首页，日期等字段由会话中的行程上下文回填
func (h *TripHandler) Landing(c echo.Context) error {
	tc, err := h.service.State(c.Request().Context(), middleware.GetSessionID(c))
	if err != nil {
		return err
	}
	return h.renderLanding(c, http.StatusOK, formFromContext(tc), nil)
}

// SubmitSearch 页面表单提交
// 校验失败时带字段错误重新渲染 (422)，成功后 303 跳转到结果页
func (h *TripHandler) SubmitSearch(c echo.Context) error {
	ctx := c.Request().Context()

	var form SearchForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	form.Normalize()

	if err := c.Validate(&form); err != nil {
		h.logger.DebugContext(ctx, "search form rejected", log.Any("fields", validator.FieldMessages(ctx, err)))
		return h.renderLanding(c, http.StatusUnprocessableEntity, form, validator.FieldMessages(ctx, err))
	}

	in, err := form.ToInput()
	if err != nil {
		return err
	}
	if _, err := h.service.Submit(ctx, middleware.GetSessionID(c), in); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, ResultPath)
}

// Result 结果面板，loading 时页面自动刷新
func (h *TripHandler) Result(c echo.Context) error {
	tc, err := h.service.State(c.Request().Context(), middleware.GetSessionID(c))
	if err != nil {
		return err
	}

	page := web.NewPage(c, i18n.KeyResultTitle, newResultView(tc))
	if tc.Suggestion.IsLoading() {
		page.Refresh = resultRefreshSeconds
	}
	return c.Render(http.StatusOK, web.PageResult, page)
}

func (h *TripHandler) renderLanding(c echo.Context, status int, form SearchForm, errs map[string]string) error {
	page := web.NewPage(c, i18n.KeyLandingHeading, newSearchView(form, errs))
	return c.Render(status, web.PageLanding, page)
}

// ==================== JSON Handlers ====================

// SubmitSearchAPI 提交行程搜索
// @Summary 提交行程搜索
// @Description 校验表单并异步请求行程建议，立即返回请求ID
// @Description
// @Description **说明**：
// @Description - `startDate`/`endDate` 均为空时沿用会话中保存的日期区间
// @Description - 同一会话的上一个未完成请求会被作废
// @Description - 通过 `GET /api/search/state` 轮询结果
// @Tags 行程
// @Accept json
// @Produce json
// @Param request body SearchForm true "行程搜索表单"
// @Success 202 {object} response.ResponseResult[SubmitResponse] "已受理"
// @Failure 400 {object} response.ResponseResult[response.ValidationDetails] "参数错误"
// @Failure 500 {object} response.ResponseResult[response.EmptyData] "服务器内部错误"
// @Router /api/search [post]
func (h *TripHandler) SubmitSearchAPI(c echo.Context) error {
	ctx := c.Request().Context()

	var form SearchForm
	if err := c.Bind(&form); err != nil {
		return response.EchoBadRequest(c, h.respWriter, "invalid request body")
	}
	form.Normalize()

	if err := c.Validate(&form); err != nil {
		return h.invalidParams(c, err)
	}

	in, err := form.ToInput()
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}

	result, err := h.service.Submit(ctx, middleware.GetSessionID(c), in)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}

	return response.EchoAccepted(c, h.respWriter, &SubmitResponse{
		RequestID: result.RequestID,
		Status:    result.Context.Suggestion.Status(),
		Request:   result.Request,
	})
}

// GetState 查询行程状态
// @Summary 查询行程状态
// @Description 返回当前会话的建议状态、日期区间与最近一次请求
// @Tags 行程
// @Produce json
// @Success 200 {object} response.ResponseResult[StateResponse] "获取成功"
// @Failure 500 {object} response.ResponseResult[response.EmptyData] "服务器内部错误"
// @Router /api/search/state [get]
func (h *TripHandler) GetState(c echo.Context) error {
	tc, err := h.service.State(c.Request().Context(), middleware.GetSessionID(c))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	resp := toStateResponse(c, tc)
	return response.EchoOK(c, h.respWriter, &resp)
}

// UpdateDates 写入日期区间
// @Summary 写入日期区间
// @Description 日期选择器写入会话中的日期区间，两端均可为空
// @Tags 行程
// @Accept json
// @Produce json
// @Param request body DatesRequest true "日期区间"
// @Success 200 {object} response.ResponseResult[StateResponse] "更新成功"
// @Failure 400 {object} response.ResponseResult[response.ValidationDetails] "参数错误"
// @Router /api/trip/dates [put]
func (h *TripHandler) UpdateDates(c echo.Context) error {
	ctx := c.Request().Context()

	var req DatesRequest
	if err := c.Bind(&req); err != nil {
		return response.EchoBadRequest(c, h.respWriter, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return h.invalidParams(c, err)
	}

	dates, err := model.ParseDateRange(req.From, req.To)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}

	tc, err := h.service.SetDates(ctx, middleware.GetSessionID(c), dates)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	resp := toStateResponse(c, tc)
	return response.EchoOK(c, h.respWriter, &resp)
}

// invalidParams 输出带字段列表的 400
func (h *TripHandler) invalidParams(c echo.Context, err error) error {
	appErr := xerrors.NewWithError(xerrors.CodeInvalidParams, "validation failed", err).
		WithMetadata("validation_errors", validator.TranslateValidationErrors(c.Request().Context(), err))
	return response.EchoError(c, h.respWriter, appErr)
}
