package model

import (
	"time"

	"trip-planner/internal/pkg/xerrors"
)

// DateLayout 页面日期格式
const DateLayout = "2006-01-02"

// DateRange 行程日期区间，两端均可为空
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// NewDateRange 创建日期区间，to 早于 from 时返回 CodeInvalidDateRange
func NewDateRange(from, to *time.Time) (DateRange, error) {
	if from != nil && to != nil && to.Before(*from) {
		return DateRange{}, xerrors.FromCode(xerrors.CodeInvalidDateRange).
			WithMetadata("from", from.Format(DateLayout)).
			WithMetadata("to", to.Format(DateLayout))
	}
	return DateRange{From: from, To: to}, nil
}

// ParseDateRange 解析页面日期字符串，空字符串视为未选择
func ParseDateRange(from, to string) (DateRange, error) {
	fromT, err := parseOptionalDate("from", from)
	if err != nil {
		return DateRange{}, err
	}
	toT, err := parseOptionalDate("to", to)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(fromT, toT)
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, xerrors.NewValidationError(field, "date must use YYYY-MM-DD").WithMetadata("value", s)
	}
	return &t, nil
}

// IsZero 两端都未选择
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// FromString 页面回填用
func (r DateRange) FromString() string {
	return formatDate(r.From)
}

// ToString 页面回填用
func (r DateRange) ToString() string {
	return formatDate(r.To)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// SearchFields 表单提交的行程字段（不含日期区间）
type SearchFields struct {
	Transportation Transportation
	Hotel          HotelTier
	Location       string
	Budget         string
	Traveller      TravellerCount
	Date           string
}

// SearchRequest 发送给建议服务的请求体
// 字段名与建议服务的 JSON 约定一致，日期序列化为 RFC 3339
type SearchRequest struct {
	Transportation Transportation `json:"transportation"`
	Hotel          HotelTier      `json:"hotel"`
	Location       string         `json:"location"`
	Budget         string         `json:"budget"`
	Traveller      TravellerCount `json:"traveller"`
	Date           string         `json:"date,omitempty"`
	StartDate      *time.Time     `json:"startDate,omitempty"`
	EndDate        *time.Time     `json:"endDate,omitempty"`
}

// NewSearchRequest 合并表单字段与会话中的日期区间
func NewSearchRequest(fields SearchFields, dates DateRange) SearchRequest {
	return SearchRequest{
		Transportation: fields.Transportation,
		Hotel:          fields.Hotel,
		Location:       fields.Location,
		Budget:         fields.Budget,
		Traveller:      fields.Traveller,
		Date:           fields.Date,
		StartDate:      copyTime(dates.From),
		EndDate:        copyTime(dates.To),
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// SuggestionResponse 建议服务的响应体
// 字段缺失时 GPTSuggestion 为 nil，空字符串是合法的建议
type SuggestionResponse struct {
	GPTSuggestion *string `json:"GPTSuggestion"`
}

// TripContext 单个浏览器会话共享的行程状态
type TripContext struct {
	SessionID   string          `json:"session_id"`
	DateRange   DateRange       `json:"date_range"`
	Suggestion  SuggestionState `json:"suggestion"`
	LastRequest *SearchRequest  `json:"last_request,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewTripContext 创建空的行程上下文
func NewTripContext(sessionID string, now time.Time) *TripContext {
	return &TripContext{
		SessionID:  sessionID,
		Suggestion: Idle(),
		UpdatedAt:  now,
	}
}

// SetDateRange 写入日期区间
func (t *TripContext) SetDateRange(r DateRange, now time.Time) {
	t.DateRange = r
	t.UpdatedAt = now
}

// Begin 开始新的建议请求，之前未完成的请求随之作废
func (t *TripContext) Begin(requestID string, req SearchRequest, now time.Time) {
	t.Suggestion = Loading(requestID, now)
	t.LastRequest = &req
	t.UpdatedAt = now
}

// Settle 写入请求结果
// 仅当当前状态仍是同一请求的 loading 时生效，返回 false 表示结果已过期
func (t *TripContext) Settle(next SuggestionState, now time.Time) bool {
	if !next.IsSettled() || !t.Suggestion.IsLoading() || t.Suggestion.RequestID() != next.RequestID() {
		return false
	}
	t.Suggestion = next
	t.UpdatedAt = now
	return true
}

// Clone 深拷贝，存储层读写时使用
func (t *TripContext) Clone() *TripContext {
	if t == nil {
		return nil
	}
	c := *t
	c.DateRange = DateRange{From: copyTime(t.DateRange.From), To: copyTime(t.DateRange.To)}
	if t.LastRequest != nil {
		req := *t.LastRequest
		req.StartDate = copyTime(t.LastRequest.StartDate)
		req.EndDate = copyTime(t.LastRequest.EndDate)
		c.LastRequest = &req
	}
	return &c
}
