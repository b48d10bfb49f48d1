package apitest

// SearchForm 行程搜索请求体
type SearchForm struct {
	Transportation string `json:"transportation"`
	Hotel          string `json:"hotel"`
	Location       string `json:"location"`
	Budget         string `json:"budget"`
	Traveller      string `json:"traveller"`
	Date           string `json:"date,omitempty"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
}

// SubmitResponse 提交结果
type SubmitResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// DatesRequest 日期区间
type DatesRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// StateResponse 会话行程状态
type StateResponse struct {
	Status     string `json:"status"`
	RequestID  string `json:"request_id"`
	Suggestion string `json:"suggestion"`
	ErrorCode  int    `json:"error_code"`
	DateRange  struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"date_range"`
}

// ValidationDetails 参数错误详情
type ValidationDetails struct {
	Fields []struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
	} `json:"fields"`
}
