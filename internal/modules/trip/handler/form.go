package handler

import (
	"strconv"
	"strings"

	"trip-planner/internal/modules/trip/model"
	"trip-planner/internal/modules/trip/service"
)

// SearchForm 行程搜索表单，页面表单与 JSON 接口共用
type SearchForm struct {
	Transportation string `json:"transportation" form:"transportation" validate:"required,oneof=publicTransit rent personalVehicle" example:"publicTransit"` // 出行方式
	Hotel          string `json:"hotel" form:"hotel" validate:"required,oneof=oneStar twoStar threeStar fourStar fiveStar" example:"threeStar"`              // 酒店星级
	Location       string `json:"location" form:"location" validate:"required,safe_text" example:"Montreal, Canada"`                                         // 目的地
	Budget         string `json:"budget" form:"budget" validate:"required,safe_text" example:"2000$"`                                                        // 预算
	Traveller      string `json:"traveller" form:"traveller" validate:"required,oneof=one two three four five six" example:"two"`                            // 出行人数
	Date           string `json:"date,omitempty" form:"date" validate:"omitempty,safe_text" example:""`                                                      // 日期备注（可选）
	StartDate      string `json:"startDate,omitempty" form:"startDate" validate:"omitempty,datetime=2006-01-02" example:"2024-06-01"`                        // 开始日期
	EndDate        string `json:"endDate,omitempty" form:"endDate" validate:"omitempty,datetime=2006-01-02,date_not_before=StartDate" example:"2024-06-07"`  // 结束日期
}

// Normalize 去除首尾空白并兼容旧版出行方式拼写，在校验前调用
func (f *SearchForm) Normalize() {
	f.Transportation = strings.TrimSpace(f.Transportation)
	if t, ok := model.ParseTransportation(f.Transportation); ok {
		f.Transportation = string(t)
	}
	f.Hotel = strings.TrimSpace(f.Hotel)
	f.Location = strings.TrimSpace(f.Location)
	f.Budget = strings.TrimSpace(f.Budget)
	f.Traveller = strings.TrimSpace(f.Traveller)
	f.Date = strings.TrimSpace(f.Date)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
}

// ToInput 转换为服务层输入，调用前表单必须已通过校验
// 两个日期都为空时沿用会话中已保存的日期区间
func (f SearchForm) ToInput() (service.SubmitInput, error) {
	in := service.SubmitInput{
		Fields: model.SearchFields{
			Transportation: model.Transportation(f.Transportation),
			Hotel:          model.HotelTier(f.Hotel),
			Location:       f.Location,
			Budget:         f.Budget,
			Traveller:      model.TravellerCount(f.Traveller),
			Date:           f.Date,
		},
	}
	if f.StartDate == "" && f.EndDate == "" {
		return in, nil
	}
	dates, err := model.ParseDateRange(f.StartDate, f.EndDate)
	if err != nil {
		return service.SubmitInput{}, err
	}
	in.Dates = &dates
	return in, nil
}

// formFromContext 用会话中保存的内容回填表单
func formFromContext(tc *model.TripContext) SearchForm {
	var f SearchForm
	if tc == nil {
		return f
	}
	if req := tc.LastRequest; req != nil {
		f.Transportation = string(req.Transportation)
		f.Hotel = string(req.Hotel)
		f.Location = req.Location
		f.Budget = req.Budget
		f.Traveller = string(req.Traveller)
		f.Date = req.Date
	}
	f.StartDate = tc.DateRange.FromString()
	f.EndDate = tc.DateRange.ToString()
	return f
}

// DatesRequest 日期选择器写入
type DatesRequest struct {
	From string `json:"from" form:"from" validate:"omitempty,datetime=2006-01-02" example:"2024-06-01"`                  // 开始日期
	To   string `json:"to" form:"to" validate:"omitempty,datetime=2006-01-02,date_not_before=From" example:"2024-06-07"` // 结束日期
}

// Option 下拉选项
type Option struct {
	Value    string
	LabelKey string
	Label    string
}

func transportationOptions() []Option {
	opts := make([]Option, 0, len(model.Transportations))
	for _, t := range model.Transportations {
		opts = append(opts, Option{Value: string(t), LabelKey: t.LabelKey()})
	}
	return opts
}

func hotelOptions() []Option {
	opts := make([]Option, 0, len(model.HotelTiers))
	for _, h := range model.HotelTiers {
		opts = append(opts, Option{Value: string(h), LabelKey: h.LabelKey()})
	}
	return opts
}

func travellerOptions() []Option {
	opts := make([]Option, 0, len(model.TravellerCounts))
	for _, c := range model.TravellerCounts {
		opts = append(opts, Option{Value: string(c), Label: strconv.Itoa(c.Int())})
	}
	return opts
}
