// File: internal/pkg/i18n/messages.go
package i18n

import "golang.org/x/text/language"

// 页面文案的消息 key
const (
	KeyAppTitle       = "app.title"
	KeyNavHome        = "nav.home"
	KeyNavLogin       = "nav.login"
	KeyNavLogout      = "nav.logout"
	KeyLandingHeading = "landing.heading"
	KeySubmit         = "form.submit"

	KeyTransportLabel       = "search.transportation.label"
	KeyTransportHint        = "search.transportation.hint"
	KeyTransportPublic      = "search.transportation.publicTransit"
	KeyTransportRent        = "search.transportation.rent"
	KeyTransportPersonal    = "search.transportation.personalVehicle"
	KeyHotelLabel           = "search.hotel.label"
	KeyHotelHint            = "search.hotel.hint"
	KeyHotelOneStar         = "search.hotel.oneStar"
	KeyHotelTwoStar         = "search.hotel.twoStar"
	KeyHotelThreeStar       = "search.hotel.threeStar"
	KeyHotelFourStar        = "search.hotel.fourStar"
	KeyHotelFiveStar        = "search.hotel.fiveStar"
	KeyLocationLabel        = "search.location.label"
	KeyLocationHint         = "search.location.hint"
	KeyLocationPlaceholder  = "search.location.placeholder"
	KeyBudgetLabel          = "search.budget.label"
	KeyBudgetHint           = "search.budget.hint"
	KeyBudgetPlaceholder    = "search.budget.placeholder"
	KeyTravellerLabel       = "search.traveller.label"
	KeyTravellerHint        = "search.traveller.hint"
	KeyTravellerPlaceholder = "search.traveller.placeholder"
	KeyDateLabel            = "search.date.label"
	KeyDateHint             = "search.date.hint"
	KeyDateFrom             = "search.date.from"
	KeyDateTo               = "search.date.to"

	KeyResultTitle     = "result.title"
	KeyResultLoadTitle = "result.loading.title"
	KeyResultLoadBody  = "result.loading.body"
	KeyResultFailed    = "result.failed"
	KeyResultIdle      = "result.idle"
	KeyResultSubmitted = "result.submitted"
	KeyResultBack      = "result.back"

	KeyErrorTitle = "error.title"
	KeyErrorBack  = "error.back"

	KeyLoginTitle               = "login.title"
	KeyLoginDescription         = "login.description"
	KeyLoginEmail               = "login.email"
	KeyLoginEmailPlaceholder    = "login.email.placeholder"
	KeyLoginPassword            = "login.password"
	KeyLoginPasswordPlaceholder = "login.password.placeholder"
	KeyLoginNoAccount           = "login.no_account"
	KeyLoginSignUp              = "login.sign_up"
	KeyAlertSuccessTitle        = "alert.success.title"
	KeyAlertSuccessMessage      = "alert.success.message"
	KeyAlertErrorTitle          = "alert.error.title"
	KeyAlertErrorMessage        = "alert.error.message"

	KeyFieldRequired = "validation.required"
	KeyFieldOneOf    = "validation.oneof"
	KeyFieldEmail    = "validation.email"
	KeyFieldMin      = "validation.min"
	KeyFieldMax      = "validation.max"
	KeyFieldAfter    = "validation.gtefield"
	KeyFieldInvalid  = "validation.invalid"
)

// uiMessages 页面文案的多语言映射
var uiMessages = map[string]map[language.Tag]string{
	KeyAppTitle:       {language.English: "Trip Planner", language.Chinese: "行程规划"},
	KeyNavHome:        {language.English: "Home", language.Chinese: "首页"},
	KeyNavLogin:       {language.English: "Log In", language.Chinese: "登录"},
	KeyNavLogout:      {language.English: "Log Out", language.Chinese: "退出登录"},
	KeyLandingHeading: {language.English: "Make your trips come true", language.Chinese: "让你的旅行成真"},
	KeySubmit:         {language.English: "Submit", language.Chinese: "提交"},

	KeyTransportLabel:       {language.English: "Transportation", language.Chinese: "交通方式"},
	KeyTransportHint:        {language.English: "Transportation you would like to use", language.Chinese: "你希望使用的交通方式"},
	KeyTransportPublic:      {language.English: "Public Transit", language.Chinese: "公共交通"},
	KeyTransportRent:        {language.English: "Rent", language.Chinese: "租车"},
	KeyTransportPersonal:    {language.English: "Personal Vehicle", language.Chinese: "自驾"},
	KeyHotelLabel:           {language.English: "Hotel", language.Chinese: "酒店"},
	KeyHotelHint:            {language.English: "Hotel class you would like to stay in", language.Chinese: "你希望入住的酒店星级"},
	KeyHotelOneStar:         {language.English: "One Star", language.Chinese: "一星"},
	KeyHotelTwoStar:         {language.English: "Two Star", language.Chinese: "二星"},
	KeyHotelThreeStar:       {language.English: "Three Star", language.Chinese: "三星"},
	KeyHotelFourStar:        {language.English: "Four Star", language.Chinese: "四星"},
	KeyHotelFiveStar:        {language.English: "Five Star", language.Chinese: "五星"},
	KeyLocationLabel:        {language.English: "Location", language.Chinese: "目的地"},
	KeyLocationHint:         {language.English: "Location you would like to travel", language.Chinese: "你想去的地方"},
	KeyLocationPlaceholder:  {language.English: "ex. Montreal, Canada", language.Chinese: "例如: 加拿大 蒙特利尔"},
	KeyBudgetLabel:          {language.English: "Budget", language.Chinese: "预算"},
	KeyBudgetHint:           {language.English: "Budget for your trip", language.Chinese: "本次旅行的预算"},
	KeyBudgetPlaceholder:    {language.English: "ex. 2000$", language.Chinese: "例如: 2000$"},
	KeyTravellerLabel:       {language.English: "Traveller", language.Chinese: "出行人数"},
	KeyTravellerHint:        {language.English: "How many travelers?", language.Chinese: "有几位旅客?"},
	KeyTravellerPlaceholder: {language.English: "Number of travellers", language.Chinese: "旅客人数"},
	KeyDateLabel:            {language.English: "Date", language.Chinese: "日期"},
	KeyDateHint:             {language.English: "When are you travelling?", language.Chinese: "你打算什么时候出发?"},
	KeyDateFrom:             {language.English: "From", language.Chinese: "开始"},
	KeyDateTo:               {language.English: "To", language.Chinese: "结束"},

	KeyResultTitle:     {language.English: "Trip Recommendation", language.Chinese: "行程推荐"},
	KeyResultLoadTitle: {language.English: "Heads up!", language.Chinese: "请注意!"},
	KeyResultLoadBody:  {language.English: "We are currently cooking your schedule for the trip! Please be patient!", language.Chinese: "我们正在为你规划行程! 请耐心等待!"},
	KeyResultFailed:    {language.English: "We could not prepare your trip right now. Please try again.", language.Chinese: "暂时无法生成你的行程，请稍后重试。"},
	KeyResultIdle:      {language.English: "No trip has been requested yet.", language.Chinese: "尚未提交行程请求。"},
	KeyResultSubmitted: {language.English: "You submitted the following values:", language.Chinese: "你提交了以下内容:"},
	KeyResultBack:      {language.English: "Plan another trip", language.Chinese: "规划另一次旅行"},

	KeyErrorTitle: {language.English: "Something went wrong", language.Chinese: "出错了"},
	KeyErrorBack:  {language.English: "Back to home", language.Chinese: "返回首页"},

	KeyLoginTitle:               {language.English: "Log In", language.Chinese: "登录"},
	KeyLoginDescription:         {language.English: "Continue the journey with us here.", language.Chinese: "在这里继续你的旅程。"},
	KeyLoginEmail:               {language.English: "Email", language.Chinese: "邮箱"},
	KeyLoginEmailPlaceholder:    {language.English: "Enter your email...", language.Chinese: "请输入邮箱..."},
	KeyLoginPassword:            {language.English: "Password", language.Chinese: "密码"},
	KeyLoginPasswordPlaceholder: {language.English: "Password", language.Chinese: "密码"},
	KeyLoginNoAccount:           {language.English: "You don't have an account?", language.Chinese: "还没有账号?"},
	KeyLoginSignUp:              {language.English: "Sign Up", language.Chinese: "注册"},
	KeyAlertSuccessTitle:        {language.English: "Success", language.Chinese: "成功"},
	KeyAlertSuccessMessage:      {language.English: "You are now logged in.", language.Chinese: "登录成功。"},
	KeyAlertErrorTitle:          {language.English: "Error", language.Chinese: "错误"},
	KeyAlertErrorMessage:        {language.English: "Invalid email or password. Please try again.", language.Chinese: "邮箱或密码错误，请重试。"},

	KeyFieldRequired: {language.English: "%s is required", language.Chinese: "%s为必填项"},
	KeyFieldOneOf:    {language.English: "%s must be one of: %s", language.Chinese: "%s必须是以下之一: %s"},
	KeyFieldEmail:    {language.English: "%s must be a valid email address", language.Chinese: "%s必须是有效的邮箱地址"},
	KeyFieldMin:      {language.English: "%s must be at least %s characters", language.Chinese: "%s长度不能少于%s个字符"},
	KeyFieldMax:      {language.English: "%s must be at most %s characters", language.Chinese: "%s长度不能超过%s个字符"},
	KeyFieldAfter:    {language.English: "%s must not be before %s", language.Chinese: "%s不能早于%s"},
	KeyFieldInvalid:  {language.English: "%s is invalid", language.Chinese: "%s无效"},
}

func init() {
	for key, messages := range uiMessages {
		for lang, msg := range messages {
			if err := builder.SetString(lang, key, msg); err != nil {
				panic(err)
			}
		}
	}
}
