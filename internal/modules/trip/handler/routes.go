package handler

import "github.com/labstack/echo/v4"

// RegisterRoutes 注册行程相关的页面与 JSON 路由
func RegisterRoutes(e *echo.Echo, h *TripHandler) {
	// 页面
	e.GET("/", h.Landing)
	e.POST("/search", h.SubmitSearch)
	e.GET(ResultPath, h.Result)

	// JSON 接口
	api := e.Group("/api")
	api.POST("/search", h.SubmitSearchAPI)
	api.GET("/search/state", h.GetState)
	api.PUT("/trip/dates", h.UpdateDates)
}
