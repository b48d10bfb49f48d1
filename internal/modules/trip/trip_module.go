// Package trip 行程搜索模块：会话行程上下文、建议服务调用与页面/接口路由。
package trip

import (
	"context"
	"fmt"

	"trip-planner/internal/modules/trip/client"
	"trip-planner/internal/modules/trip/handler"
	"trip-planner/internal/modules/trip/service"
	"trip-planner/internal/modules/trip/store"
	"trip-planner/internal/modules/trip/tasks"
	"trip-planner/internal/pkg/config"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	tripredis "trip-planner/internal/pkg/redis"
	"trip-planner/internal/pkg/response"

	"github.com/labstack/echo/v4"
)

// Deps 模块依赖，由 main 组装
type Deps struct {
	Config     config.Config
	Logger     log.Logger
	RespWriter response.Writer
	// Redis 为空时只能使用内存存储
	Redis *tripredis.Client
	// SweepTask 由 main 统一创建，模块只注册自己的清理目标
	SweepTask *tasks.SweepTask
}

// Module 行程模块
type Module struct {
	logger  log.Logger
	store   store.Store
	service *service.TripService
	handler *handler.TripHandler
}

// NewModule 按配置组装存储、客户端、服务与 Handler
func NewModule(deps Deps) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	cfg := deps.Config

	st, err := newStore(deps, logger)
	if err != nil {
		return nil, err
	}

	suggestionClient, err := client.NewHTTPClient(cfg.Suggestion.BaseURL, cfg.Suggestion.Timeout.Std())
	if err != nil {
		return nil, fmt.Errorf("init suggestion client: %w", err)
	}

	svc := service.NewTripService(st, suggestionClient, logger, service.Options{
		CallTimeout: cfg.Suggestion.Timeout.Std(),
		Metrics:     metrics.DefaultSuggestionMetrics,
	})

	logger.Info("行程模块初始化完成",
		log.String("store", st.Backend()),
		log.String("suggestion_url", cfg.Suggestion.BaseURL))

	return &Module{
		logger:  logger,
		store:   st,
		service: svc,
		handler: handler.NewTripHandler(svc, deps.RespWriter, logger),
	}, nil
}

func newStore(deps Deps, logger log.Logger) (store.Store, error) {
	cfg := deps.Config
	switch cfg.Store.Driver {
	case config.StoreRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("store.driver is redis but no redis client is configured")
		}
		if deps.SweepTask != nil {
			deps.SweepTask.WithPoolStats(deps.Redis.RecordPoolStats)
		}
		return store.NewRedisStore(deps.Redis, cfg.Redis.Prefix, cfg.Store.TTL.Std(), metrics.DefaultStoreMetrics, logger), nil
	default:
		mem := store.NewMemoryStore(cfg.Store.TTL.Std(), metrics.DefaultStoreMetrics, logger)
		if deps.SweepTask != nil {
			deps.SweepTask.Add("trip_contexts", mem)
		}
		return mem, nil
	}
}

// RegisterRoutes 注册页面与 JSON 路由
func (m *Module) RegisterRoutes(e *echo.Echo) {
	handler.RegisterRoutes(e, m.handler)
}

// Service 行程服务
func (m *Module) Service() *service.TripService {
	return m.service
}

// Shutdown 等待进行中的建议请求结束，ctx 到期后取消剩余请求
func (m *Module) Shutdown(ctx context.Context) error {
	m.logger.Info("等待进行中的行程建议请求", log.Int("in_flight", m.service.InFlight()))
	return m.service.Close(ctx)
}
