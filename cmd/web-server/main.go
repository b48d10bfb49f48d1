package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	docs "trip-planner/docs/web"
	"trip-planner/internal/modules/auth"
	"trip-planner/internal/modules/trip"
	"trip-planner/internal/modules/trip/tasks"
	"trip-planner/internal/pkg/config"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	tripnats "trip-planner/internal/pkg/nats"
	"trip-planner/internal/pkg/notify"
	tripredis "trip-planner/internal/pkg/redis"
	"trip-planner/internal/pkg/response"
	"trip-planner/internal/server"
)

const serviceName = "trip-planner"

// @title           Trip Planner API
// @version         1.0
// @description     行程规划 Web 前端的 JSON 接口：提交行程搜索、轮询建议状态、写入日期区间

// @BasePath  /

func main() {
	configPath := flag.String("config", "", "TOML 配置文件路径（为空时读取 TRIP_CONFIG）")
	flag.Parse()

	fmt.Println("==============================================")
	fmt.Println("  Trip Planner Web Server")
	fmt.Println("==============================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Main] 加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log.Init(log.ParseLevel(cfg.LogLevel), cfg.Environment)
	logger := log.GetLogger()
	logger.Info("配置加载完成", log.Any("config", cfg.LogFields()))

	metrics.SetServiceName(serviceName)

	// Swagger 跟随当前请求的 host
	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.BasePath = "/"

	if err := run(cfg, logger); err != nil {
		logger.Error("服务异常退出", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var healthChecks []server.HealthCheck

	// Redis（仅 store.driver = redis 时连接）
	var redisClient *tripredis.Client
	if cfg.Store.Driver == config.StoreRedis {
		rc, err := tripredis.NewClient(ctx, tripredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rc.Close()
		redisClient = rc
		healthChecks = append(healthChecks, server.HealthCheck{Name: "redis", Check: rc.Healthy})
		logger.Info("Redis 连接初始化成功", log.String("addr", cfg.Redis.Addr))
	}

	// NATS（可选，未配置时事件静默跳过）
	if cfg.NATS.URL != "" {
		nc, err := notify.Connect(cfg.NATS.URL, serviceName)
		if err != nil {
			logger.Warn("NATS 连接失败，事件发布已禁用", log.Any("error", err))
		} else {
			defer nc.Close()
			checker := tripnats.NewHealthChecker(nc, 10*time.Second, logger)
			go checker.Start(ctx)
			defer checker.Stop()
			healthChecks = append(healthChecks, server.HealthCheck{Name: "nats", Check: checker.Check})
			logger.Info("NATS 连接成功", log.String("url", cfg.NATS.URL))
		}
	}

	sweepTask := tasks.NewSweepTask(cfg.Store.SweepSpec, logger)
	respWriter := response.NewResponseHandler(logger, cfg.Environment)

	tripModule, err := trip.NewModule(trip.Deps{
		Config:     cfg,
		Logger:     logger,
		RespWriter: respWriter,
		Redis:      redisClient,
		SweepTask:  sweepTask,
	})
	if err != nil {
		return err
	}

	authModule := auth.NewModule(auth.Deps{
		Config:    cfg,
		Logger:    logger,
		SweepTask: sweepTask,
	})

	srv, err := server.New(server.Options{
		Config:       cfg,
		Logger:       logger,
		RespWriter:   respWriter,
		Identity:     authModule.IdentityMiddleware(),
		HealthChecks: healthChecks,
	})
	if err != nil {
		return err
	}
	srv.Mount(tripModule, authModule)

	if err := sweepTask.Start(); err != nil {
		return err
	}
	defer sweepTask.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("收到退出信号，开始优雅关闭")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP 服务器关闭失败", log.Any("error", err))
	}
	if err := tripModule.Shutdown(shutdownCtx); err != nil {
		logger.Warn("行程建议请求未在超时前完成", log.Any("error", err))
	}

	logger.Info("服务已关闭")
	return nil
}
