package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"trip-planner/internal/pkg/log"
)

// DefaultSweepSpec 默认每 5 分钟清理一次
const DefaultSweepSpec = "@every 5m"

// Sweeper 可定时清理过期条目的内存结构
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// SweepTask 定时清理过期的行程上下文与身份缓存
type SweepTask struct {
	spec      string
	targets   map[string]Sweeper
	poolStats func()
	logger    log.Logger
	cron      *cron.Cron
}

// NewSweepTask 创建清理任务，spec 为空时使用 DefaultSweepSpec
func NewSweepTask(spec string, logger log.Logger) *SweepTask {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &SweepTask{
		spec:    spec,
		targets: make(map[string]Sweeper),
		logger:  logger.With("component", "sweep_task"),
	}
}

// Add 注册清理目标，需在 Start 之前调用
func (t *SweepTask) Add(name string, s Sweeper) *SweepTask {
	if s != nil {
		t.targets[name] = s
	}
	return t
}

// WithPoolStats 每轮顺带采集连接池指标（Redis）
func (t *SweepTask) WithPoolStats(fn func()) *SweepTask {
	t.poolStats = fn
	return t
}

// Start 启动定时任务
func (t *SweepTask) Start() error {
	t.cron = cron.New()

	_, err := t.cron.AddFunc(t.spec, func() {
		t.RunOnce(context.Background())
	})
	if err != nil {
		t.logger.Error("【定时任务】添加清理任务失败", err, log.String("spec", t.spec))
		return err
	}

	t.cron.Start()
	t.logger.Info("【定时任务】已启动", log.String("spec", t.spec), log.Int("targets", len(t.targets)))
	return nil
}

// RunOnce 执行一轮清理，返回各目标的清理数量
func (t *SweepTask) RunOnce(ctx context.Context) map[string]int {
	start := time.Now()
	removed := make(map[string]int, len(t.targets))
	total := 0
	for name, s := range t.targets {
		n := s.Sweep(ctx)
		removed[name] = n
		total += n
	}
	if t.poolStats != nil {
		t.poolStats()
	}

	if total > 0 {
		t.logger.InfoContext(ctx, "【定时任务】过期条目清理完成",
			log.Int("total_removed", total),
			log.Any("removed", removed),
			log.Elapsed("elapsed", start))
	} else {
		t.logger.DebugContext(ctx, "【定时任务】没有过期条目")
	}
	return removed
}

// Stop 停止定时任务（优雅关闭）
func (t *SweepTask) Stop() {
	if t.cron != nil {
		t.logger.Info("【定时任务】正在停止定时任务...")
		ctx := t.cron.Stop()
		<-ctx.Done()
		t.logger.Info("【定时任务】定时任务已停止")
	}
}
