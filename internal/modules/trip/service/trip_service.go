package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"trip-planner/internal/modules/trip/client"
	"trip-planner/internal/modules/trip/model"
	"trip-planner/internal/modules/trip/store"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	"trip-planner/internal/pkg/notify"
	"trip-planner/internal/pkg/xerrors"

	"github.com/google/uuid"
)

const (
	defaultCallTimeout = 2 * time.Minute
	// 结果写回存储的超时，与上游调用超时独立
	settleTimeout = 5 * time.Second
)

// Options 行程服务的可选依赖
type Options struct {
	// CallTimeout 单次上游调用超时，<= 0 使用默认值
	CallTimeout time.Duration
	Metrics     *metrics.SuggestionMetrics
	// Publish 结果事件发布，为空时使用 notify.PublishSuggestionCompleted
	Publish func(ctx context.Context, event notify.SuggestionCompletedEvent) error
}

// errSuperseded 同一会话有了更新的请求，旧调用以此原因取消
var errSuperseded = errors.New("superseded by a newer request")

type inflightCall struct {
	requestID string
	cancel    context.CancelCauseFunc
}

// sessionLock 串行化同一会话的 loading 写入与进行中登记
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// TripService 行程搜索：写入会话上下文并异步调用建议服务
type TripService struct {
	store       store.Store
	client      client.SuggestionClient
	logger      log.Logger
	metrics     *metrics.SuggestionMetrics
	publish     func(ctx context.Context, event notify.SuggestionCompletedEvent) error
	callTimeout time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	inflight map[string]inflightCall
	sessions map[string]*sessionLock

	newID func() string
	clock func() time.Time
}

// NewTripService 创建行程服务
func NewTripService(st store.Store, c client.SuggestionClient, logger log.Logger, opts Options) *TripService {
	if logger == nil {
		logger = log.GetLogger()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if opts.Publish == nil {
		opts.Publish = notify.PublishSuggestionCompleted
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	return &TripService{
		store:       st,
		client:      c,
		logger:      logger.With("component", "trip_service"),
		metrics:     opts.Metrics,
		publish:     opts.Publish,
		callTimeout: opts.CallTimeout,
		baseCtx:     baseCtx,
		cancel:      cancel,
		inflight:    make(map[string]inflightCall),
		sessions:    make(map[string]*sessionLock),
		newID:       uuid.NewString,
		clock:       time.Now,
	}
}

// SubmitInput 一次搜索提交
type SubmitInput struct {
	Fields model.SearchFields
	// Dates 表单中的日期区间，nil 表示沿用会话中已保存的区间
	Dates *model.DateRange
}

// SubmitResult 提交结果
type SubmitResult struct {
	RequestID string
	Request   model.SearchRequest
	Context   *model.TripContext
}

// Submit 写入 loading 状态并发出一次建议请求
// 请求在后台执行，不受调用方 context 取消的影响；同一会话的上一个请求随之作废
func (s *TripService) Submit(ctx context.Context, sessionID string, in SubmitInput) (*SubmitResult, error) {
	// 在检查 closed 的同一临界区内登记，Close 不会漏等
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, xerrors.New(xerrors.CodeInternalError, "trip service is shutting down").
			WithService("trip-service", "submit")
	}
	s.wg.Add(1)
	s.mu.Unlock()

	// 写入 loading 与登记进行中调用必须按同一顺序发生，否则旧请求可能取消新请求
	unlock := s.lockSession(sessionID)
	defer unlock()

	requestID := s.newID()
	var req model.SearchRequest
	tc, err := s.store.Update(ctx, sessionID, func(tc *model.TripContext) error {
		now := s.clock()
		if in.Dates != nil {
			tc.SetDateRange(*in.Dates, now)
		}
		req = model.NewSearchRequest(in.Fields, tc.DateRange)
		tc.Begin(requestID, req, now)
		return nil
	})
	if err != nil {
		s.wg.Done()
		return nil, xerrors.Wrap(err, xerrors.CodeCacheError, "save trip context failed").
			WithService("trip-service", "submit")
	}

	s.dispatch(ctx, sessionID, requestID, req)

	s.logger.InfoContext(ctx, "suggestion requested",
		log.String("request_id", requestID),
		log.String("location", req.Location),
		log.Bool("has_dates", req.StartDate != nil || req.EndDate != nil),
	)

	return &SubmitResult{RequestID: requestID, Request: req, Context: tc}, nil
}

// dispatch 启动后台调用并登记为该会话唯一的进行中请求
// 调用方已为该 goroutine 执行 wg.Add
func (s *TripService) dispatch(reqCtx context.Context, sessionID, requestID string, req model.SearchRequest) {
	// 保留 trace_id 等 context 值，但与请求生命周期解绑
	causeCtx, cancelCause := context.WithCancelCause(context.WithoutCancel(reqCtx))
	callCtx, cancel := context.WithTimeout(causeCtx, s.callTimeout)
	stop := context.AfterFunc(s.baseCtx, func() { cancelCause(nil) })

	s.mu.Lock()
	if prev, ok := s.inflight[sessionID]; ok {
		prev.cancel(errSuperseded)
		s.logger.DebugContext(reqCtx, "superseded in-flight suggestion",
			log.String("request_id", prev.requestID))
	}
	s.inflight[sessionID] = inflightCall{requestID: requestID, cancel: cancelCause}
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer stop()
		defer cancelCause(nil)
		defer cancel()
		defer s.release(sessionID, requestID)

		s.run(callCtx, sessionID, requestID, req)
	}()
}

// lockSession 获取会话锁，返回释放函数
func (s *TripService) lockSession(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.sessions[sessionID]
	if !ok {
		l = &sessionLock{}
		s.sessions[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
	}
}

func (s *TripService) release(sessionID, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.inflight[sessionID]; ok && cur.requestID == requestID {
		delete(s.inflight, sessionID)
	}
}

// run 调用建议服务并写回结果，过期结果直接丢弃
func (s *TripService) run(ctx context.Context, sessionID, requestID string, req model.SearchRequest) {
	start := time.Now()
	s.metrics.Started(client.ServiceName)

	text, callErr := s.client.Suggest(ctx, req)

	// 被更新请求取消的调用不写回，无论上游是否已返回
	if errors.Is(context.Cause(ctx), errSuperseded) {
		s.logger.DebugContext(ctx, "discarded superseded suggestion", log.String("request_id", requestID))
		s.finish(ctx, sessionID, requestID, req, metrics.OutcomeStale, start)
		return
	}

	var next model.SuggestionState
	if callErr != nil {
		code := xerrors.CodeExternalServiceError
		if appErr, ok := xerrors.As(callErr); ok {
			code = appErr.Code
		}
		next = model.Failed(requestID, code, s.clock())
	} else {
		next = model.Succeeded(requestID, text, s.clock())
	}

	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	applied := false
	_, storeErr := s.store.Update(settleCtx, sessionID, func(tc *model.TripContext) error {
		applied = tc.Settle(next, s.clock())
		return nil
	})

	outcome := metrics.OutcomeSuccess
	switch {
	case storeErr != nil:
		outcome = metrics.OutcomeFailure
		s.logger.ErrorContext(ctx, "save suggestion result failed",
			log.String("request_id", requestID),
			log.Any("error", storeErr))
	case !applied:
		outcome = metrics.OutcomeStale
		s.logger.DebugContext(ctx, "discarded stale suggestion result", log.String("request_id", requestID))
	case callErr != nil:
		outcome = metrics.OutcomeFailure
	}

	if callErr != nil && outcome != metrics.OutcomeStale {
		appErr := xerrors.Wrap(callErr, xerrors.CodeExternalServiceError, "suggestion request failed").
			WithMetadata("request_id", requestID)
		log.LogAppError(ctx, "suggestion request failed", appErr)
	}

	s.finish(ctx, sessionID, requestID, req, outcome, start)
}

// finish 记录指标并发布结果事件
func (s *TripService) finish(ctx context.Context, sessionID, requestID string, req model.SearchRequest, outcome string, start time.Time) {
	duration := time.Since(start)
	s.metrics.Finished(client.ServiceName, outcome, duration)

	if err := s.publish(ctx, notify.SuggestionCompletedEvent{
		SessionID:  sessionID,
		RequestID:  requestID,
		Outcome:    outcome,
		Location:   req.Location,
		DurationMs: duration.Milliseconds(),
	}); err != nil {
		s.logger.WarnContext(ctx, "publish suggestion event failed", log.Any("error", err))
	}
}

// State 读取会话的行程上下文
func (s *TripService) State(ctx context.Context, sessionID string) (*model.TripContext, error) {
	tc, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeCacheError, "load trip context failed").
			WithService("trip-service", "state")
	}
	return tc, nil
}

// SetDates 写入会话的日期区间（日期选择器）
func (s *TripService) SetDates(ctx context.Context, sessionID string, dates model.DateRange) (*model.TripContext, error) {
	if _, err := model.NewDateRange(dates.From, dates.To); err != nil {
		return nil, err
	}
	tc, err := s.store.Update(ctx, sessionID, func(tc *model.TripContext) error {
		tc.SetDateRange(dates, s.clock())
		return nil
	})
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeCacheError, "save trip dates failed").
			WithService("trip-service", "set_dates")
	}
	return tc, nil
}

// InFlight 当前进行中的上游调用数量
func (s *TripService) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// Close 拒绝新的提交并等待进行中的调用结束
// ctx 到期时取消剩余调用，它们会以失败状态写回
func (s *TripService) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "shutdown deadline reached, cancelling in-flight suggestions",
			log.Int("in_flight", s.InFlight()))
		s.cancel()
		<-done
		return ctx.Err()
	}
}
