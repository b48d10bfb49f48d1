package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trip-planner/internal/modules/trip/model"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	tripredis "trip-planner/internal/pkg/redis"
	"trip-planner/internal/pkg/xerrors"

	"github.com/redis/go-redis/v9"
)

const (
	backendRedis = "redis"

	// 乐观锁冲突时的最大重试次数
	maxUpdateRetries = 5
)

// RedisStore 以 JSON 保存行程上下文，Update 使用 WATCH/MULTI 乐观事务
type RedisStore struct {
	client  *tripredis.Client
	prefix  string
	ttl     time.Duration
	metrics *metrics.StoreMetrics
	logger  log.Logger
	clock   func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *tripredis.Client, prefix string, ttl time.Duration, m *metrics.StoreMetrics, logger log.Logger) *RedisStore {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		metrics: m,
		logger:  logger.With("component", "trip_store", "backend", backendRedis),
		clock:   time.Now,
	}
}

func (s *RedisStore) Backend() string { return backendRedis }

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Load 读取会话上下文，key 不存在或内容损坏时返回新的空上下文
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*model.TripContext, error) {
	if sessionID == "" {
		return nil, xerrors.NewValidationError("session_id", "session id is required")
	}

	data, err := s.client.GetBytes(ctx, s.key(sessionID))
	if err != nil && !tripredis.IsNil(err) {
		return nil, xerrors.NewCacheError("load_trip_context", err).WithMetadata("backend", backendRedis)
	}
	return s.decode(ctx, sessionID, data), nil
}

// abortError fn 返回的业务错误，不参与重试
type abortError struct{ err error }

func (e *abortError) Error() string { return e.err.Error() }
func (e *abortError) Unwrap() error { return e.err }

// Update WATCH key 后读取-修改-写回，冲突时重试
func (s *RedisStore) Update(ctx context.Context, sessionID string, fn UpdateFunc) (*model.TripContext, error) {
	start := time.Now()
	if sessionID == "" {
		return nil, xerrors.NewValidationError("session_id", "session id is required")
	}
	key := s.key(sessionID)

	var result *model.TripContext
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && !tripredis.IsNil(err) {
			return err
		}
		working := s.decode(ctx, sessionID, data)

		if err := fn(working); err != nil {
			return &abortError{err: err}
		}

		payload, err := json.Marshal(working)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err == nil {
			result = working
		}
		return err
	}

	for attempt := 1; attempt <= maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			s.metrics.RecordOperation(backendRedis, "update", true, time.Since(start))
			return result, nil
		}

		var abort *abortError
		if errors.As(err, &abort) {
			s.metrics.RecordOperation(backendRedis, "update", false, time.Since(start))
			return nil, abort.err
		}
		if errors.Is(err, redis.TxFailedErr) {
			s.metrics.IncConflict(backendRedis)
			s.logger.DebugContext(ctx, "trip context update conflict, retrying", log.Int("attempt", attempt))
			continue
		}

		s.metrics.RecordOperation(backendRedis, "update", false, time.Since(start))
		return nil, xerrors.NewCacheError("update_trip_context", err).WithMetadata("backend", backendRedis)
	}

	s.metrics.RecordOperation(backendRedis, "update", false, time.Since(start))
	return nil, xerrors.NewCacheError("update_trip_context", redis.TxFailedErr).
		WithMetadata("backend", backendRedis).
		WithMetadata("attempts", maxUpdateRetries)
}

func (s *RedisStore) decode(ctx context.Context, sessionID string, data []byte) *model.TripContext {
	if len(data) == 0 {
		return model.NewTripContext(sessionID, s.clock())
	}

	var tc model.TripContext
	if err := json.Unmarshal(data, &tc); err != nil {
		appErr := xerrors.NewWithError(xerrors.CodeDataIntegrityError, "corrupted trip context", err).
			WithService("trip-store", "decode").
			WithMetadata("session_id", sessionID)
		log.LogAppError(ctx, "discarding corrupted trip context", appErr)
		return model.NewTripContext(sessionID, s.clock())
	}
	tc.SessionID = sessionID
	return &tc
}
