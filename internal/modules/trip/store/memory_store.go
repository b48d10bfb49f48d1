package store

import (
	"context"
	"sync"
	"time"

	"trip-planner/internal/modules/trip/model"
	"trip-planner/internal/pkg/log"
	"trip-planner/internal/pkg/metrics"
	"trip-planner/internal/pkg/xerrors"
)

const backendMemory = "memory"

type memoryEntry struct {
	tc        *model.TripContext
	expiresAt time.Time
}

// MemoryStore 进程内存储，空闲超过 TTL 的上下文由 Sweep 清理
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	metrics *metrics.StoreMetrics
	logger  log.Logger
	clock   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储
func NewMemoryStore(ttl time.Duration, m *metrics.StoreMetrics, logger log.Logger) *MemoryStore {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		metrics: m,
		logger:  logger.With("component", "trip_store", "backend", backendMemory),
		clock:   time.Now,
	}
}

func (s *MemoryStore) Backend() string { return backendMemory }

// Load 读取会话上下文，已过期视为不存在
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*model.TripContext, error) {
	start := time.Now()
	if sessionID == "" {
		s.metrics.RecordOperation(backendMemory, "load", false, time.Since(start))
		return nil, xerrors.NewValidationError("session_id", "session id is required")
	}

	now := s.clock()
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	var tc *model.TripContext
	if ok && now.Before(entry.expiresAt) {
		tc = entry.tc.Clone()
	}
	s.mu.RUnlock()

	if tc == nil {
		tc = model.NewTripContext(sessionID, now)
	}
	s.metrics.RecordOperation(backendMemory, "load", true, time.Since(start))
	return tc, nil
}

// Update 在写锁内执行 fn，成功后刷新 TTL
func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn UpdateFunc) (*model.TripContext, error) {
	start := time.Now()
	if sessionID == "" {
		s.metrics.RecordOperation(backendMemory, "update", false, time.Since(start))
		return nil, xerrors.NewValidationError("session_id", "session id is required")
	}

	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()

	var working *model.TripContext
	if entry, ok := s.entries[sessionID]; ok && now.Before(entry.expiresAt) {
		working = entry.tc.Clone()
	} else {
		working = model.NewTripContext(sessionID, now)
	}

	if err := fn(working); err != nil {
		s.metrics.RecordOperation(backendMemory, "update", false, time.Since(start))
		return nil, err
	}

	s.entries[sessionID] = &memoryEntry{tc: working, expiresAt: now.Add(s.ttl)}
	s.metrics.SetContexts(backendMemory, len(s.entries))
	s.metrics.RecordOperation(backendMemory, "update", true, time.Since(start))
	return working.Clone(), nil
}

// Sweep 删除过期上下文，返回删除数量
func (s *MemoryStore) Sweep(ctx context.Context) int {
	now := s.clock()

	s.mu.Lock()
	removed := 0
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	remaining := len(s.entries)
	s.mu.Unlock()

	s.metrics.AddSwept(backendMemory, removed)
	s.metrics.SetContexts(backendMemory, remaining)
	if removed > 0 {
		s.logger.DebugContext(ctx, "trip contexts swept", log.Int("removed", removed), log.Int("remaining", remaining))
	}
	return removed
}

// Len 当前保存的上下文数量（含未清理的过期项）
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
