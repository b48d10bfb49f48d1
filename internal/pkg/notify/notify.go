// Package notify 发布行程相关的 NATS 事件。未配置连接时所有发布静默跳过。
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"trip-planner/internal/pkg/trace"
	"trip-planner/internal/pkg/xerrors"

	"github.com/nats-io/nats.go"
)

// Default subjects
const (
	SubjectSuggestionCompleted = "trip.suggestion.completed"
	SubjectAuthLogin           = "trip.auth.login"
)

var (
	ncMu sync.RWMutex
	nc   *nats.Conn
)

// SetNatsConn 设置全局 NATS 连接（由 main 提供）
func SetNatsConn(conn *nats.Conn) {
	ncMu.Lock()
	defer ncMu.Unlock()
	nc = conn
}

// Connect 连接 NATS 并设为全局连接
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, xerrors.NewWithError(xerrors.CodeMessageQueueError, "nats connect failed", err).
			WithMetadata("url", url)
	}
	SetNatsConn(conn)
	return conn, nil
}

// Enabled 是否已配置连接
func Enabled() bool {
	ncMu.RLock()
	defer ncMu.RUnlock()
	return nc != nil
}

// SuggestionCompletedEvent 行程建议完成事件
type SuggestionCompletedEvent struct {
	SessionID  string    `json:"session_id"`
	RequestID  string    `json:"request_id"`
	Outcome    string    `json:"outcome"`
	Location   string    `json:"location"`
	DurationMs int64     `json:"duration_ms"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LoginEvent 登录事件，不包含任何凭据
type LoginEvent struct {
	IdentityID string    `json:"identity_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishSuggestionCompleted 发布行程建议完成事件
func PublishSuggestionCompleted(ctx context.Context, event SuggestionCompletedEvent) error {
	event.TraceID = trace.GetTraceID(ctx)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return Publish(ctx, SubjectSuggestionCompleted, event)
}

// PublishLogin 发布登录事件
func PublishLogin(ctx context.Context, identityID string) error {
	return Publish(ctx, SubjectAuthLogin, LoginEvent{
		IdentityID: identityID,
		TraceID:    trace.GetTraceID(ctx),
		OccurredAt: time.Now().UTC(),
	})
}

// Publish 序列化并发布事件
func Publish(ctx context.Context, subject string, payload interface{}) error {
	ncMu.RLock()
	conn := nc
	ncMu.RUnlock()
	if conn == nil {
		return nil // 没有连接时静默降级
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event failed: %w", subject, err)
	}
	if err := conn.Publish(subject, data); err != nil {
		return xerrors.NewWithError(xerrors.CodeMessageQueueError, "publish event failed", err).
			WithMetadata("subject", subject)
	}
	return nil
}
