package store

import (
	"context"

	"trip-planner/internal/modules/trip/model"
)

// UpdateFunc 在存储层的锁或事务内修改行程上下文
// 返回错误时放弃本次修改
type UpdateFunc func(tc *model.TripContext) error

// Store 按浏览器会话 ID 保存行程上下文
type Store interface {
	// Load 读取会话的行程上下文，不存在时返回新的空上下文（不落盘）
	Load(ctx context.Context, sessionID string) (*model.TripContext, error)

	// Update 原子地读取-修改-写回，返回写回后的副本
	Update(ctx context.Context, sessionID string, fn UpdateFunc) (*model.TripContext, error)

	// Backend 指标与日志中的后端名称
	Backend() string
}
