package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	defaultRegistryManager = &RegistryManager{
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
)

// RegistryManager 管理默认的 Prometheus Registerer/Gatherer, 支持在测试中注入自定义实现。
type RegistryManager struct {
	mu         sync.RWMutex
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// GetRegisterer 返回当前的 Registerer。
func GetRegisterer() prometheus.Registerer {
	return defaultRegistryManager.Get()
}

// GetGatherer 返回 /metrics 使用的 Gatherer。
func GetGatherer() prometheus.Gatherer {
	defaultRegistryManager.mu.RLock()
	defer defaultRegistryManager.mu.RUnlock()
	if defaultRegistryManager.gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return defaultRegistryManager.gatherer
}

// WithRegisterer 在指定 Registerer 下执行 fn, 执行完成后恢复之前的 Registerer。
func WithRegisterer(r prometheus.Registerer, fn func()) {
	defaultRegistryManager.With(r, fn)
}

// Set 设置 Registerer。
func (m *RegistryManager) Set(r prometheus.Registerer) {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerer = r
	if g, ok := r.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
}

// Get 获取 Registerer。
func (m *RegistryManager) Get() prometheus.Registerer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.registerer == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registerer
}

// With 临时替换 Registerer。
func (m *RegistryManager) With(r prometheus.Registerer, fn func()) {
	m.mu.RLock()
	prevReg, prevGather := m.registerer, m.gatherer
	m.mu.RUnlock()

	m.Set(r)
	defer func() {
		m.mu.Lock()
		m.registerer, m.gatherer = prevReg, prevGather
		m.mu.Unlock()
	}()

	if fn != nil {
		fn()
	}
}
