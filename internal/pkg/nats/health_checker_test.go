package nats

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	connected atomic.Bool
	closed    atomic.Bool
}

func (f *fakeConn) IsConnected() bool { return f.connected.Load() }
func (f *fakeConn) IsClosed() bool    { return f.closed.Load() }

func TestHealthChecker_InitialState(t *testing.T) {
	conn := &fakeConn{}
	conn.connected.Store(true)

	hc := NewHealthChecker(conn, time.Second, nil)
	assert.True(t, hc.IsHealthy())
	assert.NoError(t, hc.Check(context.Background()))
}

func TestHealthChecker_TracksDisconnect(t *testing.T) {
	conn := &fakeConn{}
	conn.connected.Store(true)
	hc := NewHealthChecker(conn, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hc.Start(ctx)
	defer hc.Stop()

	conn.connected.Store(false)
	require.Eventually(t, func() bool { return !hc.IsHealthy() }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, hc.Check(context.Background()), ErrDisconnected)

	conn.connected.Store(true)
	require.Eventually(t, hc.IsHealthy, time.Second, 5*time.Millisecond)
}

func TestHealthChecker_ClosedIsUnhealthy(t *testing.T) {
	conn := &fakeConn{}
	conn.connected.Store(true)
	conn.closed.Store(true)

	hc := NewHealthChecker(conn, time.Second, nil)
	assert.False(t, hc.IsHealthy())

	// Stop 可重复调用
	hc.Stop()
	hc.Stop()
}
