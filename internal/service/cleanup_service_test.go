package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/user/moodflix/internal/utils"
)

type countingPersister struct {
	calls int32
	err   error
}

func (p *countingPersister) PersistCache() (bool, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.err == nil, p.err
}

func TestCacheMaintenanceRunOnce(t *testing.T) {
	cache := utils.NewQueryCache(time.Millisecond)
	cache.Set("k", 1)
	time.Sleep(5 * time.Millisecond)

	p := &countingPersister{}
	NewCacheMaintenanceService(cache, p, time.Hour).RunOnce()

	_, ok := cache.Get("k")
	assert.False(t, ok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.calls))
}

func TestCacheMaintenanceToleratesPersistError(t *testing.T) {
	p := &countingPersister{err: errors.New("disk full")}
	svc := NewCacheMaintenanceService(nil, p, time.Hour)
	assert.NotPanics(t, svc.RunOnce)
}

func TestCacheMaintenanceStopsOnCancel(t *testing.T) {
	p := &countingPersister{}
	ctx, cancel := context.WithCancel(context.Background())
	NewCacheMaintenanceService(nil, p, 10*time.Millisecond).Start(ctx)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&p.calls) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	// 取消后最多再保存一次
	time.Sleep(30 * time.Millisecond)
	settled := atomic.LoadInt32(&p.calls)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt32(&p.calls))
}
