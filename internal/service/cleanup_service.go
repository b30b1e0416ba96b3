package service

import (
	"context"
	"log"
	"time"

	"github.com/user/moodflix/internal/utils"
)

// CachePersister 可以把缓存写回磁盘的组件
type CachePersister interface {
	PersistCache() (bool, error)
}

// CacheMaintenanceService 定时清理查询缓存并保存补充信息缓存
type CacheMaintenanceService struct {
	queryCache *utils.QueryCache
	persister  CachePersister
	interval   time.Duration
}

// NewCacheMaintenanceService 创建维护服务
func NewCacheMaintenanceService(queryCache *utils.QueryCache, persister CachePersister, interval time.Duration) *CacheMaintenanceService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CacheMaintenanceService{
		queryCache: queryCache,
		persister:  persister,
		interval:   interval,
	}
}

// Start 启动时先运行一次，之后按间隔运行，ctx 取消后退出
func (s *CacheMaintenanceService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		s.RunOnce()
		for {
			select {
			case <-ctx.Done():
				// 退出前再保存一次
				s.persist()
				return
			case <-ticker.C:
				s.RunOnce()
			}
		}
	}()
}

// RunOnce 执行一次维护
func (s *CacheMaintenanceService) RunOnce() {
	if s.queryCache != nil {
		before, after := s.queryCache.DeleteExpired()
		if before != after {
			log.Printf("[CacheMaintenance] 已清理 %d 条过期查询缓存", before-after)
		}
	}
	s.persist()
}

func (s *CacheMaintenanceService) persist() {
	if s.persister == nil {
		return
	}
	saved, err := s.persister.PersistCache()
	if err != nil {
		log.Printf("[CacheMaintenance] 保存补充信息缓存失败: %v", err)
	} else if saved {
		log.Println("[CacheMaintenance] 补充信息缓存已保存")
	}
}
