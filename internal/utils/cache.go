package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// QueryCache 推荐查询结果缓存（基于 go-cache）
type QueryCache struct {
	store *cache.Cache
	ttl   time.Duration
}

// NewQueryCache 创建查询缓存，清理间隔为过期时间的两倍
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get 获取缓存值
func (c *QueryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set 使用默认过期时间设置缓存值
func (c *QueryCache) Set(key string, value interface{}) {
	c.store.Set(key, value, cache.DefaultExpiration)
}

// DeleteExpired 清理过期条目，返回清理前后的条目数
func (c *QueryCache) DeleteExpired() (before, after int) {
	before = c.store.ItemCount()
	c.store.DeleteExpired()
	return before, c.store.ItemCount()
}

// Flush 清空所有缓存
func (c *QueryCache) Flush() {
	c.store.Flush()
}

// cacheItem 包装实际的数据，增加过期时间
type cacheItem[V any] struct {
	Value     V
	ExpiredAt time.Time
}

// TTLCache 带过期时间的 LRU 缓存
type TTLCache[K comparable, V any] struct {
	storage *lru.Cache[K, cacheItem[V]]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache size 是最大缓存条数，ttl 是数据有效期
func NewTTLCache[K comparable, V any](size int, ttl time.Duration) *TTLCache[K, V] {
	// lru.New 是线程安全的，size <= 0 时才会报错
	if size <= 0 {
		size = 1
	}
	c, _ := lru.New[K, cacheItem[V]](size)
	return &TTLCache[K, V]{
		storage: c,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set LRU 中 Add 会自动处理更新
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.storage.Add(key, cacheItem[V]{
		Value:     value,
		ExpiredAt: c.now().Add(c.ttl),
	})
}

// Get 带过期检查
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.Value, true
}

// Delete 删除
func (c *TTLCache[K, V]) Delete(key K) {
	c.storage.Remove(key)
}

// Len 当前长度（含未清理的过期条目）
func (c *TTLCache[K, V]) Len() int {
	return c.storage.Len()
}
