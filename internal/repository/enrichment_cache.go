package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"github.com/user/moodflix/internal/model"
)

// EnrichmentCache TMDB 补充信息的磁盘缓存，文件为 {"<id>": FilmDetails} 形式的 JSON
type EnrichmentCache struct {
	path  string
	mu    sync.RWMutex
	items map[string]model.FilmDetails
	dirty bool
}

// NewEnrichmentCache 创建缓存，path 为空时只在内存中保存
func NewEnrichmentCache(path string) *EnrichmentCache {
	return &EnrichmentCache{
		path:  path,
		items: make(map[string]model.FilmDetails),
	}
}

// Load 从磁盘读取缓存，文件不存在不算错误
func (c *EnrichmentCache) Load() error {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取补充信息缓存失败: %w", err)
	}

	items := make(map[string]model.FilmDetails)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("解析补充信息缓存失败: %w", err)
		}
	}

	c.mu.Lock()
	c.items = items
	c.dirty = false
	c.mu.Unlock()
	return nil
}

// Save 有改动时写回磁盘，返回是否实际写入
func (c *EnrichmentCache) Save() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" || !c.dirty {
		return false, nil
	}
	data, err := json.MarshalIndent(c.items, "", "  ")
	if err != nil {
		return false, err
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("写入补充信息缓存失败: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return false, err
	}
	c.dirty = false
	return true, nil
}

// Get 读取某部电影的补充信息
func (c *EnrichmentCache) Get(filmID int) (model.FilmDetails, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.items[strconv.Itoa(filmID)]
	return d, ok
}

// Put 写入补充信息，等待下次 Save 落盘
func (c *EnrichmentCache) Put(filmID int, details model.FilmDetails) {
	c.mu.Lock()
	c.items[strconv.Itoa(filmID)] = details
	c.dirty = true
	c.mu.Unlock()
}

// Len 条目数
func (c *EnrichmentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
