package service

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/user/moodflix/internal/metrics"
	"github.com/user/moodflix/internal/repository"
)

// CatalogService 启动时构建电影目录
type CatalogService struct {
	datasetPath  string
	snapshotPath string
	tagger       *SentimentTagger
}

// NewCatalogService tagger 为 nil 时使用默认词典
func NewCatalogService(datasetPath, snapshotPath string, tagger *SentimentTagger) *CatalogService {
	if tagger == nil {
		tagger = NewSentimentTagger(nil)
	}
	return &CatalogService{
		datasetPath:  datasetPath,
		snapshotPath: snapshotPath,
		tagger:       tagger,
	}
}

// Load 优先读取快照；没有快照时解析原始数据集、打情感标签并写出快照
func (s *CatalogService) Load() (*repository.Catalog, error) {
	start := time.Now()

	if s.snapshotPath != "" {
		films, err := repository.LoadSnapshot(s.snapshotPath)
		switch {
		case err == nil:
			catalog := repository.NewCatalog(films)
			metrics.CatalogSize.Set(float64(catalog.Len()))
			log.Printf("[CatalogService] 从快照加载 %d 部电影，耗时 %v", catalog.Len(), time.Since(start))
			return catalog, nil
		case os.IsNotExist(err):
			log.Printf("[CatalogService] 快照不存在，解析原始数据集: %s", s.datasetPath)
		default:
			log.Printf("[CatalogService] 快照读取失败，改为解析原始数据集: %v", err)
		}
	}

	raw, err := repository.LoadTMDBCSV(s.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("加载数据集失败: %w", err)
	}
	catalog := repository.NewCatalog(s.tagger.Tag(raw))
	metrics.CatalogSize.Set(float64(catalog.Len()))

	if s.snapshotPath != "" {
		if err := repository.SaveSnapshot(s.snapshotPath, catalog.Films()); err != nil {
			log.Printf("[CatalogService] 写入快照失败: %v", err)
		}
	}
	log.Printf("[CatalogService] 已加载并标注 %d 部电影，耗时 %v", catalog.Len(), time.Since(start))
	return catalog, nil
}
