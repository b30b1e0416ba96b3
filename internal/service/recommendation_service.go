package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/user/moodflix/internal/metrics"
	"github.com/user/moodflix/internal/model"
	"github.com/user/moodflix/internal/utils"
)

// ErrFilmNotFound 目录中没有该电影
var ErrFilmNotFound = errors.New("film introuvable")

// Catalog 推荐服务需要的只读目录
type Catalog interface {
	Films() []model.Film
	FindByID(id int) (model.Film, bool)
	Len() int
}

// Enricher 为结果补充展示信息
type Enricher interface {
	Enrich(ctx context.Context, film model.Film) model.Film
	EnrichAll(ctx context.Context, films []model.Film) []model.Film
}

// SearchResult 组合搜索的结果
type SearchResult struct {
	Films    []model.Film          `json:"films"`
	Emotion  *model.EmotionProfile `json:"emotion,omitempty"`
	TitleHit bool                  `json:"title_hit"`
}

// RecommendationService 在引擎之上加缓存、补充信息和指标
type RecommendationService struct {
	catalog  Catalog
	engine   *RecommendationEngine
	enricher Enricher
	cache    *utils.QueryCache
	limit    int
}

// NewRecommendationService enricher 和 cache 可以为 nil
func NewRecommendationService(catalog Catalog, engine *RecommendationEngine, enricher Enricher, cache *utils.QueryCache, limit int) *RecommendationService {
	if engine == nil {
		engine = NewRecommendationEngine(nil)
	}
	if limit <= 0 {
		limit = 5
	}
	return &RecommendationService{
		catalog:  catalog,
		engine:   engine,
		enricher: enricher,
		cache:    cache,
		limit:    limit,
	}
}

// Limit 默认返回条数
func (s *RecommendationService) Limit() int {
	return s.limit
}

// Emotions 所有情绪的展示信息
func (s *RecommendationService) Emotions() []model.EmotionProfile {
	return s.engine.Emotions().Profiles()
}

// Lookup 按标题查找（精确或模糊）
func (s *RecommendationService) Lookup(ctx context.Context, title string) (model.Film, error) {
	metrics.RecordRecommendation("title", false)
	// 模糊匹配区分大小写，键不能转小写
	key := "title:" + strings.TrimSpace(title)
	if v, ok := s.cacheGet(key); ok {
		film, ok := v.(model.Film)
		if !ok {
			return model.Film{}, ErrFilmNotFound
		}
		return s.enrich(ctx, film), nil
	}

	film, ok := s.engine.SearchByTitle(title, s.catalog.Films())
	if !ok {
		s.cacheSet(key, false)
		return model.Film{}, ErrFilmNotFound
	}
	s.cacheSet(key, film)
	return s.enrich(ctx, film), nil
}

// Film 按 id 取电影详情
func (s *RecommendationService) Film(ctx context.Context, id int) (model.Film, error) {
	film, ok := s.catalog.FindByID(id)
	if !ok {
		return model.Film{}, ErrFilmNotFound
	}
	return s.enrich(ctx, film), nil
}

// ByEmotion 按情绪推荐
func (s *RecommendationService) ByEmotion(ctx context.Context, emotion string, n int) []model.Film {
	key := fmt.Sprintf("emotion:%s:%d", utils.NormalizeKey(emotion), n)
	if v, ok := s.cacheGet(key); ok {
		metrics.RecordRecommendation("emotion", false)
		return s.enrichAll(ctx, v.([]model.Film))
	}

	ranking := s.engine.RankByEmotion(emotion, s.catalog.Films(), n)
	metrics.RecordRecommendation("emotion", ranking.Fallback)
	if ranking.Fallback {
		log.Printf("[Recommend] 情绪 %q 没有匹配类型，使用全局评分排序", emotion)
	}
	s.cacheSet(key, ranking.Films)
	return s.enrichAll(ctx, ranking.Films)
}

// Similar 与某部电影相似的电影
func (s *RecommendationService) Similar(ctx context.Context, id, n int) ([]model.Film, error) {
	ref, ok := s.catalog.FindByID(id)
	if !ok {
		return nil, ErrFilmNotFound
	}
	metrics.RecordRecommendation("similar", false)

	key := fmt.Sprintf("similar:%d:%d", id, n)
	if v, ok := s.cacheGet(key); ok {
		return s.enrichAll(ctx, v.([]model.Film)), nil
	}
	films := s.engine.RecommendSimilar(ref, s.catalog.Films(), n)
	s.cacheSet(key, films)
	return s.enrichAll(ctx, films), nil
}

// Search 标题命中放在最前，其后是情绪推荐，按 id 去重
func (s *RecommendationService) Search(ctx context.Context, title, emotion string) SearchResult {
	var result SearchResult
	films := make([]model.Film, 0, s.limit+1)
	if strings.TrimSpace(title) != "" {
		if film, ok := s.engine.SearchByTitle(title, s.catalog.Films()); ok {
			films = append(films, film)
			result.TitleHit = true
		}
		metrics.RecordRecommendation("title", false)
	}
	if strings.TrimSpace(emotion) != "" {
		ranking := s.engine.RankByEmotion(emotion, s.catalog.Films(), s.limit)
		metrics.RecordRecommendation("emotion", ranking.Fallback)
		films = append(films, ranking.Films...)
		if p, ok := s.engine.Emotions().Profile(emotion); ok {
			result.Emotion = &p
		}
	}

	result.Films = s.enrichAll(ctx, DedupeFilms(films))
	return result
}

// Resolve 把收藏的 id 换成目录中的电影，不存在的 id 跳过
func (s *RecommendationService) Resolve(ctx context.Context, ids []int) []model.Film {
	films := make([]model.Film, 0, len(ids))
	for _, id := range ids {
		if film, ok := s.catalog.FindByID(id); ok {
			films = append(films, film)
		}
	}
	return s.enrichAll(ctx, films)
}

// FlushCache 清空查询缓存
func (s *RecommendationService) FlushCache() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

func (s *RecommendationService) cacheGet(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	metrics.RecordQueryCache(ok)
	return v, ok
}

func (s *RecommendationService) cacheSet(key string, v interface{}) {
	if s.cache != nil {
		s.cache.Set(key, v)
	}
}

func (s *RecommendationService) enrich(ctx context.Context, film model.Film) model.Film {
	if s.enricher == nil {
		return film
	}
	return s.enricher.Enrich(ctx, film)
}

// enrichAll 缓存中的切片是共享的，这里总是返回新切片
func (s *RecommendationService) enrichAll(ctx context.Context, films []model.Film) []model.Film {
	if s.enricher == nil {
		out := make([]model.Film, len(films))
		copy(out, films)
		return out
	}
	return s.enricher.EnrichAll(ctx, films)
}
