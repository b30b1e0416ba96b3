package service

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/user/moodflix/internal/model"
)

// DefaultFuzzyCutoff 模糊匹配的最低相似度
const DefaultFuzzyCutoff = 0.55

// RecommendationEngine 标题搜索与推荐排序
// 所有方法只读 films，打分字段只写在副本上
type RecommendationEngine struct {
	emotions    *EmotionMap
	cutoff      float64
	rankByScore bool
}

// EngineOption 引擎选项
type EngineOption func(*RecommendationEngine)

// WithFuzzyCutoff 设置模糊匹配阈值
func WithFuzzyCutoff(cutoff float64) EngineOption {
	return func(e *RecommendationEngine) {
		if cutoff > 0 && cutoff <= 1 {
			e.cutoff = cutoff
		}
	}
}

// WithRankByScore 情绪推荐按 score_emotion 排序，默认按原始评分
func WithRankByScore(enabled bool) EngineOption {
	return func(e *RecommendationEngine) {
		e.rankByScore = enabled
	}
}

// NewRecommendationEngine 创建推荐引擎，emotions 为 nil 时使用默认情绪表
func NewRecommendationEngine(emotions *EmotionMap, opts ...EngineOption) *RecommendationEngine {
	if emotions == nil {
		emotions = DefaultEmotionMap()
	}
	e := &RecommendationEngine{
		emotions: emotions,
		cutoff:   DefaultFuzzyCutoff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emotions 当前使用的情绪表
func (e *RecommendationEngine) Emotions() *EmotionMap {
	return e.emotions
}

// SearchByTitle 按标题查找电影
// 1. 忽略大小写的精确匹配，返回第一个
// 2. 否则取相似度最高且不低于阈值的标题
func (e *RecommendationEngine) SearchByTitle(title string, films []model.Film) (model.Film, bool) {
	query := strings.TrimSpace(title)
	if query == "" {
		return model.Film{}, false
	}

	lower := strings.ToLower(query)
	for _, film := range films {
		if strings.ToLower(film.Title) == lower {
			return film, true
		}
	}

	best, ok := e.closestTitle(query, films)
	if !ok {
		return model.Film{}, false
	}
	for _, film := range films {
		if film.Title == best {
			return film, true
		}
	}
	return model.Film{}, false
}

// closestTitle 逐字符计算相似度，同分时取字典序较大的标题
func (e *RecommendationEngine) closestTitle(query string, films []model.Film) (string, bool) {
	matcher := difflib.NewMatcher(nil, splitChars(query))

	var bestTitle string
	bestRatio := -1.0
	for _, film := range films {
		matcher.SetSeq1(splitChars(film.Title))
		ratio := matcher.Ratio()
		if ratio < e.cutoff {
			continue
		}
		if ratio > bestRatio || (ratio == bestRatio && film.Title > bestTitle) {
			bestRatio = ratio
			bestTitle = film.Title
		}
	}
	return bestTitle, bestRatio >= 0
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}

// RecommendSimilar 推荐与参考电影类型相同的电影
// 排除参考电影本身和没有共同类型的电影，按相似度降序（同分保持目录顺序）
func (e *RecommendationEngine) RecommendSimilar(ref model.Film, films []model.Film, n int) []model.Film {
	if n <= 0 {
		return []model.Film{}
	}

	candidates := make([]model.Film, 0)
	for _, film := range films {
		if film.ID == ref.ID {
			continue
		}
		if GenreOverlap(ref, film) == 0 {
			continue
		}
		score := round3(SimilarityScore(ref, film))
		film.ScoreSimilarite = &score
		candidates = append(candidates, film)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return *candidates[i].ScoreSimilarite > *candidates[j].ScoreSimilarite
	})
	return truncate(candidates, n)
}

// EmotionRanking 情绪推荐结果
type EmotionRanking struct {
	Films    []model.Film
	Fallback bool // 没有类型匹配，退回全局评分排序
}

// RecommendByEmotion 按情绪推荐
func (e *RecommendationEngine) RecommendByEmotion(emotion string, films []model.Film, n int) []model.Film {
	return e.RankByEmotion(emotion, films, n).Films
}

// RankByEmotion 按情绪筛选并排序
// surprise、未知情绪、或没有候选时，返回评分 > 0 的电影并按评分排序
func (e *RecommendationEngine) RankByEmotion(emotion string, films []model.Film, n int) EmotionRanking {
	if strings.TrimSpace(emotion) == "" || n <= 0 {
		return EmotionRanking{Films: []model.Film{}}
	}

	targets, ok := e.emotions.Genres(emotion)
	if !ok || len(targets) == 0 {
		return EmotionRanking{Films: topRated(films, n)}
	}

	candidates := make([]model.Film, 0)
	for _, film := range films {
		if !intersects(targets, film.Genres) {
			continue
		}
		score := EmotionScore(film, emotion)
		film.ScoreEmotion = &score
		candidates = append(candidates, film)
	}

	if len(candidates) == 0 {
		return EmotionRanking{Films: topRated(films, n), Fallback: true}
	}

	if e.rankByScore {
		sort.SliceStable(candidates, func(i, j int) bool {
			return *candidates[i].ScoreEmotion > *candidates[j].ScoreEmotion
		})
	} else {
		sortByVote(candidates)
	}
	return EmotionRanking{Films: truncate(candidates, n)}
}

// topRated 所有评分 > 0 的电影，score_emotion 直接取评分
func topRated(films []model.Film, n int) []model.Film {
	candidates := make([]model.Film, 0)
	for _, film := range films {
		if film.VoteAverage <= 0 {
			continue
		}
		score := film.VoteAverage
		film.ScoreEmotion = &score
		candidates = append(candidates, film)
	}
	sortByVote(candidates)
	return truncate(candidates, n)
}

func sortByVote(films []model.Film) {
	sort.SliceStable(films, func(i, j int) bool {
		return films[i].VoteAverage > films[j].VoteAverage
	})
}

func intersects(targets map[string]struct{}, genres []string) bool {
	for _, g := range genres {
		if _, ok := targets[g]; ok {
			return true
		}
	}
	return false
}

func truncate(films []model.Film, n int) []model.Film {
	if len(films) > n {
		return films[:n]
	}
	return films
}

// DedupeFilms 按 ID 去重，保留第一次出现的电影
func DedupeFilms(films []model.Film) []model.Film {
	seen := make(map[int]struct{}, len(films))
	unique := make([]model.Film, 0, len(films))
	for _, film := range films {
		if _, ok := seen[film.ID]; ok {
			continue
		}
		seen[film.ID] = struct{}{}
		unique = append(unique, film)
	}
	return unique
}
