package service

import (
	"math"

	"github.com/user/moodflix/internal/model"
	"github.com/user/moodflix/internal/utils"
)

// 打分权重
const (
	weightSentiment = 0.6
	weightRating    = 0.4

	weightGenreOverlap = 0.7
	weightSimilarVote  = 0.3
)

// EmotionSurprise 不按类型过滤，直接按评分全局排序
const EmotionSurprise = "surprise"

// EmotionEntry 一种情绪对应的类型与展示信息
type EmotionEntry struct {
	Profile model.EmotionProfile
	Genres  []string
}

// EmotionMap 情绪 -> 类型映射，创建后只读
type EmotionMap struct {
	order   []string
	entries map[string]EmotionEntry
}

// NewEmotionMap 按给定顺序创建映射，键会被规范化（小写、去重音）
func NewEmotionMap(entries []EmotionEntry) *EmotionMap {
	m := &EmotionMap{
		order:   make([]string, 0, len(entries)),
		entries: make(map[string]EmotionEntry, len(entries)),
	}
	for _, e := range entries {
		key := utils.NormalizeKey(e.Profile.Key)
		if _, exists := m.entries[key]; exists {
			continue
		}
		genres := make([]string, len(e.Genres))
		copy(genres, e.Genres)
		e.Genres = genres
		m.order = append(m.order, key)
		m.entries[key] = e
	}
	return m
}

// DefaultEmotionMap 默认的情绪表
func DefaultEmotionMap() *EmotionMap {
	return NewEmotionMap([]EmotionEntry{
		{
			Profile: model.EmotionProfile{Key: "triste", Label: "Triste", Reaction: "😢", Color: "#4A90E2"},
			Genres:  []string{"Comedy", "Family", "Drama", "Romance", "Animation"},
		},
		{
			Profile: model.EmotionProfile{Key: "stressé", Label: "Stressé", Reaction: "😰", Color: "#FF6B6B"},
			Genres:  []string{"Comedy", "Adventure", "Action", "Animation", "Family"},
		},
		{
			Profile: model.EmotionProfile{Key: "heureux", Label: "Heureux", Reaction: "😊", Color: "#FFD700"},
			Genres:  []string{"Romance", "Music", "Comedy", "Animation", "Family"},
		},
		{
			Profile: model.EmotionProfile{Key: "nostalgique", Label: "Nostalgique", Reaction: "🥰", Color: "#FF69B4"},
			Genres:  []string{"Drama", "History", "Romance", "Music", "Family", "War"},
		},
		{
			Profile: model.EmotionProfile{Key: "ennuyé", Label: "Ennuyé", Reaction: "😑", Color: "#95A5A6"},
			Genres:  []string{"Action", "Thriller", "Sci-Fi", "Adventure", "Crime", "Mystery"},
		},
		{
			Profile: model.EmotionProfile{Key: "colere", Label: "Colère", Reaction: "😠", Color: "#E74C3C"},
			Genres:  []string{"Action", "Thriller", "Crime", "War", "Drama", "History"},
		},
		{
			Profile: model.EmotionProfile{Key: "peur", Label: "Peur", Reaction: "😨", Color: "#8B008B"},
			Genres:  []string{"Horror", "Thriller", "Mystery", "Crime", "Sci-Fi"},
		},
		{
			Profile: model.EmotionProfile{Key: EmotionSurprise, Label: "Surprise", Reaction: "😲", Color: "#FF8C00"},
		},
	})
}

// Genres 返回情绪对应的类型集合；未知情绪返回 false
func (m *EmotionMap) Genres(emotion string) (map[string]struct{}, bool) {
	e, ok := m.entries[utils.NormalizeKey(emotion)]
	if !ok {
		return nil, false
	}
	set := make(map[string]struct{}, len(e.Genres))
	for _, g := range e.Genres {
		set[g] = struct{}{}
	}
	return set, true
}

// Profile 返回情绪的展示信息
func (m *EmotionMap) Profile(emotion string) (model.EmotionProfile, bool) {
	e, ok := m.entries[utils.NormalizeKey(emotion)]
	return e.Profile, ok
}

// Profiles 按定义顺序返回全部情绪
func (m *EmotionMap) Profiles() []model.EmotionProfile {
	profiles := make([]model.EmotionProfile, 0, len(m.order))
	for _, key := range m.order {
		profiles = append(profiles, m.entries[key].Profile)
	}
	return profiles
}

// NormalizeSentiment 把 [-1, 1] 的情感分映射到 [0, 1]，越界先截断
func NormalizeSentiment(score float64) float64 {
	return (clamp(score, -1, 1) + 1) / 2
}

// NormalizeRating 把 [0, 10] 的评分映射到 [0, 1]
func NormalizeRating(vote float64) float64 {
	return clamp(vote, 0, 10) / 10
}

// EmotionScore score = 0.6 * sentiment_norm + 0.4 * note_norm
// emotion 目前不参与加权
func EmotionScore(film model.Film, emotion string) float64 {
	return weightSentiment*NormalizeSentiment(film.SentimentScore) + weightRating*NormalizeRating(film.VoteAverage)
}

// GenreOverlap 两部电影类型集合的交集大小
func GenreOverlap(a, b model.Film) int {
	set := make(map[string]struct{}, len(a.Genres))
	for _, g := range a.Genres {
		set[g] = struct{}{}
	}
	overlap := 0
	seen := make(map[string]struct{}, len(b.Genres))
	for _, g := range b.Genres {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := set[g]; ok {
			overlap++
		}
	}
	return overlap
}

// SimilarityScore score = 0.7 * 类型交集数 + 0.3 * (vote_average / 10)
func SimilarityScore(ref, film model.Film) float64 {
	return weightGenreOverlap*float64(GenreOverlap(ref, film)) + weightSimilarVote*(film.VoteAverage/10)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
