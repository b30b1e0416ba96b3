package service

import (
	"strings"
	"unicode"

	"github.com/user/moodflix/internal/model"
)

// 情感阈值：严格大于 / 小于才算正负面，等于 ±0.1 归为中性
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// SentimentAnalyzer 文本极性打分器，返回 [-1, 1]
type SentimentAnalyzer interface {
	Polarity(text string) float64
}

// SentimentTagger 为电影简介打情感标签
type SentimentTagger struct {
	analyzer SentimentAnalyzer
}

// NewSentimentTagger 创建情感标注器，analyzer 为 nil 时使用内置词典
func NewSentimentTagger(analyzer SentimentAnalyzer) *SentimentTagger {
	if analyzer == nil {
		analyzer = NewLexiconAnalyzer()
	}
	return &SentimentTagger{analyzer: analyzer}
}

// Analyze 计算简介的 (score, label)
func (t *SentimentTagger) Analyze(overview string) (float64, string) {
	if strings.TrimSpace(overview) == "" {
		return 0.0, model.SentimentNeutral
	}
	score := t.analyzer.Polarity(overview)
	return score, SentimentLabel(score)
}

// Tag 返回带情感字段的新切片，不修改入参
func (t *SentimentTagger) Tag(films []model.Film) []model.Film {
	tagged := make([]model.Film, len(films))
	for i, film := range films {
		score, label := t.Analyze(film.Overview)
		film.SentimentScore = score
		film.SentimentLabel = label
		film.SentimentScoreNorm = NormalizeSentiment(score)
		tagged[i] = film
	}
	return tagged
}

// SentimentLabel 分数转标签
func SentimentLabel(score float64) string {
	switch {
	case score > positiveThreshold:
		return model.SentimentPositive
	case score < negativeThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// LexiconAnalyzer 基于英文情感词典的极性打分
// 命中词的极性取平均；前置程度副词放大，前置否定词乘以 -0.5
type LexiconAnalyzer struct {
	polarity     map[string]float64
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// NewLexiconAnalyzer 使用内置词典
func NewLexiconAnalyzer() *LexiconAnalyzer {
	negations := make(map[string]struct{}, len(defaultNegations))
	for _, w := range defaultNegations {
		negations[w] = struct{}{}
	}
	return &LexiconAnalyzer{
		polarity:     defaultPolarity,
		intensifiers: defaultIntensifiers,
		negations:    negations,
	}
}

// Polarity 实现 SentimentAnalyzer
func (a *LexiconAnalyzer) Polarity(text string) float64 {
	tokens := tokenize(text)
	var sum float64
	var hits int

	for i, tok := range tokens {
		p, ok := a.polarity[tok]
		if !ok {
			continue
		}

		// 向前最多看两个词
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if m, ok := a.intensifiers[tokens[j]]; ok {
				p = clamp(p*m, -1, 1)
				continue
			}
			if _, ok := a.negations[tokens[j]]; ok {
				p *= -0.5
				break
			}
			break
		}

		sum += p
		hits++
	}

	if hits == 0 {
		return 0
	}
	return clamp(sum/float64(hits), -1, 1)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

var defaultNegations = []string{
	"not", "no", "never", "nor", "none", "nothing", "neither", "without",
	"don't", "doesn't", "didn't", "isn't", "wasn't", "aren't", "weren't",
	"can't", "cannot", "couldn't", "won't", "wouldn't", "shouldn't", "hardly",
}

var defaultIntensifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"so":         1.3,
	"too":        1.2,
	"extremely":  1.5,
	"incredibly": 1.5,
	"truly":      1.3,
	"deeply":     1.4,
	"utterly":    1.5,
	"highly":     1.3,
	"most":       1.3,
	"quite":      1.1,
	"rather":     1.1,
	"somewhat":   0.8,
	"slightly":   0.7,
	"barely":     0.6,
}

var defaultPolarity = map[string]float64{
	// 正面
	"good":          0.7,
	"great":         0.8,
	"best":          1.0,
	"better":        0.5,
	"excellent":     1.0,
	"wonderful":     1.0,
	"amazing":       0.6,
	"awesome":       1.0,
	"fantastic":     0.4,
	"brilliant":     0.9,
	"beautiful":     0.85,
	"lovely":        0.5,
	"love":          0.5,
	"loving":        0.6,
	"loved":         0.7,
	"happy":         0.8,
	"happiness":     0.8,
	"joy":           0.8,
	"joyful":        0.8,
	"cheerful":      0.7,
	"fun":           0.3,
	"funny":         0.25,
	"hilarious":     0.5,
	"charming":      0.5,
	"delightful":    0.9,
	"sweet":         0.35,
	"kind":          0.6,
	"gentle":        0.5,
	"warm":          0.6,
	"hope":          0.4,
	"hopeful":       0.5,
	"inspiring":     0.6,
	"heroic":        0.5,
	"hero":          0.4,
	"brave":         0.6,
	"friendship":    0.5,
	"friend":        0.3,
	"friends":       0.3,
	"peaceful":      0.5,
	"free":          0.4,
	"freedom":       0.4,
	"success":       0.5,
	"successful":    0.75,
	"win":           0.6,
	"wins":          0.6,
	"triumph":       0.7,
	"celebrate":     0.5,
	"perfect":       1.0,
	"magical":       0.5,
	"romantic":      0.5,
	"romance":       0.4,
	"rich":          0.375,
	"young":         0.1,
	"new":           0.14,
	"special":       0.36,
	"true":          0.35,
	"famous":        0.5,
	"legendary":     0.6,
	"epic":          0.5,
	"extraordinary": 0.6,
	"remarkable":    0.75,
	"unique":        0.4,
	"safe":          0.5,
	"rescue":        0.3,
	"save":          0.3,
	"saves":         0.3,
	"united":        0.3,
	"together":      0.2,
	"fortune":       0.3,
	"smart":         0.4,
	"clever":        0.5,
	"strong":        0.43,
	"powerful":      0.3,
	"adventure":     0.3,
	"adventurous":   0.4,
	// 负面
	"bad":         -0.7,
	"worse":       -0.4,
	"worst":       -1.0,
	"terrible":    -1.0,
	"horrible":    -1.0,
	"awful":       -1.0,
	"evil":        -1.0,
	"cruel":       -1.0,
	"brutal":      -0.9,
	"violent":     -0.8,
	"violence":    -0.6,
	"dark":        -0.15,
	"darkness":    -0.3,
	"dead":        -0.2,
	"death":       -0.4,
	"deadly":      -0.6,
	"die":         -0.4,
	"dies":        -0.4,
	"dying":       -0.4,
	"kill":        -0.5,
	"kills":       -0.5,
	"killed":      -0.5,
	"killer":      -0.6,
	"murder":      -0.6,
	"murdered":    -0.6,
	"war":         -0.3,
	"fear":        -0.5,
	"afraid":      -0.6,
	"scared":      -0.5,
	"terrifying":  -0.8,
	"horror":      -0.6,
	"sad":         -0.5,
	"sadness":     -0.5,
	"tragic":      -0.75,
	"tragedy":     -0.6,
	"lonely":      -0.5,
	"lost":        -0.3,
	"broken":      -0.4,
	"angry":       -0.5,
	"anger":       -0.5,
	"hate":        -0.8,
	"hatred":      -0.8,
	"revenge":     -0.4,
	"danger":      -0.5,
	"dangerous":   -0.6,
	"desperate":   -0.6,
	"poor":        -0.4,
	"sick":        -0.7,
	"crime":       -0.4,
	"criminal":    -0.5,
	"corrupt":     -0.6,
	"betrayal":    -0.6,
	"mysterious":  -0.1,
	"strange":     -0.05,
	"wrong":       -0.5,
	"failure":     -0.5,
	"fail":        -0.5,
	"pain":        -0.6,
	"painful":     -0.7,
	"struggle":    -0.3,
	"threat":      -0.4,
	"trapped":     -0.5,
	"nightmare":   -0.8,
	"haunted":     -0.5,
	"deadliest":   -0.7,
	"disaster":    -0.7,
	"destroy":     -0.6,
	"destruction": -0.6,
	"stupid":      -0.8,
	"boring":      -1.0,
	"ugly":        -0.7,
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
