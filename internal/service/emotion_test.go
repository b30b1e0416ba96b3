package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moodflix/internal/model"
)

func TestNormalizeSentimentAlwaysInUnitRange(t *testing.T) {
	tests := map[float64]float64{
		-5:   0,
		-1:   0,
		-0.5: 0.25,
		0:    0.5,
		0.5:  0.75,
		1:    1,
		5:    1,
	}
	for in, want := range tests {
		assert.InDelta(t, want, NormalizeSentiment(in), 1e-12, "input %v", in)
	}
}

func TestNormalizeRating(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeRating(-3))
	assert.InDelta(t, 0.75, NormalizeRating(7.5), 1e-12)
	assert.Equal(t, 1.0, NormalizeRating(12))
}

func TestEmotionScoreIgnoresEmotion(t *testing.T) {
	f := model.Film{SentimentScore: 0.2, VoteAverage: 8}
	want := 0.6*0.6 + 0.4*0.8
	assert.InDelta(t, want, EmotionScore(f, "peur"), 1e-12)
	assert.Equal(t, EmotionScore(f, "peur"), EmotionScore(f, "heureux"))
}

func TestSimilarityScore(t *testing.T) {
	ref := model.Film{Genres: []string{"Action", "Drama", "Crime"}}
	other := model.Film{Genres: []string{"Crime", "Drama", "Drama"}, VoteAverage: 6}

	assert.Equal(t, 2, GenreOverlap(ref, other))
	assert.InDelta(t, 0.7*2+0.3*0.6, SimilarityScore(ref, other), 1e-12)
}

func TestEmotionMapLookup(t *testing.T) {
	m := DefaultEmotionMap()

	genres, ok := m.Genres("Peur")
	require.True(t, ok)
	assert.Contains(t, genres, "Horror")

	_, ok = m.Genres("STRESSÉ")
	assert.True(t, ok)
	_, ok = m.Genres("ennuye")
	assert.True(t, ok)
	_, ok = m.Genres("Colère")
	assert.True(t, ok)

	genres, ok = m.Genres("surprise")
	assert.True(t, ok)
	assert.Empty(t, genres)

	_, ok = m.Genres("joyeux")
	assert.False(t, ok)
}

func TestEmotionMapProfilesOrder(t *testing.T) {
	profiles := DefaultEmotionMap().Profiles()
	require.Len(t, profiles, 8)

	keys := make([]string, 0, len(profiles))
	for _, p := range profiles {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"triste", "stressé", "heureux", "nostalgique", "ennuyé", "colere", "peur", "surprise"}, keys)

	p, ok := DefaultEmotionMap().Profile("COLERE")
	require.True(t, ok)
	assert.Equal(t, "Colère", p.Label)
}

func TestEmotionMapIsolatedFromInput(t *testing.T) {
	genres := []string{"Drama"}
	m := NewEmotionMap([]EmotionEntry{{Profile: model.EmotionProfile{Key: "calme"}, Genres: genres}})
	genres[0] = "Horror"

	got, _ := m.Genres("calme")
	assert.Contains(t, got, "Drama")
	assert.NotContains(t, got, "Horror")
}
