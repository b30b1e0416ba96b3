package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_DRIVER", "DB_DSN", "RECOMMEND_LIMIT", "FUZZY_CUTOFF", "EMOTION_RANK_BY_SCORE", "TMDB_ENRICH_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5005", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/moodflix.db", cfg.DBDSN)
	assert.Equal(t, 5, cfg.RecommendLimit)
	assert.InDelta(t, 0.55, cfg.FuzzyCutoff, 1e-9)
	assert.False(t, cfg.EmotionRankByScore)
	assert.True(t, cfg.TMDBEnrichEnabled)
	assert.Equal(t, 72*time.Hour, cfg.JWTExpiry)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "films")
	t.Setenv("RECOMMEND_LIMIT", "12")
	t.Setenv("EMOTION_RANK_BY_SCORE", "true")
	t.Setenv("CACHE_TTL_MINUTES", "not-a-number")

	cfg := Load()
	assert.Equal(t, "postgres://postgres:postgres@db:5432/films?sslmode=disable", cfg.DBDSN)
	assert.Equal(t, 12, cfg.RecommendLimit)
	assert.True(t, cfg.EmotionRankByScore)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Load()
	cfg.RecommendLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.DBDriver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.FuzzyCutoff = 1.5
	assert.Error(t, cfg.Validate())
}
