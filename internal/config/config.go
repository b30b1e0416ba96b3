package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env       string        `validate:"oneof=development production test"`
	AppSecret string        `validate:"required"`
	JWTExpiry time.Duration `validate:"gt=0"`
	Port      string        `validate:"required,numeric"`
	SiteName  string
	SiteUrl   string `validate:"omitempty,url"`

	// 数据库（用户和收藏）
	DBDriver string `validate:"oneof=sqlite postgres"`
	DBDSN    string `validate:"required"`

	// 电影目录
	DatasetPath         string `validate:"required"`
	SnapshotPath        string
	EnrichmentCachePath string

	// TMDB
	TMDBAPIKey        string
	TMDBAPIToken      string
	TMDBEnrichEnabled bool

	// 推荐
	RecommendLimit     int     `validate:"min=1,max=50"`
	FuzzyCutoff        float64 `validate:"gt=0,lte=1"`
	EmotionRankByScore bool

	// 缓存
	CacheTTL              time.Duration `validate:"gt=0"`
	CacheMaintenanceEvery time.Duration `validate:"gt=0"`
}

// Load 加载配置
func Load() *Config {
	expiryHours := getEnvInt("JWT_EXPIRY_HOURS", 72)

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret))
	if getEnv("APP_ENV", "development") == "production" && appSecret == defaultSecret {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	driver := getEnv("DB_DRIVER", "sqlite")
	dsn := getEnv("DB_DSN", "")
	if dsn == "" {
		dsn = defaultDSN(driver)
	}

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		AppSecret: appSecret,
		JWTExpiry: time.Duration(expiryHours) * time.Hour,
		Port:      getEnv("PORT", "5005"),
		SiteName:  getEnv("SITE_NAME", "Moodflix"),
		SiteUrl:   getEnv("SITE_URL", "http://localhost:5005"),

		DBDriver: driver,
		DBDSN:    dsn,

		DatasetPath:         getEnv("DATASET_PATH", "data/tmdb_5000_movies.csv"),
		SnapshotPath:        getEnv("SNAPSHOT_PATH", "data/movies_with_sentiment.csv"),
		EnrichmentCachePath: getEnv("ENRICHMENT_CACHE_PATH", "data/tmdb_cache.json"),

		TMDBAPIKey:        getEnv("TMDB_API_KEY", ""),
		TMDBAPIToken:      getEnv("TMDB_API_TOKEN", ""),
		TMDBEnrichEnabled: getEnvBool("TMDB_ENRICH_ENABLED", true),

		RecommendLimit:     getEnvInt("RECOMMEND_LIMIT", 5),
		FuzzyCutoff:        getEnvFloat("FUZZY_CUTOFF", 0.55),
		EmotionRankByScore: getEnvBool("EMOTION_RANK_BY_SCORE", false),

		CacheTTL:              time.Duration(getEnvInt("CACHE_TTL_MINUTES", 30)) * time.Minute,
		CacheMaintenanceEvery: time.Duration(getEnvInt("CACHE_MAINTENANCE_MINUTES", 10)) * time.Minute,
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置无效: %w", err)
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// defaultDSN postgres 可以用 DB_* 分项拼接
func defaultDSN(driver string) string {
	if driver != "postgres" {
		return "data/moodflix.db"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "moodflix"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
