package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodflix_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// 推荐
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_recommendations_total",
			Help: "Total number of recommendation queries by kind",
		},
		[]string{"kind"}, // "title", "emotion", "similar"
	)

	EmotionFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodflix_emotion_fallbacks_total",
			Help: "Emotion queries that fell back to the global top-rated ranking",
		},
	)

	QueryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodflix_query_cache_hits_total",
			Help: "Recommendation query cache hits",
		},
	)

	QueryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodflix_query_cache_misses_total",
			Help: "Recommendation query cache misses",
		},
	)

	// TMDB 补充信息
	EnrichmentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodflix_enrichment_total",
			Help: "Film enrichment lookups by result",
		},
		[]string{"result"}, // "memory", "disk", "fetched", "error", "disabled"
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodflix_catalog_films",
			Help: "Number of films held in the in-memory catalog",
		},
	)
)

// RecordAPIRequest 记录一次 HTTP 请求
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation 记录一次推荐查询
func RecordRecommendation(kind string, fallback bool) {
	RecommendationsTotal.WithLabelValues(kind).Inc()
	if fallback {
		EmotionFallbacksTotal.Inc()
	}
}

// RecordQueryCache 记录查询缓存命中情况
func RecordQueryCache(hit bool) {
	if hit {
		QueryCacheHits.Inc()
		return
	}
	QueryCacheMisses.Inc()
}

// RecordEnrichment 记录补充信息来源
func RecordEnrichment(result string) {
	EnrichmentTotal.WithLabelValues(result).Inc()
}
