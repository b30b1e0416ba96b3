package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("emotion"))
	fallbacks := testutil.ToFloat64(EmotionFallbacksTotal)

	RecordRecommendation("emotion", true)
	RecordRecommendation("emotion", false)

	assert.Equal(t, before+2, testutil.ToFloat64(RecommendationsTotal.WithLabelValues("emotion")))
	assert.Equal(t, fallbacks+1, testutil.ToFloat64(EmotionFallbacksTotal))
}

func TestRecordAPIRequestUnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	RecordAPIRequest("GET", "", 404, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordQueryCache(t *testing.T) {
	hits := testutil.ToFloat64(QueryCacheHits)
	misses := testutil.ToFloat64(QueryCacheMisses)

	RecordQueryCache(true)
	RecordQueryCache(false)
	RecordQueryCache(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(QueryCacheHits))
	assert.Equal(t, misses+2, testutil.ToFloat64(QueryCacheMisses))
}
