package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	recommendationStartedTotal  atomic.Uint64
	recommendationResolvedTotal atomic.Uint64
	recommendationFailedTotal   atomic.Uint64

	matrixResolvedTotal   atomic.Uint64
	aiResolvedTotal       atomic.Uint64
	fallbackResolvedTotal atomic.Uint64

	aiInvokedTotal    atomic.Uint64
	aiCacheSavedTotal atomic.Uint64
	aiCacheFailedTotal atomic.Uint64

	resolutionDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 1800, 5000})
)

// IncRecommendationStarted increments the started counter.
func IncRecommendationStarted() {
	recommendationStartedTotal.Add(1)
}

// IncRecommendationResolved increments the resolved counter and the
// per-source counter for the given source tag.
func IncRecommendationResolved(source string) {
	recommendationResolvedTotal.Add(1)
	switch source {
	case "matrix":
		matrixResolvedTotal.Add(1)
	case "ai":
		aiResolvedTotal.Add(1)
	case "fallback":
		fallbackResolvedTotal.Add(1)
	}
}

// IncRecommendationFailed increments the failed counter.
func IncRecommendationFailed() {
	recommendationFailedTotal.Add(1)
}

// IncAIInvoked increments the AI invocation counter.
func IncAIInvoked() {
	aiInvokedTotal.Add(1)
}

// IncAICacheSaved increments the cache save counter.
func IncAICacheSaved() {
	aiCacheSavedTotal.Add(1)
}

// IncAICacheFailed increments the cache failure counter.
func IncAICacheFailed() {
	aiCacheFailedTotal.Add(1)
}

// ObserveResolutionDurationMs records a resolution duration in milliseconds.
func ObserveResolutionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	resolutionDuration.Observe(value)
}

// Snapshot is a point-in-time copy of the running counters.
type Snapshot struct {
	Started          uint64 `json:"started"`
	Resolved         uint64 `json:"resolved"`
	Failed           uint64 `json:"failed"`
	MatrixResolved   uint64 `json:"matrixResolved"`
	AIResolved       uint64 `json:"aiResolved"`
	FallbackResolved uint64 `json:"fallbackResolved"`
	AIInvoked        uint64 `json:"aiInvoked"`
	CacheSaved       uint64 `json:"cacheSaved"`
	CacheFailed      uint64 `json:"cacheFailed"`
}

// Current returns a snapshot of the counters.
func Current() Snapshot {
	return Snapshot{
		Started:          recommendationStartedTotal.Load(),
		Resolved:         recommendationResolvedTotal.Load(),
		Failed:           recommendationFailedTotal.Load(),
		MatrixResolved:   matrixResolvedTotal.Load(),
		AIResolved:       aiResolvedTotal.Load(),
		FallbackResolved: fallbackResolvedTotal.Load(),
		AIInvoked:        aiInvokedTotal.Load(),
		CacheSaved:       aiCacheSavedTotal.Load(),
		CacheFailed:      aiCacheFailedTotal.Load(),
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "recommendation_started_total", "Total recommendation requests started", recommendationStartedTotal.Load())
	writeCounter(&buf, "recommendation_resolved_total", "Total recommendations resolved", recommendationResolvedTotal.Load())
	writeCounter(&buf, "recommendation_failed_total", "Total recommendations failed", recommendationFailedTotal.Load())
	writeCounter(&buf, "recommendation_matrix_resolved_total", "Recommendations resolved by the synergy matrix", matrixResolvedTotal.Load())
	writeCounter(&buf, "recommendation_ai_resolved_total", "Recommendations resolved by the AI provider", aiResolvedTotal.Load())
	writeCounter(&buf, "recommendation_fallback_resolved_total", "Recommendations resolved by the fallback provider", fallbackResolvedTotal.Load())
	writeCounter(&buf, "recommendation_ai_invoked_total", "Total AI provider invocations", aiInvokedTotal.Load())
	writeCounter(&buf, "recommendation_ai_cache_saved_total", "AI results cached back into the synergy matrix", aiCacheSavedTotal.Load())
	writeCounter(&buf, "recommendation_ai_cache_failed_total", "Failed AI cache-back writes", aiCacheFailedTotal.Load())
	writeHistogram(&buf, "recommendation_duration_ms", "Recommendation resolution duration in milliseconds", resolutionDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
