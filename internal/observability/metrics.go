package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wechat",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wechat",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	decodedMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wechat",
			Subsystem: "codec",
			Name:      "decoded_total",
			Help:      "Decoded webhook messages by MsgType and Event.",
		},
		[]string{"msg_type", "event"},
	)
	codecErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wechat",
			Subsystem: "codec",
			Name:      "errors_total",
			Help:      "Codec failures by operation and error kind.",
		},
		[]string{"op", "kind"},
	)
	replyCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wechat",
			Subsystem: "reply_cache",
			Name:      "hits_total",
			Help:      "Retried messages answered from the reply cache.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodedMessages, codecErrors, replyCacheHits)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordDecoded(msgType, event string) {
	RegisterMetrics()
	decodedMessages.WithLabelValues(msgType, event).Inc()
}

func RecordCodecError(op, kind string) {
	RegisterMetrics()
	codecErrors.WithLabelValues(op, kind).Inc()
}

func RecordReplyCacheHit() {
	RegisterMetrics()
	replyCacheHits.Inc()
}
