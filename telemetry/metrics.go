// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	MessagesIngested      prometheus.Counter
	NoticesIngested       prometheus.Counter
	NotificationsRaised   prometheus.Counter
	DuplicatesReplaced    prometheus.Counter
	RecordsTrimmed        prometheus.Counter
	RecordsPurged         prometheus.Counter
	BroadcastDrops        prometheus.Counter
	OutboundMessages      prometheus.Counter
	OutboundLengthWarning prometheus.Counter

	// Histograms (seconds)
	ArchiveDuration prometheus.Observer

	// Gauges
	StoreDepthGauge  prometheus.Gauge
	SubscribersGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		MessagesIngested = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_messages_ingested_total", Help: "Chat/action/whisper messages ingested"})
		NoticesIngested = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_notices_ingested_total", Help: "System notices ingested"})
		NotificationsRaised = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_notifications_raised_total", Help: "Notifications raised for mentions/whispers/highlights"})
		DuplicatesReplaced = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_duplicates_replaced_total", Help: "Re-delivered record ids that overwrote an existing entry"})
		RecordsTrimmed = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_records_trimmed_total", Help: "Records evicted by the capacity trimmer"})
		RecordsPurged = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_records_purged_total", Help: "Message records flagged purged by moderation events"})
		BroadcastDrops = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_broadcast_drops_total", Help: "Live deliveries skipped because a subscriber buffer was full"})
		OutboundMessages = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_outbound_messages_total", Help: "Messages sent to the channel"})
		OutboundLengthWarning = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_outbound_length_warnings_total", Help: "Outbound messages over the warning length"})
		ArchiveDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "chat_archive_insert_duration_seconds", Help: "Archive insert duration seconds", Buckets: prometheus.DefBuckets})
		StoreDepthGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "chat_store_depth", Help: "Current number of records in the session log"})
		SubscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "chat_live_subscribers", Help: "Current live stream subscribers (SSE + WS)"})
	})
}

// SetStoreDepth records the current session log size.
func SetStoreDepth(n int) {
	if StoreDepthGauge != nil {
		StoreDepthGauge.Set(float64(n))
	}
}

// SetSubscribers records the current live subscriber count.
func SetSubscribers(n int) {
	if SubscribersGauge != nil {
		SubscribersGauge.Set(float64(n))
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
