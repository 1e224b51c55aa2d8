package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "smart_energy_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	tickTotal   *prometheus.CounterVec
	tickSkipped prometheus.Counter

	readingsTotal *prometheus.CounterVec

	snapshotTotal   *prometheus.CounterVec
	snapshotLatency *prometheus.HistogramVec

	feedClients    prometheus.Gauge
	feedBroadcasts prometheus.Counter
	feedPushErrors prometheus.Counter
	sidePublishes  *prometheus.CounterVec
	exportTotal    *prometheus.CounterVec
)

// Init registers the service's metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		tickTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulator_ticks_total",
				Help: "Total simulator ticks by result",
			},
			[]string{"result"},
		)
		tickSkipped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulator_ticks_skipped_total",
				Help: "Ticks skipped because the previous tick was still running",
			},
		)
		readingsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulator_readings_total",
				Help: "Total reading inserts by result",
			},
			[]string{"result"},
		)
		snapshotTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "snapshot_requests_total",
				Help: "Total dashboard snapshot builds by result",
			},
			[]string{"result"},
		)
		snapshotLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "snapshot_latency_seconds",
				Help:    "Dashboard snapshot build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		feedClients = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "feed_clients",
				Help: "Currently connected live-feed subscribers",
			},
		)
		feedBroadcasts = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "feed_broadcasts_total",
				Help: "Total readings broadcast to subscribers",
			},
		)
		feedPushErrors = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "feed_push_errors_total",
				Help: "Per-subscriber push payload failures",
			},
		)
		sidePublishes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "side_publishes_total",
				Help: "Total MQTT side publishes by result",
			},
			[]string{"result"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_requests_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			tickTotal,
			tickSkipped,
			readingsTotal,
			snapshotTotal,
			snapshotLatency,
			feedClients,
			feedBroadcasts,
			feedPushErrors,
			sidePublishes,
			exportTotal,
		)
	})
}

// ObserveTick records one completed tick.
func ObserveTick(result string) {
	if tickTotal != nil {
		tickTotal.WithLabelValues(result).Inc()
	}
}

// TickSkipped records a tick skipped by the reentrancy guard.
func TickSkipped() {
	if tickSkipped != nil {
		tickSkipped.Inc()
	}
}

// ReadingPersisted records one reading insert attempt.
func ReadingPersisted(result string) {
	if readingsTotal != nil {
		readingsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveSnapshot records one dashboard snapshot build.
func ObserveSnapshot(result string, elapsed time.Duration) {
	if snapshotTotal != nil {
		snapshotTotal.WithLabelValues(result).Inc()
	}
	if snapshotLatency != nil {
		snapshotLatency.WithLabelValues(result).Observe(elapsed.Seconds())
	}
}

// ClientConnected adjusts the subscriber gauge on connect.
func ClientConnected() {
	if feedClients != nil {
		feedClients.Inc()
	}
}

// ClientDisconnected adjusts the subscriber gauge on disconnect.
func ClientDisconnected() {
	if feedClients != nil {
		feedClients.Dec()
	}
}

// BroadcastSent records one reading fan-out.
func BroadcastSent() {
	if feedBroadcasts != nil {
		feedBroadcasts.Inc()
	}
}

// PushError records a per-subscriber push payload failure.
func PushError() {
	if feedPushErrors != nil {
		feedPushErrors.Inc()
	}
}

// SidePublish records one MQTT side publish.
func SidePublish(result string) {
	if sidePublishes != nil {
		sidePublishes.WithLabelValues(result).Inc()
	}
}

// ExportRequest records one report export.
func ExportRequest(format, result string) {
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}
