// Package metrics exports Prometheus collectors for the handshake, record
// and pool instrumentation named in SPEC_FULL.md §12.5, grounded on
// flowersec-go/observability/prom.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opengm-libs/opengm/tlcp"
)

// Collector registers and updates the metric set for a tlcp engine instance.
type Collector struct {
	handshakeTotal    *prometheus.CounterVec
	handshakeDuration prometheus.Histogram
	recordsTotal      *prometheus.CounterVec
	alertsTotal       *prometheus.CounterVec
	poolHits          prometheus.Gauge
	poolMisses        prometheus.Gauge
	poolIdle          prometheus.Gauge
}

// NewCollector builds and registers a Collector on reg.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		handshakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tlcp_handshake_total",
			Help: "Completed handshakes by result.",
		}, []string{"result"}),
		handshakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tlcp_handshake_duration_seconds",
			Help:    "Handshake wall-clock duration.",
			Buckets: prometheus.DefBuckets,
		}),
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tlcp_records_total",
			Help: "Records processed by direction and content type.",
		}, []string{"direction", "content_type"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tlcp_alerts_total",
			Help: "Alerts sent or received by description.",
		}, []string{"direction", "description"}),
		poolHits: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tlcp_record_pool_hits_total",
			Help: "Cumulative record pool acquisitions served from the free list.",
		}),
		poolMisses: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tlcp_record_pool_misses_total",
			Help: "Cumulative record pool acquisitions that allocated a new record.",
		}),
		poolIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tlcp_record_pool_idle",
			Help: "Records currently idle in the pool.",
		}),
	}
	reg.MustRegister(
		c.handshakeTotal,
		c.handshakeDuration,
		c.recordsTotal,
		c.alertsTotal,
		c.poolHits,
		c.poolMisses,
		c.poolIdle,
	)
	return c
}

// HandshakeCompleted records a finished handshake attempt. err nil means success.
func (c *Collector) HandshakeCompleted(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.handshakeTotal.WithLabelValues(result).Inc()
	c.handshakeDuration.Observe(d.Seconds())
}

// Record tallies one record processed in the given direction ("read" or "write").
func (c *Collector) Record(direction string, ctype tlcp.ContentType) {
	c.recordsTotal.WithLabelValues(direction, contentTypeLabel(ctype)).Inc()
}

// Alert tallies one alert sent or received.
func (c *Collector) Alert(direction string, desc tlcp.AlertDescription) {
	c.alertsTotal.WithLabelValues(direction, alertLabel(desc)).Inc()
}

// PoolStats snapshots a RecordPool's counters onto the gauges/counters below.
func (c *Collector) PoolStats(pool *tlcp.RecordPool) {
	hits, misses := pool.Stats()
	c.poolHits.Set(float64(hits))
	c.poolMisses.Set(float64(misses))
	c.poolIdle.Set(float64(pool.Len()))
}

func contentTypeLabel(t tlcp.ContentType) string {
	switch t {
	case tlcp.ContentTypeChangeCipherSpec:
		return "change_cipher_spec"
	case tlcp.ContentTypeAlert:
		return "alert"
	case tlcp.ContentTypeHandshake:
		return "handshake"
	case tlcp.ContentTypeApplicationData:
		return "application_data"
	default:
		return "unknown"
	}
}

func alertLabel(d tlcp.AlertDescription) string {
	switch d {
	case tlcp.AlertCloseNotify:
		return "close_notify"
	case tlcp.AlertUnexpectedMessage:
		return "unexpected_message"
	case tlcp.AlertBadRecordMAC:
		return "bad_record_mac"
	case tlcp.AlertHandshakeFailure:
		return "handshake_failure"
	case tlcp.AlertDecodeError:
		return "decode_error"
	case tlcp.AlertDecryptError:
		return "decrypt_error"
	case tlcp.AlertProtocolVersion:
		return "protocol_version"
	case tlcp.AlertInternalError:
		return "internal_error"
	default:
		return "other"
	}
}
