package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kori_chat"

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	messagesSent         prometheus.Counter
	roomsDeleted         prometheus.Counter
	fanoutFailures       *prometheus.CounterVec
	collaboratorDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		messagesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages persisted.",
		}),
		roomsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_deleted_total",
			Help:      "Rooms deleted after their last active participant left.",
		}),
		fanoutFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_failures_total",
			Help:      "Best-effort fan-out steps that failed after a send.",
		}, []string{"step"}),
		collaboratorDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collaborator_duration_seconds",
			Help:      "Latency of external collaborator calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collaborator", "outcome"}),
	}
}

func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}
	m.messagesSent.Inc()
}

func (m *Metrics) RoomDeleted() {
	if m == nil {
		return
	}
	m.roomsDeleted.Inc()
}

func (m *Metrics) FanoutFailed(step string) {
	if m == nil {
		return
	}
	m.fanoutFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) ObserveCollaborator(name string, took time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.collaboratorDuration.WithLabelValues(name, outcome).Observe(took.Seconds())
}
