package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lfg_reconcile_ticks_total",
			Help: "Total number of reconciliation passes",
		},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lfg_reconcile_tick_duration_seconds",
			Help:    "Duration of one reconciliation pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	ItemErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lfg_reconcile_item_errors_total",
			Help: "Per-queue failures inside a reconciliation pass, by step",
		},
		[]string{"step"},
	)

	ActiveQueues = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lfg_active_queues",
			Help: "Queues not yet expired at the last pass",
		},
	)

	VoiceChannelsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lfg_voice_channels_created_total",
			Help: "Voice channels provisioned for full queues",
		},
	)

	VoiceChannelsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lfg_voice_channels_deleted_total",
			Help: "Empty managed voice channels torn down",
		},
	)

	QueuesArchived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lfg_queues_archived_total",
			Help: "Queues archived, by reason",
		},
		[]string{"reason"},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lfg_membership_mutations_total",
			Help: "Membership operations by op and result",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		TicksTotal,
		TickDuration,
		ItemErrorsTotal,
		ActiveQueues,
		VoiceChannelsCreated,
		VoiceChannelsDeleted,
		QueuesArchived,
		MutationsTotal,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer mide la duración de una operación.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

func (t *Timer) ObserveDuration(h prometheus.Observer) {
	h.Observe(t.Duration().Seconds())
}
