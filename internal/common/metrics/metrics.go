// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_turns_processed_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"status"},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "leadbot_turn_duration_seconds",
			Help: "Duration of one qualification turn in seconds",
		},
	)

	Escalations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_escalations_total",
			Help: "Turns routed to the cloud model tier",
		},
		[]string{"reason"},
	)

	ResponderFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadbot_responder_failures_total",
			Help: "Responder calls degraded to the apology reply",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_notifications_sent_total",
			Help: "Notifications dispatched to the sales team",
		},
		[]string{"channel"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_notifications_failed_total",
			Help: "Notification dispatch failures (logged, not retried)",
		},
		[]string{"channel"},
	)

	ReplyCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadbot_reply_cache_hits_total",
			Help: "Chat replies served from the reply cache",
		},
	)
)
