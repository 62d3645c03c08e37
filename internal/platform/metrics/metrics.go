package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClockInsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workforce_clock_ins_total",
		Help: "Number of accepted clock-in events.",
	})

	ShiftsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workforce_shifts_generated_total",
		Help: "Number of schedule instances created by the recurrence generator.",
	})

	ShiftsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workforce_shifts_skipped_duplicates_total",
		Help: "Number of duplicate schedule instances skipped during generation.",
	})

	NotificationsRaisedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_notifications_raised_total",
		Help: "Number of notifications raised, by severity.",
	}, []string{"severity"})

	OutboxPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workforce_outbox_published_total",
		Help: "Number of outbox events successfully published.",
	})

	OutboxFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workforce_outbox_failed_total",
		Help: "Number of outbox publish attempts that failed.",
	})
)
