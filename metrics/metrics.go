package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HeatsRebuiltCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "battle_heats_rebuilt_total",
	Help: "Number of heats created by round rebuilds",
})

var HeatStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "battle_heat_status_transitions_total",
	Help: "Number of heat status transitions by target status",
}, []string{"status"})

var ScoresUpsertedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "battle_scores_upserted_total",
	Help: "Number of score submissions accepted",
})

var NotificationsSentCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "battle_notifications_sent_total",
	Help: "Number of heat-finished notifications delivered",
})

var NotificationsFailedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "battle_notifications_failed_total",
	Help: "Number of heat-finished notification deliveries that failed",
})
