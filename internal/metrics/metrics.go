package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// TaskActions counts lifecycle actions by action and outcome
	// (ok, conflict, forbidden, not_found, invalid_transition, validation, error).
	TaskActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "charity",
			Name:      "task_actions_total",
			Help:      "Task lifecycle actions by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	// Registrations counts role registrations by role and outcome.
	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "charity",
			Name:      "registrations_total",
			Help:      "Benefactor and charity registrations by outcome.",
		},
		[]string{"role", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(TaskActions, Registrations)
}
