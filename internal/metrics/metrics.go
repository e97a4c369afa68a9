// Package metrics provides the centralized Prometheus metrics registry for
// the wagering engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	WagersPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "wagers_placed_total",
		Help:      "Total wager placement attempts by result code",
	}, []string{"result"})
	RacesResolvedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "races_resolved_total",
		Help:      "Total number of races resolved",
	})
	SettlementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "settlements_total",
		Help:      "Total wager settlements by outcome",
	}, []string{"outcome"})
	NotableWinsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "notable_wins_total",
		Help:      "Total wins at or above outsider odds",
	})
	SchedulesBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "schedules_built_total",
		Help:      "Total daily race cards generated",
	})
	LoanTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackside",
		Name:      "loan_transitions_total",
		Help:      "Total loan state transitions by target state",
	}, []string{"state"})
)

// Gauge metrics
var (
	NetLoss = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trackside",
		Name:      "net_loss",
		Help:      "Current cumulative net loss (negative means net profit)",
	})
	ActiveWager = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trackside",
		Name:      "active_wager",
		Help:      "1 while an unsettled wager exists, 0 otherwise",
	})
	CurrentDayIndex = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trackside",
		Name:      "current_day_index",
		Help:      "Day index of the currently held schedule",
	})
)

// Registry returns the singleton metrics registry with all collectors
// registered
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			WagersPlacedTotal,
			RacesResolvedTotal,
			SettlementsTotal,
			NotableWinsTotal,
			SchedulesBuiltTotal,
			LoanTransitionsTotal,
			NetLoss,
			ActiveWager,
			CurrentDayIndex,
		)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
