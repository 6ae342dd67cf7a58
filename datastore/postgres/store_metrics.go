package postgres

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricLabels  = []string{"method", "success"}
	databaseTimer = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "addonrepo",
		Subsystem: "datastore_postgres",
		Name:      "query_duration_seconds",
		Help:      "Database query duration for noted method, including data read time.",
	}, []string{"method"})
	databaseCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "addonrepo",
		Subsystem: "datastore_postgres",
		Name:      "query_total",
		Help:      "Database query count for noted method.",
	}, metricLabels)
)

// Observe starts timing the method "name". The returned function records the
// duration and outcome, reading the error through "err" when called.
func observe(name string, err *error) func() {
	t := prometheus.NewTimer(databaseTimer.WithLabelValues(name))
	return func() {
		databaseCounter.WithLabelValues(name, strconv.FormatBool(*err == nil)).Inc()
		t.ObserveDuration()
	}
}
