package reposync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/quay/addonrepo/reposync")
}

var (
	jobCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "addonrepo",
			Subsystem: "reposync",
			Name:      "jobs_total",
			Help:      "Total number of repository syncs, by outcome.",
		},
		[]string{"repository", "result"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "addonrepo",
			Subsystem: "reposync",
			Name:      "job_duration_seconds",
			Help:      "The duration of repository syncs, by outcome.",
		},
		[]string{"repository", "result"},
	)

	packagesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "addonrepo",
			Subsystem: "reposync",
			Name:      "packages",
			Help:      "Number of packages in the last stored listing of a repository.",
		},
		[]string{"repository"},
	)
)
