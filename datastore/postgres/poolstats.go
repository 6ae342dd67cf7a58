package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Collector = (*poolCollector)(nil)

// PoolCollector exports the statistics of one connection pool, labeled with
// the pool's application name.
type poolCollector struct {
	pool *pgxpool.Pool

	acquired    *prometheus.Desc
	idle        *prometheus.Desc
	total       *prometheus.Desc
	max         *prometheus.Desc
	acquires    *prometheus.Desc
	canceled    *prometheus.Desc
	empty       *prometheus.Desc
	acquireTime *prometheus.Desc
}

func newPoolCollector(pool *pgxpool.Pool, name string) *poolCollector {
	l := prometheus.Labels{"application_name": name}
	desc := func(n, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName("addonrepo", "datastore_postgres_pool", n), help, nil, l)
	}
	return &poolCollector{
		pool:        pool,
		acquired:    desc("acquired_conns", "Number of currently acquired connections in the pool."),
		idle:        desc("idle_conns", "Number of currently idle connections in the pool."),
		total:       desc("total_conns", "Total number of resources currently in the pool."),
		max:         desc("max_conns", "Maximum size of the pool."),
		acquires:    desc("acquires_total", "Cumulative count of successful acquires from the pool."),
		canceled:    desc("canceled_acquires_total", "Cumulative count of acquires canceled by a context."),
		empty:       desc("empty_acquires_total", "Cumulative count of acquires that waited for a connection."),
		acquireTime: desc("acquire_seconds_total", "Total time spent acquiring connections."),
	}
}

// Describe implements prometheus.Collector.
func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

// Collect implements prometheus.Collector.
func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stat()
	for _, m := range []struct {
		desc *prometheus.Desc
		typ  prometheus.ValueType
		v    float64
	}{
		{c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns())},
		{c.idle, prometheus.GaugeValue, float64(s.IdleConns())},
		{c.total, prometheus.GaugeValue, float64(s.TotalConns())},
		{c.max, prometheus.GaugeValue, float64(s.MaxConns())},
		{c.acquires, prometheus.CounterValue, float64(s.AcquireCount())},
		{c.canceled, prometheus.CounterValue, float64(s.CanceledAcquireCount())},
		{c.empty, prometheus.CounterValue, float64(s.EmptyAcquireCount())},
		{c.acquireTime, prometheus.CounterValue, s.AcquireDuration().Seconds()},
	} {
		ch <- prometheus.MustNewConstMetric(m.desc, m.typ, m.v)
	}
}
