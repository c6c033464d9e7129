package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	cyclesTotal   *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	tenantTasks   *prometheus.CounterVec
	tasksInFlight prometheus.Gauge
	checkUp       *prometheus.GaugeVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		cyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbot_cycles_total",
				Help: "Total number of job cycles run",
			},
			[]string{"job", "result"},
		),

		cycleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finbot_cycle_duration_seconds",
				Help:    "Duration of job cycles in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"job"},
		),

		tenantTasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbot_tenant_tasks_total",
				Help: "Total number of per-tenant tasks by outcome",
			},
			[]string{"job", "outcome"},
		),

		tasksInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "finbot_tenant_tasks_in_flight",
				Help: "Number of tenant tasks currently holding a limiter slot",
			},
		),

		checkUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finbot_check_up",
				Help: "Whether the last health check of each kind passed (1) or failed (0)",
			},
			[]string{"check"},
		),
	}
}

func (c *Collector) RecordCycle(job string, duration time.Duration, ok bool) {
	result := "ok"
	if !ok {
		result = "aborted"
	}
	c.cyclesTotal.With(prometheus.Labels{"job": job, "result": result}).Inc()
	c.cycleDuration.With(prometheus.Labels{"job": job}).Observe(duration.Seconds())
}

func (c *Collector) RecordTenantTask(job, outcome string) {
	c.tenantTasks.With(prometheus.Labels{"job": job, "outcome": outcome}).Inc()
}

func (c *Collector) TaskStarted() { c.tasksInFlight.Inc() }
func (c *Collector) TaskDone()    { c.tasksInFlight.Dec() }

func (c *Collector) RecordCheckUp(check string, online bool) {
	v := 0.0
	if online {
		v = 1.0
	}
	c.checkUp.With(prometheus.Labels{"check": check}).Set(v)
}
