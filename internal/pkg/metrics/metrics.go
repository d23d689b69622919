package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "balu"

// Collector holds the subscription counters exported on /metrics.
type Collector struct {
	registry *prometheus.Registry

	Renewals      *prometheus.CounterVec
	Expirations   prometheus.Counter
	PendingExpiry prometheus.Counter
	Restrictions  *prometheus.CounterVec
	WebhookEvents *prometheus.CounterVec
	JobsProcessed *prometheus.CounterVec
	Registrations prometheus.Counter
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		Renewals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "renewals_total",
			Help:      "Subscription renewals by plan period and result",
		}, []string{"period", "result"}),
		Expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "expirations_total",
			Help:      "Accounts flagged as expired by the sweep",
		}),
		PendingExpiry: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "pending_expiry_total",
			Help:      "Expiry notices received from the billing provider",
		}),
		Restrictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "restriction_changes_total",
			Help:      "Seat-limit restriction state changes",
		}, []string{"state"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Billing webhook deliveries by type and outcome",
		}, []string{"type", "outcome"}),
		JobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobqueue",
			Name:      "jobs_processed_total",
			Help:      "Background jobs by type and status",
		}, []string{"type", "status"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "company",
			Name:      "registrations_total",
			Help:      "Company accounts created",
		}),
	}

	reg.MustRegister(
		c.Renewals,
		c.Expirations,
		c.PendingExpiry,
		c.Restrictions,
		c.WebhookEvents,
		c.JobsProcessed,
		c.Registrations,
		prometheus.NewGoCollector(),
	)
	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var defaultCollector = NewCollector()

// Default returns the process-wide collector.
func Default() *Collector {
	return defaultCollector
}
