// Package metrics counts what the ledger does. Collectors register on a caller-provided registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "askora"

// Result labels for the transactions counter.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultBounced = "bounced"
)

type Collector struct {
	transactions *prometheus.CounterVec
	deployments  *prometheus.CounterVec
	collections  prometheus.Counter
	gas          prometheus.Counter
	rent         prometheus.Counter
	pending      prometheus.Gauge
}

// New builds the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Delivered messages by result.",
		}, []string{"result"}),
		deployments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "deployments_total",
			Help:      "Actors instantiated, by code name.",
		}, []string{"code"}),
		collections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "collections_total",
			Help:      "Actors removed because storage rent exhausted their balance.",
		}),
		gas: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "gas_nano_total",
			Help:      "Gas charged, in nano-units.",
		}),
		rent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rent_nano_total",
			Help:      "Storage rent charged, in nano-units.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "pending_messages",
			Help:      "Messages waiting in mailboxes.",
		}),
	}
	for _, collector := range []prometheus.Collector{c.transactions, c.deployments, c.collections, c.gas, c.rent, c.pending} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// A nil Collector ignores every observation.

func (c *Collector) Transaction(result string) {
	if c == nil {
		return
	}
	c.transactions.WithLabelValues(result).Inc()
}

func (c *Collector) Deployment(code string) {
	if c == nil {
		return
	}
	c.deployments.WithLabelValues(code).Inc()
}

func (c *Collector) Collection() {
	if c == nil {
		return
	}
	c.collections.Inc()
}

func (c *Collector) Charged(gas, rent uint64) {
	if c == nil {
		return
	}
	c.gas.Add(float64(gas))
	c.rent.Add(float64(rent))
}

func (c *Collector) Pending(n int) {
	if c == nil {
		return
	}
	c.pending.Set(float64(n))
}
