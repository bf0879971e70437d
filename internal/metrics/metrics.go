// Package metrics exposes Prometheus collectors for escrow operations.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowdfund",
			Subsystem: "escrow",
			Name:      "operations_total",
			Help:      "Escrow operations by name and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	fundsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowdfund",
			Subsystem: "escrow",
			Name:      "funds_moved_total",
			Help:      "Payment asset units moved through custody, by flow.",
		},
		[]string{"flow"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crowdfund",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Fund flows recorded by RecordFunds.
const (
	FlowPledge = "pledge"
	FlowPayout = "payout"
	FlowFee    = "fee"
	FlowRefund = "refund"
)

// Register adds the collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(operations, fundsMoved, httpDuration)
	})
}

// RecordOperation counts one operation. err == nil counts as "ok".
func RecordOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	operations.WithLabelValues(op, outcome).Inc()
}

func RecordFunds(flow string, amount uint64) {
	if amount == 0 {
		return
	}
	fundsMoved.WithLabelValues(flow).Add(float64(amount))
}

func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
