package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Requests issued to the logistics backend",
		},
		[]string{"op", "outcome"}, // outcome: ok|transport_error|bad_envelope|bad_payload|<код HTTP>
	)
	AuditEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Audit events published",
		},
		[]string{"action", "outcome"},
	)
	SessionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_operations_total",
			Help: "Session store operations",
		},
		[]string{"op"}, // hydrate_ok|hydrate_empty|hydrate_wiped|login|register|logout
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_operations_total",
			Help: "Query cache operations",
		},
		[]string{"op"}, // hit|miss|coalesced|invalidated|evicted|expired|load_error
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "query_cache_size",
			Help: "Number of entries currently in the query cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует все коллекторы; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(BackendRequests, AuditEvents, SessionOps, CacheOps, CacheSize)
	})
}
