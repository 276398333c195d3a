package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_created_total",
		Help: "Total number of reservations created",
	})

	ReservationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_failed_total",
		Help: "Total number of rejected reservation attempts",
	}, []string{"kind"})

	ReservationsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_cancelled_total",
		Help: "Total number of reservations cancelled before expiry",
	})

	ReservationsReclaimedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_reclaimed_total",
		Help: "Total number of expired reservations whose inventory was released",
	})

	ReclaimFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reclaim_failures_total",
		Help: "Total number of expired reservations a sweep failed to release",
	})

	ReclaimSweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reclaim_sweep_duration_seconds",
		Help:    "Duration of expiry reclaim sweeps",
		Buckets: prometheus.DefBuckets,
	})

	OrdersFinalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_finalized_total",
		Help: "Total number of reservations converted into orders",
	})

	FinalizeDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finalize_duplicates_total",
		Help: "Total number of redelivered confirmations answered with an existing order",
	})

	PaymentMismatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_mismatch_total",
		Help: "Total number of finalized payments whose amount or currency differed from the order",
	}, []string{"field"})

	FinalizeRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finalize_rejected_total",
		Help: "Total number of confirmations that could not be finalized",
	}, []string{"kind"})

	ReserveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reserve_latency_seconds",
		Help:    "Latency of the atomic reservation transaction",
		Buckets: prometheus.DefBuckets,
	})

	ContentionRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contention_retries_total",
		Help: "Total number of retries caused by lock contention",
	}, []string{"operation"})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"scope"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
