// Package metrics registers the server's Prometheus collectors.
// Collectors live in the default registry and are served by promhttp.Handler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsplit_rpc_requests_total",
			Help: "Total number of RPCs by procedure and result code",
		},
		[]string{"procedure", "code"},
	)

	rpcDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventsplit_rpc_duration_seconds",
			Help:    "Duration of RPC handling in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"procedure"},
	)

	expensesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsplit_expenses_created_total",
			Help: "Total number of expenses created by split type",
		},
		[]string{"split_type"},
	)

	splitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsplit_split_rejections_total",
			Help: "Total number of split computations rejected by reason",
		},
		[]string{"reason"}, // invalid_amount, invalid_split, unknown_participant
	)

	settlementsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventsplit_settlements_recorded_total",
			Help: "Total number of settlements recorded",
		},
	)

	suggestedTransfers = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventsplit_suggested_transfers",
			Help:    "Number of transfers in each settlement suggestion",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
)

// ObserveRPC records one finished RPC. code is "ok" on success.
func ObserveRPC(procedure, code string, elapsed time.Duration) {
	rpcRequests.WithLabelValues(procedure, code).Inc()
	rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// ExpenseCreated counts a stored expense.
func ExpenseCreated(splitType string) {
	expensesCreated.WithLabelValues(splitType).Inc()
}

// SplitRejected counts a split the calculator refused.
func SplitRejected(reason string) {
	splitRejections.WithLabelValues(reason).Inc()
}

// SettlementRecorded counts a stored settlement.
func SettlementRecorded() {
	settlementsRecorded.Inc()
}

// SuggestionSize records how many transfers a suggestion needed.
func SuggestionSize(n int) {
	suggestedTransfers.Observe(float64(n))
}
