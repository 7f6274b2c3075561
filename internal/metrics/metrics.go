// Package metrics exposes prometheus counters for the money path.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LedgerEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradepay_ledger_entries_total",
		Help: "Ledger entries appended, by type and purpose.",
	}, []string{"type", "purpose"})

	CommissionRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradepay_commission_records_total",
		Help: "Commission records created.",
	})

	WithdrawalTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradepay_withdrawal_transitions_total",
		Help: "Withdrawal state transitions, by target state.",
	}, []string{"to"})

	FundingEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradepay_funding_events_total",
		Help: "External funding events credited.",
	})
)

// Handler serves the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
