// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Strategy metrics
	SignalsTotal      *prometheus.CounterVec
	OrdersSubmitted   prometheus.Counter
	OrdersFilled      *prometheus.CounterVec
	OrdersTerminal    *prometheus.CounterVec
	CommissionCharged *prometheus.CounterVec
	TradesClosed      *prometheus.CounterVec

	// Run metrics
	RunsCompleted   prometheus.Counter
	RunDuration     prometheus.Histogram
	BarsProcessed   prometheus.Counter
	AssetsSnapshots prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "stock_quant"
	}

	return &Metrics{
		SignalsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategy",
			Name:      "signals_total",
			Help:      "Total number of trade signals generated by action",
		}, []string{"action"}),
		OrdersSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategy",
			Name:      "orders_submitted_total",
			Help:      "Total number of orders submitted",
		}),
		OrdersFilled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategy",
			Name:      "orders_filled_total",
			Help:      "Total number of completed orders by action",
		}, []string{"action"}),
		OrdersTerminal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategy",
			Name:      "orders_terminal_total",
			Help:      "Total number of orders ending without execution by status",
		}, []string{"status"}),
		CommissionCharged: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategy",
			Name:      "commission_charged_total",
			Help:      "Total commission charged by market, in the market currency",
		}, []string{"market"}),
		TradesClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "strategy",
			Name:      "trades_closed_total",
			Help:      "Total number of fully closed round trips by outcome",
		}, []string{"outcome"}),

		RunsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "runs_completed_total",
			Help:      "Total number of completed backtest runs",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "run_duration_seconds",
			Help:      "Backtest run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		BarsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "bars_processed_total",
			Help:      "Total number of price bars processed",
		}),
		AssetsSnapshots: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "asset_snapshots_total",
			Help:      "Total number of asset valuation snapshots recorded",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSignal increments the signal counter for an action.
func RecordSignal(action string) {
	DefaultMetrics.SignalsTotal.WithLabelValues(action).Inc()
}

// RecordOrderSubmitted increments the submitted-orders counter.
func RecordOrderSubmitted() {
	DefaultMetrics.OrdersSubmitted.Inc()
}

// RecordOrderFilled increments the filled-orders counter for an action.
func RecordOrderFilled(action string) {
	DefaultMetrics.OrdersFilled.WithLabelValues(action).Inc()
}

// RecordOrderTerminal increments the unexecuted-terminal counter for a status.
func RecordOrderTerminal(status string) {
	DefaultMetrics.OrdersTerminal.WithLabelValues(status).Inc()
}

// RecordCommission adds a charged commission to the per-market total.
func RecordCommission(market string, amount float64) {
	DefaultMetrics.CommissionCharged.WithLabelValues(market).Add(amount)
}

// RecordTradeClosed increments the closed-trades counter.
func RecordTradeClosed(win bool) {
	outcome := "loss"
	if win {
		outcome = "win"
	}
	DefaultMetrics.TradesClosed.WithLabelValues(outcome).Inc()
}

// RecordRunCompleted records one finished backtest run.
func RecordRunCompleted(durationSeconds float64) {
	DefaultMetrics.RunsCompleted.Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordBarProcessed increments the processed-bars counter.
func RecordBarProcessed() {
	DefaultMetrics.BarsProcessed.Inc()
}

// RecordAssetSnapshot increments the snapshot counter.
func RecordAssetSnapshot() {
	DefaultMetrics.AssetsSnapshots.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
