// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the market engine.
type Metrics struct {
	// Clearing metrics
	ClearingsRun    *prometheus.CounterVec
	SupplyShortfall *prometheus.CounterVec
	OffersAccepted  prometheus.Counter
	ClearingPrice   *prometheus.HistogramVec
	ClearedMW       *prometheus.HistogramVec

	// Bidding metrics
	BidsSubmitted prometheus.Counter
	BidsRejected  prometheus.Counter

	// Game lifecycle metrics
	YearsCompleted prometheus.Counter
	GamesCompleted prometheus.Counter
	PlantsBuilt    *prometheus.CounterVec

	// Finance metrics
	CapitalCommitted   prometheus.Counter
	SettlementsPosted  prometheus.Counter
	SettlementNetTotal prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "capacity_market"
	}

	return &Metrics{
		ClearingsRun: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clearing",
			Name:      "runs_total",
			Help:      "Total number of clearing runs by load period",
		}, []string{"period"}),
		SupplyShortfall: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clearing",
			Name:      "shortfalls_total",
			Help:      "Total number of clearings where supply fell short of demand",
		}, []string{"period"}),
		OffersAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clearing",
			Name:      "offers_accepted_total",
			Help:      "Total number of offers accepted across all clearings",
		}),
		ClearingPrice: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "clearing",
			Name:      "price_per_mwh",
			Help:      "Clearing price distribution in $/MWh",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		}, []string{"period"}),
		ClearedMW: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "clearing",
			Name:      "cleared_mw",
			Help:      "Cleared quantity distribution in MW",
			Buckets:   prometheus.ExponentialBuckets(100, 2, 10),
		}, []string{"period"}),
		BidsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bidding",
			Name:      "bids_submitted_total",
			Help:      "Total number of bids accepted for the book",
		}),
		BidsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bidding",
			Name:      "bids_rejected_total",
			Help:      "Total number of bids rejected by validation",
		}),
		YearsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "years_completed_total",
			Help:      "Total number of simulation years completed",
		}),
		GamesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "sessions_completed_total",
			Help:      "Total number of game sessions run to completion",
		}),
		PlantsBuilt: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "plants_built_total",
			Help:      "Total number of plants built by technology",
		}, []string{"technology"}),
		CapitalCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "finance",
			Name:      "capital_committed_dollars_total",
			Help:      "Total capital committed for plant construction",
		}),
		SettlementsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "finance",
			Name:      "settlements_posted_total",
			Help:      "Total number of yearly settlements posted",
		}),
		SettlementNetTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "finance",
			Name:      "settlement_revenue_dollars_total",
			Help:      "Total gross revenue settled to utilities",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordClearing records one clearing run outcome.
func RecordClearing(period string, price, clearedMW float64, offersAccepted int, shortfall bool) {
	DefaultMetrics.ClearingsRun.WithLabelValues(period).Inc()
	DefaultMetrics.ClearingPrice.WithLabelValues(period).Observe(price)
	DefaultMetrics.ClearedMW.WithLabelValues(period).Observe(clearedMW)
	DefaultMetrics.OffersAccepted.Add(float64(offersAccepted))
	if shortfall {
		DefaultMetrics.SupplyShortfall.WithLabelValues(period).Inc()
	}
}

// RecordBidSubmitted increments the submitted bid counter.
func RecordBidSubmitted() {
	DefaultMetrics.BidsSubmitted.Inc()
}

// RecordBidRejected increments the rejected bid counter.
func RecordBidRejected() {
	DefaultMetrics.BidsRejected.Inc()
}

// RecordYearCompleted increments the completed year counter.
func RecordYearCompleted() {
	DefaultMetrics.YearsCompleted.Inc()
}

// RecordGameCompleted increments the completed session counter.
func RecordGameCompleted() {
	DefaultMetrics.GamesCompleted.Inc()
}

// RecordPlantBuilt records a plant build with its capital commitment.
func RecordPlantBuilt(technology string, capitalCost float64) {
	DefaultMetrics.PlantsBuilt.WithLabelValues(technology).Inc()
	DefaultMetrics.CapitalCommitted.Add(capitalCost)
}

// RecordSettlement records one posted settlement.
func RecordSettlement(revenue float64) {
	DefaultMetrics.SettlementsPosted.Inc()
	DefaultMetrics.SettlementNetTotal.Add(revenue)
}
