// Package metrics defines and registers all custom Prometheus metrics for
// the catalog API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry on
// import and are exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// SignupsTotal counts signup requests by outcome.
// Label:
//   - result: "created", "conflict", "invalid", "throttled", "delivery_failed", "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup requests, by outcome.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts successful confirmation-code exchanges.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
)

// TokenExchangeFailuresTotal counts failed exchanges.
// Label:
//   - reason: "invalid_code" or "internal"
var TokenExchangeFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_exchange_failures_total",
		Help:      "Total number of failed confirmation-code exchanges.",
	},
	[]string{"reason"},
)

// ReviewsCreatedTotal counts newly published reviews.
var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)

// ActivityRecordedTotal counts audit entries written by the dispatcher.
// Label:
//   - verb: the recorded action (e.g. "signup", "review.create")
var ActivityRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_recorded_total",
		Help:      "Total number of activity entries persisted, by verb.",
	},
	[]string{"verb"},
)

// ActivityDroppedTotal counts audit entries discarded because a worker
// buffer was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity entries dropped under backpressure.",
	},
)
