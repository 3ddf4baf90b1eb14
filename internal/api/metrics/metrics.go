// Package metrics defines all custom Prometheus metrics for the investment
// approval API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "investment"

// RequestsSubmittedTotal counts newly submitted investment requests.
var RequestsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_submitted_total",
		Help:      "Total number of investment requests submitted.",
	},
)

// DecisionsTotal counts workflow transitions by outcome.
// Label:
//   - outcome: "APPROVED", "REJECTED", or "ESCALATED"
var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of workflow transitions, by outcome.",
	},
	[]string{"outcome"},
)

// TransitionConflictsTotal counts transitions lost to a concurrent writer.
var TransitionConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_conflicts_total",
		Help:      "Total number of status transitions rejected because the request changed concurrently.",
	},
)

// IdempotentReplaysTotal counts submits answered from the idempotency cache.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of submit calls answered by idempotency-key replay.",
	},
)
