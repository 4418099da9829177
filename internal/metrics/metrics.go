// Package metrics defines the domain Prometheus metrics of the messagely API.
// They register with the default registry on import and are exposed on
// GET /metrics next to the echoprometheus HTTP collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "messagely"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register, login and logout attempts.
// Labels:
//   - action: "register", "login" or "logout"
//   - result: "success" or an error kind ("invalid", "unauthorized", "conflict", "error")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Message metrics ───────────────────────────────────────────────────────────

// MessagesSentTotal counts messages stored by the messaging service.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of messages sent.",
	},
)

// MessagesReadTotal counts successful mark-read calls, including repeats.
var MessagesReadTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_read_total",
		Help:      "Total number of mark-read requests that succeeded.",
	},
)
