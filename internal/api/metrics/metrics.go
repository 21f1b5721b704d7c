// Package metrics defines and registers all custom Prometheus metrics for the
// Conectar admin API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package init; importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "conectar"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts created accounts.
// Label:
//   - origin: "self" (public registration) or "admin" (created by an administrator)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user accounts created, by origin.",
	},
	[]string{"origin"},
)

// TokenRejectionsTotal counts requests turned away by the auth middleware.
// Label:
//   - reason: "missing_header", "malformed_header", or "invalid_token"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected during token authentication.",
	},
	[]string{"reason"},
)
