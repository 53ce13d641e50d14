// Package metrics defines and registers the custom Prometheus metrics of the
// accounts portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginsTotal counts form login attempts.
// Label:
//   - result: "success" or "failure" (unknown user, bad password and lockout
//     are deliberately not told apart)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of form login attempts, by result.",
	},
	[]string{"result"},
)

// LoginLockoutsTotal counts clients locked out after too many failed logins.
var LoginLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_lockouts_total",
		Help:      "Total number of client lockouts triggered by repeated login failures.",
	},
)

// ── Accounts ─────────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration submissions.
// Label:
//   - result: "created", "invalid" (form or uniqueness error) or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration submissions, by result.",
	},
	[]string{"result"},
)

// ProfileUpdatesTotal counts profile update submissions.
// Label:
//   - result: "updated", "invalid" or "error"
var ProfileUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_updates_total",
		Help:      "Total number of profile update submissions, by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests stopped by the route policy.
// Label:
//   - decision: "challenge" (login required) or "forbid" (role missing)
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the route policy.",
	},
	[]string{"decision"},
)
