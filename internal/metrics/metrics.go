// Package metrics registers the application's Prometheus collectors with the
// default registry. They are served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skatepark"

// RegistrationsTotal counts registration attempts.
// Label result: created, invalid, conflict, media_error, error.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label result: success, invalid, error.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

var AccountsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_deleted_total",
		Help:      "Total number of self-deleted accounts.",
	},
)

// PhotoCleanupFailuresTotal counts photos left behind after their row was removed.
var PhotoCleanupFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_cleanup_failures_total",
		Help:      "Total number of photos that could not be deleted from the media store.",
	},
)

// StatusChangesTotal counts approval changes.
// Label estado: the new state, "true" or "false".
var StatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Total number of approval state changes made by administrators.",
	},
	[]string{"estado"},
)
