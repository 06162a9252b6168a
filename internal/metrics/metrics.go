// Package metrics holds the Prometheus collectors exported on the monitoring server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "waba"

var (
	// WebhookEvents counts inbound webhook deliveries by result.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Inbound webhook events by result.",
	}, []string{"result"})

	// RelayedMessages counts relayed messages by how the reply text was chosen.
	RelayedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_messages_total",
		Help:      "Relayed messages by reply outcome.",
	}, []string{"outcome"})

	// SentMessages counts calls to the platform send API by result.
	SentMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "send_total",
		Help:      "Platform send API calls by result.",
	}, []string{"result"})

	// DetachedTasks counts finished background tasks by result.
	DetachedTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "detached_tasks_total",
		Help:      "Detached background tasks by result.",
	}, []string{"result"})
)
