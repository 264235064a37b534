package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connection metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatnode_connections_active",
			Help: "Currently open client connections on this instance",
		},
	)

	// Business metrics
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnode_messages_sent_total",
			Help: "Total messages persisted via sendMessage",
		},
	)

	MessagesEdited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnode_messages_edited_total",
			Help: "Total message edits applied",
		},
	)

	MessagesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnode_messages_deleted_total",
			Help: "Total messages deleted",
		},
	)

	// Fanout metrics
	FanoutPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatnode_fanout_published_total",
			Help: "Room events published to the fanout bus",
		},
		[]string{"type"},
	)

	FanoutDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnode_fanout_delivered_total",
			Help: "Room events delivered to locally attached clients",
		},
	)

	PresenceQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnode_presence_queries_total",
			Help: "Cluster-wide presence aggregation queries",
		},
	)
)
