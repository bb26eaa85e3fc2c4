// Package metrics provides the prometheus collectors shared by the node.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "floodchain"

var (
	// Ledger

	// BlocksMined counts the blocks sealed by this node.
	BlocksMined = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "blocks_mined_total",
			Help:      "Total number of blocks sealed by this node.",
		},
	)

	// BlocksProcessed counts the blocks received from peers by outcome.
	BlocksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "blocks_processed_total",
			Help:      "Total number of blocks received from peers, labeled by outcome.",
		},
		[]string{"outcome"}, // accepted, rejected, seen
	)

	// TransactionsAdmitted counts submitted transactions by outcome.
	TransactionsAdmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Total number of submitted transactions, labeled by outcome.",
		},
		[]string{"outcome"}, // admitted, rejected
	)

	// AccountsCreated counts accounts given the faucet credit.
	AccountsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "accounts_created_total",
			Help:      "Total number of accounts created with the faucet credit.",
		},
	)

	// Network

	// ConnectedPeers is the number of registered peer connections.
	ConnectedPeers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "p2p",
			Name:      "connected_peers",
			Help:      "Current number of registered peer connections.",
		},
	)

	// MessagesReceived counts free form lines read from peers.
	MessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "p2p",
			Name:      "messages_received_total",
			Help:      "Total number of free form lines received from peers.",
		},
	)

	// SendFailures counts writes to peer streams that failed.
	SendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "p2p",
			Name:      "send_failures_total",
			Help:      "Total number of failed writes to peer streams.",
		},
	)

	// Web

	// Requests counts http requests by status code.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "web",
			Name:      "requests_total",
			Help:      "Total number of http requests, labeled by status class.",
		},
		[]string{"code"},
	)

	// Panics counts panics recovered in handlers.
	Panics = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "web",
			Name:      "panics_total",
			Help:      "Total number of recovered panics in handlers.",
		},
	)
)
