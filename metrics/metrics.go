// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Commands counts dispatched chat commands by name and outcome.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movienight",
		Name:      "commands_total",
		Help:      "Chat commands handled, by command and outcome.",
	}, []string{"command", "outcome"})

	// Lookups counts candidate resolutions by source (cache, store, remote) and outcome.
	Lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movienight",
		Name:      "candidate_lookups_total",
		Help:      "Candidate resolutions, by source and outcome.",
	}, []string{"source", "outcome"})

	LookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "movienight",
		Name:      "candidate_lookup_duration_seconds",
		Help:      "Latency of remote candidate lookups.",
		Buckets:   prometheus.DefBuckets,
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movienight",
		Name:      "http_requests_total",
		Help:      "HTTP requests, by method, path, and status code.",
	}, []string{"method", "path", "code"})
)
