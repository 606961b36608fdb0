// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "controlgrid_ticks_total",
		Help: "Evaluation ticks run by the graph manager.",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "controlgrid_tick_duration_seconds",
		Help:    "Time spent in one manager tick.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	})

	evalErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "controlgrid_eval_errors_total",
		Help: "Evaluation passes that failed, by mode.",
	}, []string{"mode"})

	noticesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "controlgrid_notices_total",
		Help: "User-visible notices raised, by kind.",
	}, []string{"kind"})

	loadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "controlgrid_profile_load_failures_total",
		Help: "Profile documents that failed to load and were disabled.",
	})

	graphNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "controlgrid_graph_nodes",
		Help: "Nodes in each loaded profile graph.",
	}, []string{"profile"})

	graphLinks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "controlgrid_graph_links",
		Help: "Links in each loaded profile graph.",
	}, []string{"profile"})

	devicesAttached = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "controlgrid_devices_attached",
		Help: "Input devices present in the latest snapshot.",
	})
)
