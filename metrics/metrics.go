// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package metrics exposes the transcoder's prometheus instrumentation:
// a transcode counter, a path-finder backtrack counter, and a
// transcode duration histogram. github.com/prometheus/client_golang
// rides the teacher's go.mod transitively already (pulled in by its
// own dependency closure); this package is the first thing in the
// tree to call it directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Direction labels a transcode's direction for TranscodesTotal.
const (
	DirectionWrite = "write"
	DirectionRead  = "read"
)

// Outcome labels a transcode's outcome for TranscodesTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// TranscodesTotal counts completed Session.Write/Read calls, by
	// direction and outcome.
	TranscodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xrc_transcodes_total",
		Help: "Total number of document/record transcodes performed.",
	}, []string{"direction", "outcome"})

	// PathBacktracksTotal counts Path Finder checkpoint restores, one
	// per ambiguous branch abandoned during matching.
	PathBacktracksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xrc_path_backtracks_total",
		Help: "Total number of path-finder checkpoint backtracks.",
	})

	// TranscodeDuration observes the wall-clock duration of a single
	// Session.Write/Read call, by direction.
	TranscodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xrc_transcode_duration_seconds",
		Help:    "Duration of a document/record transcode, in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction"})
)
