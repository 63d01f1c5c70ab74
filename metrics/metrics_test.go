// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTranscodesTotalIncrements(t *testing.T) {
	before := testutil.ToFloat64(TranscodesTotal.WithLabelValues(DirectionWrite, OutcomeSuccess))
	TranscodesTotal.WithLabelValues(DirectionWrite, OutcomeSuccess).Inc()
	after := testutil.ToFloat64(TranscodesTotal.WithLabelValues(DirectionWrite, OutcomeSuccess))
	if after != before+1 {
		t.Fatalf("expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestPathBacktracksTotalIncrements(t *testing.T) {
	before := testutil.ToFloat64(PathBacktracksTotal)
	PathBacktracksTotal.Inc()
	after := testutil.ToFloat64(PathBacktracksTotal)
	if after != before+1 {
		t.Fatalf("expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestTranscodeDurationObserves(t *testing.T) {
	before := testutil.CollectAndCount(TranscodeDuration)
	TranscodeDuration.WithLabelValues(DirectionRead).Observe(0.01)
	after := testutil.CollectAndCount(TranscodeDuration)
	if after < before {
		t.Fatalf("expected histogram series count to not decrease: %d -> %d", before, after)
	}
}
