// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package xrctest holds small hand-rolled test assertion helpers used
// by the xrc facade's scenario tests, grounded on
// testutils/assert.ExpectedError/CheckStringDivergence's style of a
// constructor plus a Matches(t, ...) method, rather than pulling in a
// third-party assertion library.
package xrctest

import (
	"testing"

	"github.com/sdcio/xrc/xrcerrors"
)

// ExpectedKind asserts that an error is an *xrcerrors.Error of a
// specific Kind, the way testutils/assert.NewExpectedError asserts an
// error's rendered message.
type ExpectedKind struct {
	kind xrcerrors.Kind
}

func NewExpectedKind(kind xrcerrors.Kind) *ExpectedKind {
	return &ExpectedKind{kind: kind}
}

func (e *ExpectedKind) Matches(t *testing.T, actual error) {
	t.Helper()
	if actual == nil {
		t.Fatalf("expected an error of kind %s, got success", e.kind)
	}
	if !xrcerrors.Is(actual, e.kind) {
		t.Fatalf("expected an error of kind %s, got %v", e.kind, actual)
	}
}

// NoError fails the test immediately with err's message, if non-nil.
func NoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
