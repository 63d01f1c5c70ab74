// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package doctree

import (
	"testing"

	"github.com/sdcio/xrc/collab"
)

func TestPoolReusesReleasedDocumentNode(t *testing.T) {
	p := NewPool()
	n1 := p.AcquireDocumentNode()
	n1.Name = collab.QName{Local: "foo"}
	n1.Text = "bar"
	p.ReleaseDocumentNode(n1)

	n2 := p.AcquireDocumentNode()
	if n2 != n1 {
		t.Fatalf("expected Acquire after Release to return the same backing node")
	}
	if n2.Name.Local != "" || n2.Text != "" {
		t.Fatalf("expected reset node, got Name=%+v Text=%q", n2.Name, n2.Text)
	}
}

func TestReleaseDocumentNodeCascadesToChildren(t *testing.T) {
	p := NewPool()
	root := p.AcquireDocumentNode()
	child := p.AcquireDocumentNode()
	grandchild := p.AcquireDocumentNode()
	child.AddChild(grandchild)
	root.AddChild(child)

	p.ReleaseDocumentNode(root)

	if len(p.docFree) != 3 {
		t.Fatalf("expected all 3 nodes back in the free list, got %d", len(p.docFree))
	}
}

func TestAddChildSetsParent(t *testing.T) {
	p := NewPool()
	parent := p.AcquireDocumentNode()
	child := p.AcquireDocumentNode()
	parent.AddChild(child)
	if child.Parent != parent {
		t.Fatalf("expected child.Parent to be set")
	}
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Fatalf("expected parent.Children to contain child")
	}
}

func TestPathNodeAcquireReleaseRoundTrip(t *testing.T) {
	p := NewPool()
	f1 := p.AcquirePathNode()
	f1.MatchCount = 3
	f1.BranchIndex = 1
	p.ReleasePathNode(f1)

	f2 := p.AcquirePathNode()
	if f2 != f1 {
		t.Fatalf("expected Acquire after Release to return the same backing node")
	}
	if f2.MatchCount != 0 || f2.BranchIndex != 0 {
		t.Fatalf("expected reset frame, got %+v", f2)
	}
}
