// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package doctree implements §4.E: a per-parse document tree of
// recyclable nodes, plus the companion path-node pool the Path Finder
// uses for its checkpoint stack. Grounded on schema/tree.go's node
// struct (parent pointer, ordered children, name/namespace pair),
// generalized from a static, once-built schema tree to a tree built
// and torn down once per transcoded document.
package doctree

import (
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/statemachine"
)

// DocumentNode is one element (or attribute, or text run) encountered
// while transcoding a document. Its lifetime is scoped to a single
// parse; Pool.Release returns it, and everything reachable from it, to
// the free list.
type DocumentNode struct {
	Name  collab.QName
	State *statemachine.Node // the matched state, nil for text-only nodes
	Text  string

	Parent   *DocumentNode
	Children []*DocumentNode
	Attrs    []collab.XMLAttr

	// UserSlot is free for a Schema Applier to stash a decorated
	// record-schema handle without doctree knowing its shape.
	UserSlot interface{}

	// OpenDepth records the Path Finder's checkpoint-stack depth at the
	// moment this node's start_element was matched, so end_element can
	// unwind exactly the frames opened during this element's lifetime.
	OpenDepth int

	pool *Pool
}

// AddChild appends child to n's children and sets its parent pointer.
func (n *DocumentNode) AddChild(child *DocumentNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *DocumentNode) reset() {
	n.Name = collab.QName{}
	n.State = nil
	n.Text = ""
	n.Parent = nil
	n.Children = n.Children[:0]
	n.Attrs = n.Attrs[:0]
	n.UserSlot = nil
	n.OpenDepth = 0
}

// PathNode is one frame of the Path Finder's checkpoint stack: the
// state the matcher is currently positioned at within a group, how many
// times it has matched so far, and the index of the branch being tried
// (for CHOICE backtracking).
type PathNode struct {
	State       *statemachine.Node
	MatchCount  int
	BranchIndex int
	Parent      *PathNode

	// Counts holds one occurrence counter per outgoing edge of State,
	// used only while State.Kind == statemachine.KindAll, whose children
	// may recur independently of each other and of document order.
	Counts []int

	// Children holds, parallel to Counts, the persistent sub-frame for
	// each ALL member that is itself a group, lazily created on first
	// use and released in cascade along with this frame.
	Children []*PathNode

	pool *Pool
}

func (p *PathNode) reset() {
	p.State = nil
	p.MatchCount = 0
	p.BranchIndex = 0
	p.Parent = nil
	p.Counts = p.Counts[:0]
	p.Children = p.Children[:0]
}

// Pool hands out DocumentNode and PathNode values from free lists
// instead of allocating fresh ones per document, so a long-running
// transcoding session does not churn the GC once steady state is
// reached. Not safe for concurrent use; per §5 each Session owns one
// Pool exclusively.
type Pool struct {
	docFree  []*DocumentNode
	pathFree []*PathNode
}

// NewPool returns an empty Pool; nodes are allocated lazily on first
// Acquire and recycled thereafter.
func NewPool() *Pool {
	return &Pool{}
}

// AcquireDocumentNode returns a zeroed DocumentNode, reusing one from
// the free list when available.
func (p *Pool) AcquireDocumentNode() *DocumentNode {
	n := p.popDoc()
	if n == nil {
		n = &DocumentNode{pool: p}
	}
	return n
}

func (p *Pool) popDoc() *DocumentNode {
	if len(p.docFree) == 0 {
		return nil
	}
	n := p.docFree[len(p.docFree)-1]
	p.docFree = p.docFree[:len(p.docFree)-1]
	return n
}

// ReleaseDocumentNode returns n, and every descendant reachable from
// it, to the free list. n must not be used again after this call.
func (p *Pool) ReleaseDocumentNode(n *DocumentNode) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		p.ReleaseDocumentNode(c)
	}
	n.reset()
	p.docFree = append(p.docFree, n)
}

// AcquirePathNode returns a zeroed PathNode, reusing one from the free
// list when available.
func (p *Pool) AcquirePathNode() *PathNode {
	n := p.popPath()
	if n == nil {
		n = &PathNode{pool: p}
	}
	return n
}

func (p *Pool) popPath() *PathNode {
	if len(p.pathFree) == 0 {
		return nil
	}
	n := p.pathFree[len(p.pathFree)-1]
	p.pathFree = p.pathFree[:len(p.pathFree)-1]
	return n
}

// ReleasePathNode returns n, and every ALL-member sub-frame reachable
// from it, to the free list. The Path Finder owns the checkpoint stack
// and releases each element's own frames as it closes that element, so
// only the Children cascade (not the Parent chain) is followed here.
func (p *Pool) ReleasePathNode(n *PathNode) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		p.ReleasePathNode(c)
	}
	n.reset()
	p.pathFree = append(p.pathFree, n)
}
