// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package statemachine implements §4.D: a directed graph of typed
// states built from Schema Walker events, with min/max occurrence
// bounds on each edge. Grounded on compile/compile.go's BuildModule,
// which likewise consumes a parsed tree and emits a reusable schema.Tree
// via a construction stack, generalized here from YANG containers/
// choices to XSD particles/substitution-groups and made tolerant of
// cycles (compile.go panics on bad input; a streaming transcoder cannot).
package statemachine

import (
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
)

// Kind discriminates a StateMachineNode's shape, per spec §3.
type Kind int

const (
	KindElement Kind = iota
	KindAny
	KindSubstitutionGroup
	KindSequence
	KindChoice
	KindAll
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "ELEMENT"
	case KindAny:
		return "ANY"
	case KindSubstitutionGroup:
		return "SUBSTITUTION_GROUP"
	case KindSequence:
		return "SEQUENCE"
	case KindChoice:
		return "CHOICE"
	case KindAll:
		return "ALL"
	}
	return "UNKNOWN"
}

// Unbounded is the max_occurs sentinel meaning "no upper bound".
const Unbounded = ^uint64(0)

// Attribute is the compiled, facet-resolved form of an XSD attribute
// declaration, attached to its owning ELEMENT node. Resolving the
// collaborator's opaque collab.SimpleType to a facet.SimpleTypeInfo up
// front, the same way ELEMENT content types are resolved, lets the
// Transducer print/parse attribute literals without consulting the
// schema source a second time.
type Attribute struct {
	Name       collab.QName
	Type       facet.SimpleTypeInfo
	Use        collab.AttrUse
	Default    string
	HasDefault bool
	Fixed      string
	HasFixed   bool
}

// Edge is one outgoing, occurrence-bounded link from a Node to the
// state it leads into.
type Edge struct {
	To        *Node
	MinOccurs uint64
	MaxOccurs uint64 // Unbounded sentinel for no upper bound
}

// Node is an immutable StateMachineNode (spec §3). Built once from the
// XSD and safely shared across concurrent transcodes once construction
// completes (§5).
type Node struct {
	Kind Kind

	// Meaningful when Kind == KindElement.
	ElementQName collab.QName
	ElementType  facet.SimpleTypeInfo
	Attributes   []Attribute
	Nillable     bool
	Default      string
	HasDefault   bool
	Fixed        string
	HasFixed     bool

	// Meaningful when Kind == KindAny.
	AnyNamespaces   []string
	ProcessContents collab.ProcessContents

	// Next is the ordered set of outgoing edges; order is authoritative
	// for greedy matching by the Path Finder.
	Next []Edge
}

// Graph is the compiled state machine for one root element.
type Graph struct {
	// Start is the single entry point, the outermost ELEMENT node
	// created for the root element, per spec §3's invariant.
	Start *Node

	// registry shares ELEMENT nodes across the graph whenever the same
	// (element, type) pair is referenced from multiple positions, per
	// spec §3.
	registry map[elementKey]*Node
}

type elementKey struct {
	name collab.QName
	typ  collab.QName
}

// NewGraph returns a Graph rooted at start, for callers (tests, or a
// caller-supplied alternative to Generate) building a state machine
// without going through a Schema Walker event stream.
func NewGraph(start *Node) *Graph {
	return &Graph{Start: start, registry: make(map[elementKey]*Node)}
}
