// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package statemachine

import (
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
	"github.com/sdcio/xrc/scope"
	"github.com/sdcio/xrc/walker"
)

// Generate walks src starting at rootName and compiles the resulting
// event stream into a Graph. Grounded on compile.go's pattern of
// driving a construction stack off a parsed tree; here the driver is
// the walker's Visitor event stream rather than a parse.Tree.
func Generate(src collab.SchemaSource, scopeBuilder *scope.Builder, rootName collab.QName) (*Graph, error) {
	g := &generator{registry: make(map[elementKey]*Node), scope: scopeBuilder}
	w := walker.New(src, scopeBuilder)
	if err := w.Walk(rootName, g); err != nil {
		return nil, err
	}
	if g.err != nil {
		return nil, g.err
	}
	return &Graph{Start: g.start, registry: g.registry}, nil
}

// frame is one entry of the construction stack: the node currently
// being populated (an ELEMENT node collecting attributes, or a group
// node collecting child edges) and where its eventual edge, if any,
// should be linked once it is known to be non-empty.
type frame struct {
	node      *Node
	isGroup   bool // true for SEQUENCE/CHOICE/ALL/SUBSTITUTION_GROUP frames, pending elision check
	minOccurs uint64
	maxOccurs uint64
}

type generator struct {
	registry map[elementKey]*Node
	start    *Node
	stack    []frame
	scope    *scope.Builder
	err      error
}

func occurs(min, max uint64) (uint64, uint64) {
	if max == 0 {
		return min, Unbounded
	}
	return min, max
}

func (g *generator) top() *Node {
	if len(g.stack) == 0 {
		return nil
	}
	return g.stack[len(g.stack)-1].node
}

// linkChild appends an edge from the current top-of-stack node (if
// any) to child with the given local occurs. The root element has no
// parent frame and is linked nowhere but Graph.Start.
func (g *generator) linkChild(child *Node, min, max uint64) {
	lo, hi := occurs(min, max)
	if len(g.stack) == 0 {
		return
	}
	parent := g.stack[len(g.stack)-1].node
	parent.Next = append(parent.Next, Edge{To: child, MinOccurs: lo, MaxOccurs: hi})
}

func (g *generator) OnEnterElement(elem collab.ElementDecl, typeInfo facet.SimpleTypeInfo, min, max uint64, previouslyVisited bool) {
	key := elementKey{name: elem.Name, typ: elem.Type}
	node, ok := g.registry[key]
	if !ok {
		node = &Node{
			Kind: KindElement, ElementQName: elem.Name, ElementType: typeInfo,
			Nillable: elem.Nillable, Default: elem.Default, HasDefault: elem.HasDefault,
			Fixed: elem.Fixed, HasFixed: elem.HasFixed,
		}
		g.registry[key] = node
	}

	if g.start == nil {
		g.start = node
	}
	g.linkChild(node, min, max)
	g.stack = append(g.stack, frame{node: node})
}

func (g *generator) OnExitElement(collab.ElementDecl, facet.SimpleTypeInfo, uint64, uint64, bool) {
	g.stack = g.stack[:len(g.stack)-1]
}

func (g *generator) OnVisitAttribute(_ collab.ElementDecl, attr collab.Attribute) {
	n := g.top()
	if n == nil {
		return
	}
	if g.err != nil {
		return
	}
	info, err := g.scope.ResolveSimpleType(attr.Type)
	if err != nil {
		g.err = err
		return
	}
	n.Attributes = append(n.Attributes, Attribute{
		Name: attr.Name, Type: info, Use: attr.Use,
		Default: attr.Default, HasDefault: attr.HasDef,
		Fixed: attr.Fixed, HasFixed: attr.HasFix,
	})
}

func (g *generator) OnEnterSubstitutionGroup(baseElem collab.ElementDecl) {
	// The walker does not forward local occurs to substitution-group
	// boundaries; the real cardinality constraint lives on each member
	// element's own ELEMENT edge, so the wrapping node is always 1..1.
	node := &Node{Kind: KindSubstitutionGroup}
	g.linkChild(node, 1, 1)
	g.stack = append(g.stack, frame{node: node, isGroup: true, minOccurs: 1, maxOccurs: 1})
}

func (g *generator) OnExitSubstitutionGroup(collab.ElementDecl) {
	g.popGroup()
}

func (g *generator) enterGroup(kind Kind, min, max uint64) {
	node := &Node{Kind: kind}
	g.stack = append(g.stack, frame{node: node, isGroup: true, minOccurs: min, maxOccurs: max})
}

// popGroup pops the current group frame and links it into its parent
// only if it accumulated at least one outgoing edge; an empty group
// (e.g. a <xs:choice> every branch of which turned out to be a
// previously-visited recursive reference with nothing left to do) is
// elided at link-time rather than left dangling in the graph.
func (g *generator) popGroup() {
	f := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	if len(f.node.Next) == 0 {
		return
	}
	g.linkChild(f.node, f.minOccurs, f.maxOccurs)
}

func (g *generator) OnEnterAllGroup(min, max uint64)      { g.enterGroup(KindAll, min, max) }
func (g *generator) OnExitAllGroup(uint64, uint64)        { g.popGroup() }
func (g *generator) OnEnterChoiceGroup(min, max uint64)   { g.enterGroup(KindChoice, min, max) }
func (g *generator) OnExitChoiceGroup(uint64, uint64)     { g.popGroup() }
func (g *generator) OnEnterSequenceGroup(min, max uint64) { g.enterGroup(KindSequence, min, max) }
func (g *generator) OnExitSequenceGroup(uint64, uint64)   { g.popGroup() }

func (g *generator) OnVisitAny(any collab.Particle) {
	node := &Node{Kind: KindAny, AnyNamespaces: any.AnyNamespaces, ProcessContents: any.ProcessContents}
	g.linkChild(node, any.MinOccurs, any.MaxOccurs)
}

func (g *generator) OnVisitAnyAttribute(_ collab.ElementDecl, namespaces []string) {
	// Wildcard attributes carry no state-machine edge and are not
	// recorded on the owning ELEMENT node; only its declared Attributes
	// are kept.
}

var _ walker.Visitor = (*generator)(nil)
