// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package statemachine

import (
	"testing"

	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/scope"
)

type fakeSimpleType struct{ q collab.QName }

func (f fakeSimpleType) QName() collab.QName { return f.q }

type fakeSource struct {
	elements map[collab.QName]collab.ElementDecl
	scopes   map[collab.QName]collab.TypeScope
	subs     map[collab.QName][]collab.QName
}

func (s *fakeSource) RootElement(name collab.QName) (collab.ElementDecl, bool) { return s.Element(name) }
func (s *fakeSource) Element(name collab.QName) (collab.ElementDecl, bool) {
	e, ok := s.elements[name]
	return e, ok
}
func (s *fakeSource) Scope(name collab.QName) (collab.TypeScope, bool) {
	t, ok := s.scopes[name]
	return t, ok
}
func (s *fakeSource) SubstitutionMembers(head collab.QName) []collab.QName { return s.subs[head] }

func q(local string) collab.QName { return collab.QName{Local: local} }

func TestGenerateLinksSequenceChildrenInOrder(t *testing.T) {
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"): {Name: q("root"), Type: q("RootType")},
			q("a"):    {Name: q("a"), Type: q("StringType")},
			q("b"):    {Name: q("b"), Type: q("IntType")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RootType"): {
				QName: q("RootType"),
				Particle: collab.Particle{
					Kind: collab.ParticleSequence, MinOccurs: 1, MaxOccurs: 1,
					Children: []collab.Particle{
						{Kind: collab.ParticleElement, ElementName: q("a"), MinOccurs: 1, MaxOccurs: 1},
						{Kind: collab.ParticleElement, ElementName: q("b"), MinOccurs: 0, MaxOccurs: 0},
					},
				},
			},
			q("StringType"): {QName: q("StringType"), IsSimple: true, SimpleContent: fakeSimpleType{q("string")}},
			q("IntType"):    {QName: q("IntType"), IsSimple: true, SimpleContent: fakeSimpleType{q("int")}},
		},
	}

	g, err := Generate(src, scope.NewBuilder(src), q("root"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if g.Start.Kind != KindElement || g.Start.ElementQName.Local != "root" {
		t.Fatalf("expected root ELEMENT as Start, got %+v", g.Start)
	}
	if len(g.Start.Next) != 1 || g.Start.Next[0].To.Kind != KindSequence {
		t.Fatalf("expected root to have a single SEQUENCE edge, got %+v", g.Start.Next)
	}
	seq := g.Start.Next[0].To
	if len(seq.Next) != 2 {
		t.Fatalf("expected sequence with 2 children, got %d", len(seq.Next))
	}
	if seq.Next[0].To.ElementQName.Local != "a" || seq.Next[1].To.ElementQName.Local != "b" {
		t.Fatalf("expected order [a, b], got [%s, %s]", seq.Next[0].To.ElementQName.Local, seq.Next[1].To.ElementQName.Local)
	}
	if seq.Next[1].MaxOccurs != Unbounded {
		t.Fatalf("expected b's max_occurs=0 to translate to Unbounded, got %d", seq.Next[1].MaxOccurs)
	}
}

func TestGenerateSharesElementNodeAcrossReferences(t *testing.T) {
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"):  {Name: q("root"), Type: q("RootType")},
			q("shared"): {Name: q("shared"), Type: q("StringType")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RootType"): {
				QName: q("RootType"),
				Particle: collab.Particle{
					Kind: collab.ParticleChoice, MinOccurs: 1, MaxOccurs: 1,
					Children: []collab.Particle{
						{Kind: collab.ParticleElement, ElementName: q("shared"), MinOccurs: 1, MaxOccurs: 1},
						{Kind: collab.ParticleElement, ElementName: q("shared"), MinOccurs: 1, MaxOccurs: 1},
					},
				},
			},
			q("StringType"): {QName: q("StringType"), IsSimple: true, SimpleContent: fakeSimpleType{q("string")}},
		},
	}

	g, err := Generate(src, scope.NewBuilder(src), q("root"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	choice := g.Start.Next[0].To
	if choice.Next[0].To != choice.Next[1].To {
		t.Fatalf("expected both branches to share the same ELEMENT node pointer")
	}
}

func TestGenerateLinksRecursiveReferenceToSharedNode(t *testing.T) {
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"): {Name: q("root"), Type: q("RecType")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RecType"): {
				QName: q("RecType"),
				Particle: collab.Particle{
					Kind: collab.ParticleSequence, MinOccurs: 0, MaxOccurs: 1,
					Children: []collab.Particle{
						{Kind: collab.ParticleElement, ElementName: q("root"), MinOccurs: 0, MaxOccurs: 1},
					},
				},
			},
		},
	}

	g, err := Generate(src, scope.NewBuilder(src), q("root"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// root -> SEQUENCE -> root (shared node, recursive edge). The
	// recursive root's own particle is not re-walked (previouslyVisited),
	// so its exit pops an element frame, not a group frame; no elision
	// is expected here, but the graph must stay finite and well-formed.
	if g.Start.Kind != KindElement {
		t.Fatalf("expected ELEMENT start")
	}
	if len(g.Start.Next) != 1 || g.Start.Next[0].To.Kind != KindSequence {
		t.Fatalf("expected a single SEQUENCE edge from root")
	}
	seq := g.Start.Next[0].To
	if len(seq.Next) != 1 || seq.Next[0].To != g.Start {
		t.Fatalf("expected sequence's only child to be the shared root ELEMENT node")
	}
}

func TestGenerateAnyProducesWildcardNode(t *testing.T) {
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"): {Name: q("root"), Type: q("RootType")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RootType"): {
				QName: q("RootType"),
				Particle: collab.Particle{
					Kind: collab.ParticleSequence, MinOccurs: 1, MaxOccurs: 1,
					Children: []collab.Particle{
						{Kind: collab.ParticleAny, MinOccurs: 0, MaxOccurs: 0, AnyNamespaces: []string{"##other"}, ProcessContents: collab.ProcessLax},
					},
				},
			},
		},
	}

	g, err := Generate(src, scope.NewBuilder(src), q("root"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	seq := g.Start.Next[0].To
	if len(seq.Next) != 1 || seq.Next[0].To.Kind != KindAny {
		t.Fatalf("expected a single ANY child, got %+v", seq.Next)
	}
	if seq.Next[0].To.ProcessContents != collab.ProcessLax {
		t.Fatalf("expected process_contents to carry through to the ANY node")
	}
}
