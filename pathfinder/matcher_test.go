// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package pathfinder

import (
	"testing"

	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/doctree"
	"github.com/sdcio/xrc/scope"
	"github.com/sdcio/xrc/statemachine"
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

type recordingSink struct {
	entered []string
	exited  []string
	chars   []string
}

func (r *recordingSink) EnterElement(n *doctree.DocumentNode) error {
	r.entered = append(r.entered, n.Name.Local)
	return nil
}
func (r *recordingSink) ExitElement(n *doctree.DocumentNode) error {
	r.exited = append(r.exited, n.Name.Local)
	return nil
}
func (r *recordingSink) Characters(n *doctree.DocumentNode, text string) error {
	r.chars = append(r.chars, text)
	return nil
}

func buildGraph(t *testing.T, src *fakeSource, root collab.QName) *statemachine.Graph {
	t.Helper()
	g, err := statemachine.Generate(src, scope.NewBuilder(src), root)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return g
}

func TestMatcherWalksSequenceInOrder(t *testing.T) {
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"): {Name: q("root"), Type: q("RootType")},
			q("a"):    {Name: q("a"), Type: q("StringType")},
			q("b"):    {Name: q("b"), Type: q("StringType")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RootType"): {
				QName: q("RootType"),
				Particle: collab.Particle{
					Kind: collab.ParticleSequence, MinOccurs: 1, MaxOccurs: 1,
					Children: []collab.Particle{
						{Kind: collab.ParticleElement, ElementName: q("a"), MinOccurs: 1, MaxOccurs: 1},
						{Kind: collab.ParticleElement, ElementName: q("b"), MinOccurs: 1, MaxOccurs: 1},
					},
				},
			},
			q("StringType"): {QName: q("StringType"), IsSimple: true, SimpleContent: fakeSimpleType{q("string")}},
		},
	}
	g := buildGraph(t, src, q("root"))
	sink := &recordingSink{}
	m := New(g, doctree.NewPool(), sink)

	must(t, m.StartDocument())
	must(t, m.StartElement(q("root"), nil))
	must(t, m.StartElement(q("a"), nil))
	must(t, m.Characters("1"))
	must(t, m.EndElement(q("a")))
	must(t, m.StartElement(q("b"), nil))
	must(t, m.Characters("2"))
	must(t, m.EndElement(q("b")))
	must(t, m.EndElement(q("root")))
	must(t, m.EndDocument())

	wantEntered := []string{"root", "a", "b"}
	if !equal(sink.entered, wantEntered) {
		t.Fatalf("entered = %v, want %v", sink.entered, wantEntered)
	}
	wantExited := []string{"a", "b", "root"}
	if !equal(sink.exited, wantExited) {
		t.Fatalf("exited = %v, want %v", sink.exited, wantExited)
	}
}

func TestMatcherRejectsOutOfOrderElement(t *testing.T) {
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"): {Name: q("root"), Type: q("RootType")},
			q("a"):    {Name: q("a"), Type: q("StringType")},
			q("b"):    {Name: q("b"), Type: q("StringType")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RootType"): {
				QName: q("RootType"),
				Particle: collab.Particle{
					Kind: collab.ParticleSequence, MinOccurs: 1, MaxOccurs: 1,
					Children: []collab.Particle{
						{Kind: collab.ParticleElement, ElementName: q("a"), MinOccurs: 1, MaxOccurs: 1},
						{Kind: collab.ParticleElement, ElementName: q("b"), MinOccurs: 1, MaxOccurs: 1},
					},
				},
			},
			q("StringType"): {QName: q("StringType"), IsSimple: true, SimpleContent: fakeSimpleType{q("string")}},
		},
	}
	g := buildGraph(t, src, q("root"))
	m := New(g, doctree.NewPool(), &recordingSink{})

	must(t, m.StartElement(q("root"), nil))
	if err := m.StartElement(q("b"), nil); err == nil {
		t.Fatalf("expected error matching b before required a")
	}
}

func TestMatcherAllGroupAcceptsAnyOrder(t *testing.T) {
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"): {Name: q("root"), Type: q("RootType")},
			q("a"):    {Name: q("a"), Type: q("StringType")},
			q("b"):    {Name: q("b"), Type: q("StringType")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RootType"): {
				QName: q("RootType"),
				Particle: collab.Particle{
					Kind: collab.ParticleAll, MinOccurs: 1, MaxOccurs: 1,
					Children: []collab.Particle{
						{Kind: collab.ParticleElement, ElementName: q("a"), MinOccurs: 1, MaxOccurs: 1},
						{Kind: collab.ParticleElement, ElementName: q("b"), MinOccurs: 1, MaxOccurs: 1},
					},
				},
			},
			q("StringType"): {QName: q("StringType"), IsSimple: true, SimpleContent: fakeSimpleType{q("string")}},
		},
	}
	g := buildGraph(t, src, q("root"))
	sink := &recordingSink{}
	m := New(g, doctree.NewPool(), sink)

	must(t, m.StartElement(q("root"), nil))
	must(t, m.StartElement(q("b"), nil)) // b before a: legal under xs:all
	must(t, m.EndElement(q("b")))
	must(t, m.StartElement(q("a"), nil))
	must(t, m.EndElement(q("a")))
	must(t, m.EndElement(q("root")))

	want := []string{"root", "b", "a"}
	if !equal(sink.entered, want) {
		t.Fatalf("entered = %v, want %v", sink.entered, want)
	}
}

func TestMatcherBacktracksChoiceWithSharedPrefix(t *testing.T) {
	leaf := func(name string) collab.Particle {
		return collab.Particle{Kind: collab.ParticleElement, ElementName: q(name), MinOccurs: 1, MaxOccurs: 1}
	}
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"): {Name: q("root"), Type: q("RootType")},
			q("a"):    {Name: q("a"), Type: q("StringType")},
			q("b"):    {Name: q("b"), Type: q("StringType")},
			q("c"):    {Name: q("c"), Type: q("StringType")},
			q("d"):    {Name: q("d"), Type: q("StringType")},
			q("e"):    {Name: q("e"), Type: q("StringType")},
			q("f"):    {Name: q("f"), Type: q("StringType")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RootType"): {
				QName: q("RootType"),
				Particle: collab.Particle{
					Kind: collab.ParticleChoice, MinOccurs: 1, MaxOccurs: 1,
					Children: []collab.Particle{
						{
							Kind: collab.ParticleSequence, MinOccurs: 1, MaxOccurs: 1,
							Children: []collab.Particle{leaf("a"), leaf("b"), leaf("c"), leaf("d")},
						},
						{
							Kind: collab.ParticleSequence, MinOccurs: 1, MaxOccurs: 1,
							Children: []collab.Particle{leaf("a"), leaf("b"), leaf("c"), leaf("d"), leaf("e"), leaf("f")},
						},
					},
				},
			},
			q("StringType"): {QName: q("StringType"), IsSimple: true, SimpleContent: fakeSimpleType{q("string")}},
		},
	}
	g := buildGraph(t, src, q("root"))
	sink := &recordingSink{}
	m := New(g, doctree.NewPool(), sink)

	must(t, m.StartElement(q("root"), nil))
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		must(t, m.StartElement(q(name), nil))
		must(t, m.EndElement(q(name)))
	}
	must(t, m.EndElement(q("root")))

	want := []string{"root", "a", "b", "c", "d", "e", "f"}
	if !equal(sink.entered, want) {
		t.Fatalf("entered = %v, want %v", sink.entered, want)
	}
	if len(m.root.Children) != 6 {
		t.Fatalf("expected 6 matched children on the second attempt to survive, got %d", len(m.root.Children))
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
