// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package walker

import (
	"testing"

	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
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

func buildTwoChildSequenceSource() *fakeSource {
	return &fakeSource{
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
						{Kind: collab.ParticleElement, ElementName: q("b"), MinOccurs: 1, MaxOccurs: 1},
					},
				},
			},
			q("StringType"): {QName: q("StringType"), IsSimple: true, SimpleContent: fakeSimpleType{q("string")}},
			q("IntType"):    {QName: q("IntType"), IsSimple: true, SimpleContent: fakeSimpleType{q("int")}},
		},
	}
}

func TestWalkEmitsElementsInOrder(t *testing.T) {
	src := buildTwoChildSequenceSource()
	w := New(src, scope.NewBuilder(src))

	var entered []string
	visitor := &recordingVisitor{onEnter: func(e collab.ElementDecl, prev bool) { entered = append(entered, e.Name.Local) }}
	if err := w.Walk(q("root"), visitor); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{"root", "a", "b"}
	if len(entered) != len(want) {
		t.Fatalf("entered = %v, want %v", entered, want)
	}
	for i := range want {
		if entered[i] != want[i] {
			t.Fatalf("entered[%d] = %q, want %q (full: %v)", i, entered[i], want[i], entered)
		}
	}
}

func TestWalkSubstitutionGroupVisitsHeadThenMembers(t *testing.T) {
	src := &fakeSource{
		elements: map[collab.QName]collab.ElementDecl{
			q("root"):      {Name: q("root"), Type: q("RootType")},
			q("record"):    {Name: q("record"), Type: q("LeafType")},
			q("firstMap"):  {Name: q("firstMap"), Type: q("LeafType"), SubstitutionGroup: q("record")},
			q("secondMap"): {Name: q("secondMap"), Type: q("LeafType"), SubstitutionGroup: q("record")},
		},
		scopes: map[collab.QName]collab.TypeScope{
			q("RootType"): {
				QName: q("RootType"),
				Particle: collab.Particle{
					Kind: collab.ParticleSequence, MinOccurs: 1, MaxOccurs: 1,
					Children: []collab.Particle{
						{Kind: collab.ParticleSubstitutionGroup, ElementName: q("record"), MinOccurs: 0, MaxOccurs: 1},
					},
				},
			},
			q("LeafType"): {QName: q("LeafType"), IsSimple: true, SimpleContent: fakeSimpleType{q("string")}},
		},
		subs: map[collab.QName][]collab.QName{
			q("record"): {q("firstMap"), q("secondMap")},
		},
	}
	w := New(src, scope.NewBuilder(src))

	var entered []string
	var subEnters int
	visitor := &recordingVisitor{
		onEnter:    func(e collab.ElementDecl, prev bool) { entered = append(entered, e.Name.Local) },
		onEnterSub: func(e collab.ElementDecl) { subEnters++ },
	}
	if err := w.Walk(q("root"), visitor); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if subEnters != 1 {
		t.Fatalf("expected exactly one substitution-group traversal, got %d", subEnters)
	}
	want := []string{"root", "record", "firstMap", "secondMap"}
	if len(entered) != len(want) {
		t.Fatalf("entered = %v, want %v", entered, want)
	}
	for i := range want {
		if entered[i] != want[i] {
			t.Fatalf("entered[%d] = %q, want %q", i, entered[i], want[i])
		}
	}
}

func TestWalkCycleStopsRecursion(t *testing.T) {
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
	w := New(src, scope.NewBuilder(src))

	var prevFlags []bool
	visitor := &recordingVisitor{onEnter: func(e collab.ElementDecl, prev bool) { prevFlags = append(prevFlags, prev) }}
	if err := w.Walk(q("root"), visitor); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(prevFlags) != 2 {
		t.Fatalf("expected root entered twice (self + recursive ref), got %d", len(prevFlags))
	}
	if prevFlags[0] {
		t.Fatalf("first entry of root should not be previously visited")
	}
	if !prevFlags[1] {
		t.Fatalf("second (recursive) entry of root should be previously visited")
	}
}

// recordingVisitor implements Visitor with minimal hooks for assertions;
// every other method is a no-op.
type recordingVisitor struct {
	onEnter    func(e collab.ElementDecl, prev bool)
	onEnterSub func(e collab.ElementDecl)
}

func (r *recordingVisitor) OnEnterElement(elem collab.ElementDecl, _ facet.SimpleTypeInfo, _, _ uint64, prev bool) {
	if r.onEnter != nil {
		r.onEnter(elem, prev)
	}
}
func (r *recordingVisitor) OnExitElement(collab.ElementDecl, facet.SimpleTypeInfo, uint64, uint64, bool) {
}
func (r *recordingVisitor) OnVisitAttribute(collab.ElementDecl, collab.Attribute) {}
func (r *recordingVisitor) OnEnterSubstitutionGroup(e collab.ElementDecl) {
	if r.onEnterSub != nil {
		r.onEnterSub(e)
	}
}
func (r *recordingVisitor) OnExitSubstitutionGroup(collab.ElementDecl)    {}
func (r *recordingVisitor) OnEnterAllGroup(uint64, uint64)                {}
func (r *recordingVisitor) OnExitAllGroup(uint64, uint64)                 {}
func (r *recordingVisitor) OnEnterChoiceGroup(uint64, uint64)             {}
func (r *recordingVisitor) OnExitChoiceGroup(uint64, uint64)              {}
func (r *recordingVisitor) OnEnterSequenceGroup(uint64, uint64)           {}
func (r *recordingVisitor) OnExitSequenceGroup(uint64, uint64)            {}
func (r *recordingVisitor) OnVisitAny(collab.Particle)                   {}
func (r *recordingVisitor) OnVisitAnyAttribute(collab.ElementDecl, []string) {}

var _ Visitor = (*recordingVisitor)(nil)
