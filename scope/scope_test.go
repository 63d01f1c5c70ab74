// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package scope

import (
	"testing"

	"github.com/sdcio/xrc/collab"
)

type fakeSimpleType struct{ q collab.QName }

func (f fakeSimpleType) QName() collab.QName { return f.q }

type fakeSource struct {
	elements map[collab.QName]collab.ElementDecl
	scopes   map[collab.QName]collab.TypeScope
	subs     map[collab.QName][]collab.QName
}

func (s *fakeSource) RootElement(name collab.QName) (collab.ElementDecl, bool) {
	return s.Element(name)
}
func (s *fakeSource) Element(name collab.QName) (collab.ElementDecl, bool) {
	e, ok := s.elements[name]
	return e, ok
}
func (s *fakeSource) Scope(name collab.QName) (collab.TypeScope, bool) {
	t, ok := s.scopes[name]
	return t, ok
}
func (s *fakeSource) SubstitutionMembers(head collab.QName) []collab.QName {
	return s.subs[head]
}

func q(local string) collab.QName { return collab.QName{Local: local} }

func TestBuildExtensionUnionsAttributesAndConcatenatesParticle(t *testing.T) {
	src := &fakeSource{scopes: map[collab.QName]collab.TypeScope{
		q("BaseType"): {
			QName:      q("BaseType"),
			Attributes: []collab.Attribute{{Name: q("id"), Type: fakeSimpleType{q("string")}}},
			Particle: collab.Particle{
				Kind:     collab.ParticleSequence,
				Children: []collab.Particle{{Kind: collab.ParticleElement, ElementName: q("a"), MinOccurs: 1, MaxOccurs: 1}},
			},
		},
		q("ExtType"): {
			QName:       q("ExtType"),
			HasBase:     true,
			BaseType:    q("BaseType"),
			IsExtension: true,
			Attributes:  []collab.Attribute{{Name: q("extra"), Type: fakeSimpleType{q("string")}}},
			Particle: collab.Particle{
				Kind:     collab.ParticleSequence,
				Children: []collab.Particle{{Kind: collab.ParticleElement, ElementName: q("b"), MinOccurs: 1, MaxOccurs: 1}},
			},
		},
	}}

	b := NewBuilder(src)
	s, err := b.Build(q("ExtType"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Attributes) != 2 {
		t.Fatalf("expected 2 attributes (base+ext), got %d: %+v", len(s.Attributes), s.Attributes)
	}
	if s.Particle.Kind != collab.ParticleSequence || len(s.Particle.Children) != 2 {
		t.Fatalf("expected synthetic 2-child sequence, got %+v", s.Particle)
	}
}

func TestBuildDetectsExtensionCycle(t *testing.T) {
	src := &fakeSource{scopes: map[collab.QName]collab.TypeScope{
		q("A"): {QName: q("A"), HasBase: true, BaseType: q("B"), IsExtension: true},
		q("B"): {QName: q("B"), HasBase: true, BaseType: q("A"), IsExtension: true},
	}}

	b := NewBuilder(src)
	if _, err := b.Build(q("A")); err == nil {
		t.Fatalf("expected cyclic extension chain to fail, got nil error")
	}
}

func TestBuildCachesByQName(t *testing.T) {
	src := &fakeSource{scopes: map[collab.QName]collab.TypeScope{
		q("T"): {QName: q("T"), Attributes: nil},
	}}
	b := NewBuilder(src)
	s1, err := b.Build(q("T"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s2, err := b.Build(q("T"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected cached Scope pointer to be reused")
	}
}
