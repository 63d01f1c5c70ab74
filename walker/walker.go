// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package walker

import (
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
	"github.com/sdcio/xrc/scope"
	"github.com/sdcio/xrc/xrcerrors"
)

func complexInfo(mixed bool) facet.SimpleTypeInfo { return facet.Complex(mixed) }

// Walker performs the depth-first traversal of §4.C.
type Walker struct {
	src     collab.SchemaSource
	scopes  *scope.Builder
	visited map[collab.QName]bool
}

// New returns a Walker over src, sharing scopeBuilder's cache so that
// the Schema Walker and any caller-side scope lookups amortize the
// same per-type closures.
func New(src collab.SchemaSource, scopeBuilder *scope.Builder) *Walker {
	return &Walker{src: src, scopes: scopeBuilder, visited: make(map[collab.QName]bool)}
}

// Walk performs the traversal starting at rootName, emitting events to
// v in document order.
func (w *Walker) Walk(rootName collab.QName, v Visitor) error {
	root, ok := w.src.RootElement(rootName)
	if !ok {
		return xrcerrors.New(xrcerrors.UnresolvedReference, []string{rootName.String()}, "root element not found")
	}
	return w.walkElementRef(root.Name, 1, 1, v)
}

// walkElementRef resolves an element reference (by QName, with local
// min/max occurs overrides from the particle that referenced it, per
// §4.C: "local overrides for id/minOccurs/maxOccurs but global-derived
// type") and walks it, expanding substitution groups first.
func (w *Walker) walkElementRef(name collab.QName, min, max uint64, v Visitor) error {
	elem, ok := w.src.Element(name)
	if !ok {
		return xrcerrors.New(xrcerrors.UnresolvedReference, []string{name.String()}, "element not found")
	}

	members := w.src.SubstitutionMembers(name)
	if len(members) > 0 {
		v.OnEnterSubstitutionGroup(elem)
		if err := w.walkSingleElement(elem, min, max, v); err != nil {
			return err
		}
		for _, m := range members {
			mElem, ok := w.src.Element(m)
			if !ok {
				return xrcerrors.New(xrcerrors.UnresolvedReference, []string{m.String()}, "substitution member not found")
			}
			if err := w.walkSingleElement(mElem, min, max, v); err != nil {
				return err
			}
		}
		v.OnExitSubstitutionGroup(elem)
		return nil
	}

	return w.walkSingleElement(elem, min, max, v)
}

func (w *Walker) walkSingleElement(elem collab.ElementDecl, min, max uint64, v Visitor) error {
	previouslyVisited := w.visited[elem.Name]

	s, err := w.scopes.Build(elem.Type)
	if err != nil {
		return err
	}

	var typeInfo = s.SimpleContent
	if !s.IsSimple {
		typeInfo = complexInfo(s.Mixed)
	}

	v.OnEnterElement(elem, typeInfo, min, max, previouslyVisited)

	if !previouslyVisited {
		w.visited[elem.Name] = true

		for _, a := range s.Attributes {
			v.OnVisitAttribute(elem, a)
		}
		if len(s.AnyAttribute) > 0 {
			v.OnVisitAnyAttribute(elem, s.AnyAttribute)
		}
		if !s.IsSimple {
			if err := w.walkParticle(s.Particle, v); err != nil {
				return err
			}
		}
	}

	v.OnExitElement(elem, typeInfo, min, max, previouslyVisited)
	return nil
}

func (w *Walker) walkParticle(p collab.Particle, v Visitor) error {
	switch p.Kind {
	case collab.ParticleSequence:
		v.OnEnterSequenceGroup(p.MinOccurs, p.MaxOccurs)
		for _, c := range p.Children {
			if err := w.walkParticle(c, v); err != nil {
				return err
			}
		}
		v.OnExitSequenceGroup(p.MinOccurs, p.MaxOccurs)
	case collab.ParticleChoice:
		v.OnEnterChoiceGroup(p.MinOccurs, p.MaxOccurs)
		for _, c := range p.Children {
			if err := w.walkParticle(c, v); err != nil {
				return err
			}
		}
		v.OnExitChoiceGroup(p.MinOccurs, p.MaxOccurs)
	case collab.ParticleAll:
		v.OnEnterAllGroup(p.MinOccurs, p.MaxOccurs)
		for _, c := range p.Children {
			if err := w.walkParticle(c, v); err != nil {
				return err
			}
		}
		v.OnExitAllGroup(p.MinOccurs, p.MaxOccurs)
	case collab.ParticleAny:
		v.OnVisitAny(p)
	case collab.ParticleElement, collab.ParticleSubstitutionGroup:
		return w.walkElementRef(p.ElementName, p.MinOccurs, p.MaxOccurs, v)
	}
	return nil
}
