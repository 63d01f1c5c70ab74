// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package walker implements §4.C: a deterministic depth-first
// traversal of an XSD starting at a named root element, emitting a
// visitor event stream the State Machine Generator consumes. Grounded
// on schema/walk.go's ActionFnType visitor pattern, generalized from a
// single find-or-walk callback to the fuller capability set §4.C
// names.
package walker

import (
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
)

// Visitor is the capability set of §4.C. Implementers may back it with
// a struct of closures, as the teacher's ActionFnType does, or with
// methods on an object; only event order is contractual.
type Visitor interface {
	OnEnterElement(elem collab.ElementDecl, typeInfo facet.SimpleTypeInfo, min, max uint64, previouslyVisited bool)
	OnExitElement(elem collab.ElementDecl, typeInfo facet.SimpleTypeInfo, min, max uint64, previouslyVisited bool)
	OnVisitAttribute(elem collab.ElementDecl, attr collab.Attribute)
	OnEnterSubstitutionGroup(baseElem collab.ElementDecl)
	OnExitSubstitutionGroup(baseElem collab.ElementDecl)
	OnEnterAllGroup(min, max uint64)
	OnExitAllGroup(min, max uint64)
	OnEnterChoiceGroup(min, max uint64)
	OnExitChoiceGroup(min, max uint64)
	OnEnterSequenceGroup(min, max uint64)
	OnExitSequenceGroup(min, max uint64)
	OnVisitAny(any collab.Particle)
	OnVisitAnyAttribute(elem collab.ElementDecl, namespaces []string)
}

// Funcs is a closure-table adapter for Visitor, grounded directly on
// the teacher's ActionFnType style: callers set only the callbacks
// they need, the rest are no-ops.
type Funcs struct {
	EnterElement         func(elem collab.ElementDecl, typeInfo facet.SimpleTypeInfo, min, max uint64, previouslyVisited bool)
	ExitElement          func(elem collab.ElementDecl, typeInfo facet.SimpleTypeInfo, min, max uint64, previouslyVisited bool)
	VisitAttribute       func(elem collab.ElementDecl, attr collab.Attribute)
	EnterSubstitution    func(baseElem collab.ElementDecl)
	ExitSubstitution     func(baseElem collab.ElementDecl)
	EnterAll             func(min, max uint64)
	ExitAll              func(min, max uint64)
	EnterChoice          func(min, max uint64)
	ExitChoice           func(min, max uint64)
	EnterSequence        func(min, max uint64)
	ExitSequence         func(min, max uint64)
	VisitAny             func(any collab.Particle)
	VisitAnyAttribute    func(elem collab.ElementDecl, namespaces []string)
}

func (f *Funcs) OnEnterElement(elem collab.ElementDecl, t facet.SimpleTypeInfo, min, max uint64, v bool) {
	if f.EnterElement != nil {
		f.EnterElement(elem, t, min, max, v)
	}
}
func (f *Funcs) OnExitElement(elem collab.ElementDecl, t facet.SimpleTypeInfo, min, max uint64, v bool) {
	if f.ExitElement != nil {
		f.ExitElement(elem, t, min, max, v)
	}
}
func (f *Funcs) OnVisitAttribute(elem collab.ElementDecl, attr collab.Attribute) {
	if f.VisitAttribute != nil {
		f.VisitAttribute(elem, attr)
	}
}
func (f *Funcs) OnEnterSubstitutionGroup(e collab.ElementDecl) {
	if f.EnterSubstitution != nil {
		f.EnterSubstitution(e)
	}
}
func (f *Funcs) OnExitSubstitutionGroup(e collab.ElementDecl) {
	if f.ExitSubstitution != nil {
		f.ExitSubstitution(e)
	}
}
func (f *Funcs) OnEnterAllGroup(min, max uint64) {
	if f.EnterAll != nil {
		f.EnterAll(min, max)
	}
}
func (f *Funcs) OnExitAllGroup(min, max uint64) {
	if f.ExitAll != nil {
		f.ExitAll(min, max)
	}
}
func (f *Funcs) OnEnterChoiceGroup(min, max uint64) {
	if f.EnterChoice != nil {
		f.EnterChoice(min, max)
	}
}
func (f *Funcs) OnExitChoiceGroup(min, max uint64) {
	if f.ExitChoice != nil {
		f.ExitChoice(min, max)
	}
}
func (f *Funcs) OnEnterSequenceGroup(min, max uint64) {
	if f.EnterSequence != nil {
		f.EnterSequence(min, max)
	}
}
func (f *Funcs) OnExitSequenceGroup(min, max uint64) {
	if f.ExitSequence != nil {
		f.ExitSequence(min, max)
	}
}
func (f *Funcs) OnVisitAny(any collab.Particle) {
	if f.VisitAny != nil {
		f.VisitAny(any)
	}
}
func (f *Funcs) OnVisitAnyAttribute(elem collab.ElementDecl, namespaces []string) {
	if f.VisitAnyAttribute != nil {
		f.VisitAnyAttribute(elem, namespaces)
	}
}

var _ Visitor = (*Funcs)(nil)
