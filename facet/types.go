// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package facet implements §4.A: the simple-type model and facet
// engine. It classifies and canonicalizes XSD simple-type expressions
// to a form the Transducer can consume directly, the way
// schema/types.go turns a YANG type declaration into a validating
// golang representation ahead of time rather than re-walking the XSD
// on every literal.
package facet

import "github.com/sdcio/xrc/collab"

// BaseSimpleType enumerates the XSD simple-type primitives this system
// needs downstream.
type BaseSimpleType int

const (
	AnyType BaseSimpleType = iota
	AnySimpleType
	XString
	XBoolean
	XDecimal
	XDouble
	XFloat
	XBinBase64
	XBinHex
	XQName
	XID

	// date/time family
	XDateTime
	XDate
	XTime
	XDuration
	XGYear
	XGYearMonth
	XGMonth
	XGMonthDay
	XGDay

	// bounded integer family
	XByte
	XShort
	XInt
	XLong
	XUnsignedByte
	XUnsignedShort
	XUnsignedInt
	XUnsignedLong
	XInteger
	XNonNegativeInteger
	XNonPositiveInteger
	XNegativeInteger
	XPositiveInteger
)

// Kind discriminates the SimpleTypeInfo tagged variant of spec §3.
type Kind int

const (
	KindAtomic Kind = iota
	KindList
	KindUnion
	KindComplex
)

// FacetKind enumerates the facet kinds merged by FacetSet.
type FacetKind int

const (
	FacetLength FacetKind = iota
	FacetMinLength
	FacetMaxLength
	FacetPattern
	FacetEnumeration
	FacetWhitespace
	FacetMinInclusive
	FacetMaxInclusive
	FacetMinExclusive
	FacetMaxExclusive
	FacetTotalDigits
	FacetFractionDigits
)

// Whitespace is the effective whitespace-handling facet value.
type Whitespace int

const (
	WhitespacePreserve Whitespace = iota
	WhitespaceReplace
	WhitespaceCollapse
)

// Restriction is one restriction value attached to a facet kind.
// Enumeration facets carry many restrictions of the same kind on one
// FacetSet entry; every other kind carries exactly one.
type Restriction struct {
	Kind  FacetKind
	Value string
}

// FacetSet maps facet kind to its restriction(s), merged per the rule
// in §4.A: non-enumeration facets are replaced by the nearer
// (child) restriction, enumeration facets accumulate.
type FacetSet struct {
	entries map[FacetKind][]Restriction
}

// NewFacetSet returns an empty facet set.
func NewFacetSet() *FacetSet {
	return &FacetSet{entries: make(map[FacetKind][]Restriction)}
}

// Clone returns an independent copy.
func (f *FacetSet) Clone() *FacetSet {
	out := NewFacetSet()
	for k, vs := range f.entries {
		cp := make([]Restriction, len(vs))
		copy(cp, vs)
		out.entries[k] = cp
	}
	return out
}

// Set replaces any existing restriction(s) for a non-enumeration kind.
func (f *FacetSet) Set(kind FacetKind, value string) {
	f.entries[kind] = []Restriction{{Kind: kind, Value: value}}
}

// AddEnum appends one enumeration value.
func (f *FacetSet) AddEnum(value string) {
	f.entries[FacetEnumeration] = append(f.entries[FacetEnumeration], Restriction{Kind: FacetEnumeration, Value: value})
}

// Get returns the restriction(s) recorded for kind, nil if absent.
func (f *FacetSet) Get(kind FacetKind) []Restriction {
	return f.entries[kind]
}

// Has reports whether kind has at least one restriction.
func (f *FacetSet) Has(kind FacetKind) bool {
	return len(f.entries[kind]) > 0
}

// Single returns the lone restriction value for a non-enumeration
// facet kind, and whether it is present.
func (f *FacetSet) Single(kind FacetKind) (string, bool) {
	vs := f.entries[kind]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0].Value, true
}

// Enums returns the accumulated enumeration values, in merge order.
func (f *FacetSet) Enums() []string {
	vs := f.entries[FacetEnumeration]
	out := make([]string, len(vs))
	for i, r := range vs {
		out[i] = r.Value
	}
	return out
}

// SimpleTypeInfo is the tagged variant of spec §3.
type SimpleTypeInfo struct {
	Kind Kind

	// KindAtomic
	Base           BaseSimpleType
	Facets         *FacetSet
	UserRecognized *collab.QName // non-nil if this atomic type is user-named

	// KindList
	Item *SimpleTypeInfo

	// KindUnion
	Members []SimpleTypeInfo

	// KindComplex
	Mixed bool
}

// Atomic builds a KindAtomic SimpleTypeInfo.
func Atomic(base BaseSimpleType, facets *FacetSet, userRecognized *collab.QName) SimpleTypeInfo {
	if facets == nil {
		facets = NewFacetSet()
	}
	return SimpleTypeInfo{Kind: KindAtomic, Base: base, Facets: facets, UserRecognized: userRecognized}
}

// List builds a KindList SimpleTypeInfo.
func List(item SimpleTypeInfo, facets *FacetSet) SimpleTypeInfo {
	if facets == nil {
		facets = NewFacetSet()
	}
	it := item
	return SimpleTypeInfo{Kind: KindList, Item: &it, Facets: facets}
}

// Union builds a KindUnion SimpleTypeInfo.
func Union(members []SimpleTypeInfo, facets *FacetSet) SimpleTypeInfo {
	if facets == nil {
		facets = NewFacetSet()
	}
	return SimpleTypeInfo{Kind: KindUnion, Members: members, Facets: facets}
}

// Complex builds a KindComplex SimpleTypeInfo.
func Complex(mixed bool) SimpleTypeInfo {
	return SimpleTypeInfo{Kind: KindComplex, Mixed: mixed}
}
