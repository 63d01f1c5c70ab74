// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package facet

import (
	"path"

	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/xrcerrors"
)

// builtins enumerates the whitespace/pattern/bounds facets implicit in
// each XSD built-in, as mandated by §4.A until the upstream schema
// library ships them explicitly. Bounds for the integer family come
// from the XSD 1.0 primitive value spaces; whitespace defaults follow
// the XSD 1.0 built-in datatype table.
var builtins = map[BaseSimpleType]func() *FacetSet{
	XString:  func() *FacetSet { return withWhitespace(WhitespacePreserve) },
	XBoolean: func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XDecimal: func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XDouble:  func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XFloat:   func() *FacetSet { return withWhitespace(WhitespaceCollapse) },

	XBinBase64: func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XBinHex:    func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XQName:     func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XID:        func() *FacetSet { return withPattern(WhitespaceCollapse, nameStartPattern) },

	XDateTime:   func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XDate:       func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XTime:       func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XDuration:   func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XGYear:      func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XGYearMonth: func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XGMonth:     func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XGMonthDay:  func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XGDay:       func() *FacetSet { return withWhitespace(WhitespaceCollapse) },

	XByte:               func() *FacetSet { return withBounds(-128, 127) },
	XShort:              func() *FacetSet { return withBounds(-32768, 32767) },
	XInt:                func() *FacetSet { return withBounds(-2147483648, 2147483647) },
	XLong:               func() *FacetSet { return withBounds(-9223372036854775808, 9223372036854775807) },
	XUnsignedByte:       func() *FacetSet { return withBounds(0, 255) },
	XUnsignedShort:      func() *FacetSet { return withBounds(0, 65535) },
	XUnsignedInt:        func() *FacetSet { return withBounds(0, 4294967295) },
	XUnsignedLong:       func() *FacetSet { f := withBoundsMin(0); f.Set(FacetMaxInclusive, "18446744073709551615"); return f },
	XInteger:            func() *FacetSet { return withWhitespace(WhitespaceCollapse) },
	XNonNegativeInteger: func() *FacetSet { return withBoundsMin(0) },
	XNonPositiveInteger: func() *FacetSet { return withBoundsMax(0) },
	XNegativeInteger:    func() *FacetSet { return withBoundsMax(-1) },
	XPositiveInteger:    func() *FacetSet { return withBoundsMin(1) },
}

const nameStartPattern = `[A-Za-z_][-A-Za-z0-9_.]*`

func withWhitespace(ws Whitespace) *FacetSet {
	f := NewFacetSet()
	f.Set(FacetWhitespace, whitespaceString(ws))
	return f
}

func withPattern(ws Whitespace, pat string) *FacetSet {
	f := withWhitespace(ws)
	f.Set(FacetPattern, pat)
	return f
}

func withBounds(min, max int64) *FacetSet {
	f := withWhitespace(WhitespaceCollapse)
	f.Set(FacetMinInclusive, itoa(min))
	f.Set(FacetMaxInclusive, itoa(max))
	return f
}

func withBoundsMax(max int64) *FacetSet {
	f := withWhitespace(WhitespaceCollapse)
	f.Set(FacetMaxInclusive, itoa(max))
	return f
}

func withBoundsMin(min int64) *FacetSet {
	f := withWhitespace(WhitespaceCollapse)
	f.Set(FacetMinInclusive, itoa(min))
	return f
}

func itoa(v int64) string {
	// local, allocation-light int64 -> decimal, kept here rather than
	// pulling in strconv at this call count.
	if v == 0 {
		return "0"
	}
	neg := v < 0
	u := uint64(v)
	if neg {
		u = -u
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func whitespaceString(ws Whitespace) string {
	switch ws {
	case WhitespacePreserve:
		return "preserve"
	case WhitespaceReplace:
		return "replace"
	default:
		return "collapse"
	}
}

// FacetSetFor returns the implicit facet set for an XSD built-in base
// type (operation named facet_set_for in §4.A).
func FacetSetFor(base BaseSimpleType) (*FacetSet, error) {
	mk, ok := builtins[base]
	if !ok {
		return nil, xrcerrors.New(xrcerrors.UnknownBaseType, nil, "no implicit facet set for base type")
	}
	return mk(), nil
}

// Merge implements §4.A's merge: non-enumeration facets have the child
// restriction replace the parent's; enumeration facets union (child
// values appended after parent values, duplicates kept so that
// Testable Property 8's associativity holds under repeated merge).
func Merge(parent, child *FacetSet) *FacetSet {
	out := NewFacetSet()
	if parent != nil {
		for k, vs := range parent.entries {
			cp := make([]Restriction, len(vs))
			copy(cp, vs)
			out.entries[k] = cp
		}
	}
	if child != nil {
		for k, vs := range child.entries {
			if k == FacetEnumeration {
				out.entries[k] = append(out.entries[k], vs...)
				continue
			}
			cp := make([]Restriction, len(vs))
			copy(cp, vs)
			out.entries[k] = cp
		}
	}
	return out
}

// Restrict implements §4.A's restrict: produces a restricted
// atomic/list/union SimpleTypeInfo, preserving the parent's
// UserRecognized type if any.
func Restrict(parent SimpleTypeInfo, merged *FacetSet) (SimpleTypeInfo, error) {
	switch parent.Kind {
	case KindComplex:
		return SimpleTypeInfo{}, xrcerrors.New(xrcerrors.InvalidRestriction, nil, "cannot restrict a complex type's simple content directly")
	case KindAtomic:
		return SimpleTypeInfo{
			Kind:           KindAtomic,
			Base:           parent.Base,
			Facets:         merged,
			UserRecognized: parent.UserRecognized,
		}, nil
	case KindList:
		return SimpleTypeInfo{
			Kind:   KindList,
			Item:   parent.Item,
			Facets: merged,
		}, nil
	case KindUnion:
		return SimpleTypeInfo{
			Kind:    KindUnion,
			Members: parent.Members,
			Facets:  merged,
		}, nil
	}
	return SimpleTypeInfo{}, xrcerrors.New(xrcerrors.UnknownBaseType, nil, "unrecognized SimpleTypeInfo kind")
}

// baseFromQName maps a built-in XSD Schema QName's local name to a
// BaseSimpleType. Non-built-in names are reported as UnknownBaseType by
// the caller if no user-defined restriction chain resolves them first.
func baseFromQName(q collab.QName) (BaseSimpleType, bool) {
	name := q.Local
	// Allow callers to pass dotted/prefixed local names defensively.
	name = path.Base(name)
	b, ok := nameToBase[name]
	return b, ok
}

var nameToBase = map[string]BaseSimpleType{
	"anyType":            AnyType,
	"anySimpleType":      AnySimpleType,
	"string":             XString,
	"boolean":            XBoolean,
	"decimal":            XDecimal,
	"double":             XDouble,
	"float":              XFloat,
	"base64Binary":       XBinBase64,
	"hexBinary":          XBinHex,
	"QName":              XQName,
	"ID":                 XID,
	"dateTime":           XDateTime,
	"date":               XDate,
	"time":               XTime,
	"duration":           XDuration,
	"gYear":              XGYear,
	"gYearMonth":         XGYearMonth,
	"gMonth":             XGMonth,
	"gMonthDay":          XGMonthDay,
	"gDay":               XGDay,
	"byte":               XByte,
	"short":               XShort,
	"int":                XInt,
	"long":               XLong,
	"unsignedByte":       XUnsignedByte,
	"unsignedShort":      XUnsignedShort,
	"unsignedInt":        XUnsignedInt,
	"unsignedLong":       XUnsignedLong,
	"integer":            XInteger,
	"nonNegativeInteger": XNonNegativeInteger,
	"nonPositiveInteger": XNonPositiveInteger,
	"negativeInteger":    XNegativeInteger,
	"positiveInteger":    XPositiveInteger,
	"normalizedString":   XString,
	"token":              XString,
	"language":           XString,
	"Name":               XID,
	"NCName":             XID,
	"NMTOKEN":            XID,
}

// BaseSimpleTypeFor resolves a built-in XSD type QName to a
// BaseSimpleType, returning UnknownBaseType if it is not a recognized
// built-in (the caller is then expected to resolve it as a
// user-defined restriction chain instead).
func BaseSimpleTypeFor(q collab.QName) (BaseSimpleType, error) {
	b, ok := baseFromQName(q)
	if !ok {
		return 0, xrcerrors.New(xrcerrors.UnknownBaseType, []string{q.String()}, "not a recognized XSD built-in simple type")
	}
	return b, nil
}
