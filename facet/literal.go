// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package facet

import (
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/danos/encoding/rfc7951"
	"github.com/sdcio/xrc/xrcerrors"
)

// Value is the transducer-facing parsed form of a simple-content
// literal: exactly one of the fields is meaningful, selected by the
// SimpleTypeInfo that produced it.
type Value struct {
	Text   string
	Number float64
	Int    int64
	Bool   bool
	Bytes  []byte
	IsList bool
	List   []Value
}

// normalizeWhitespace applies the facet's whitespace policy ahead of
// lexical-space parsing, per XSD 1.0 §4.3.6.
func normalizeWhitespace(ws Whitespace, s string) string {
	switch ws {
	case WhitespacePreserve:
		return s
	case WhitespaceReplace:
		return strings.Map(func(r rune) rune {
			switch r {
			case '\t', '\n', '\r':
				return ' '
			}
			return r
		}, s)
	default: // collapse
		repl := normalizeWhitespace(WhitespaceReplace, s)
		fields := strings.Fields(repl)
		return strings.Join(fields, " ")
	}
}

func whitespaceOf(f *FacetSet) Whitespace {
	if f == nil {
		return WhitespaceCollapse
	}
	v, ok := f.Single(FacetWhitespace)
	if !ok {
		return WhitespaceCollapse
	}
	switch v {
	case "preserve":
		return WhitespacePreserve
	case "replace":
		return WhitespaceReplace
	default:
		return WhitespaceCollapse
	}
}

// ParseLiteral implements §4.A's parse_literal: whitespace-normalizes
// text per facet policy then parses it to the base type's value space,
// checking facet bounds/length/enumeration along the way. Pattern
// facets are not checked.
func ParseLiteral(info SimpleTypeInfo, text string) (Value, error) {
	switch info.Kind {
	case KindList:
		norm := normalizeWhitespace(whitespaceOf(info.Facets), text)
		var items []Value
		if strings.TrimSpace(norm) != "" {
			for _, tok := range strings.Fields(norm) {
				v, err := ParseLiteral(*info.Item, tok)
				if err != nil {
					return Value{}, err
				}
				items = append(items, v)
			}
		}
		if err := checkListFacets(info.Facets, items); err != nil {
			return Value{}, err
		}
		return Value{IsList: true, List: items, Text: norm}, nil

	case KindUnion:
		var lastErr error
		for _, m := range info.Members {
			v, err := ParseLiteral(m, text)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = xrcerrors.New(xrcerrors.FacetViolation, nil, "union has no members")
		}
		return Value{}, lastErr

	case KindComplex:
		return Value{}, xrcerrors.New(xrcerrors.InvalidRestriction, nil, "cannot parse a literal against complex content")
	}

	norm := normalizeWhitespace(whitespaceOf(info.Facets), text)
	if err := checkEnumAndPattern(info.Facets, norm); err != nil {
		return Value{}, err
	}
	return parseAtomic(info, norm)
}

// ResolveUnion implements the Transducer's write-time union-member
// resolution of §4.H: try each member of a KindUnion SimpleTypeInfo in
// declared order, falling back to BYTES then STRING if no member's
// literal form accepts text. The returned index matches the branch
// order recordschema.Generate lays out (member order, then a BYTES
// branch, then a STRING branch), so it can be written directly as the
// binary union tag.
func ResolveUnion(info SimpleTypeInfo, text string) (int, Value, error) {
	if info.Kind != KindUnion {
		return 0, Value{}, xrcerrors.New(xrcerrors.InvalidRestriction, nil, "ResolveUnion requires a union SimpleTypeInfo")
	}
	for i, m := range info.Members {
		v, err := ParseLiteral(m, text)
		if err == nil {
			return i, v, nil
		}
	}
	norm := normalizeWhitespace(whitespaceOf(info.Facets), text)
	if b, err := base64.StdEncoding.DecodeString(norm); err == nil {
		return len(info.Members), Value{Bytes: b, Text: norm}, nil
	}
	if b, err := hex.DecodeString(norm); err == nil {
		return len(info.Members), Value{Bytes: b, Text: norm}, nil
	}
	return len(info.Members) + 1, Value{Text: norm}, nil
}

func checkListFacets(f *FacetSet, items []Value) error {
	if f == nil {
		return nil
	}
	if s, ok := f.Single(FacetLength); ok {
		n, _ := strconv.Atoi(s)
		if len(items) != n {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "list length facet violated")
		}
	}
	if s, ok := f.Single(FacetMinLength); ok {
		n, _ := strconv.Atoi(s)
		if len(items) < n {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "list minLength facet violated")
		}
	}
	if s, ok := f.Single(FacetMaxLength); ok {
		n, _ := strconv.Atoi(s)
		if len(items) > n {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "list maxLength facet violated")
		}
	}
	return nil
}

func checkEnumAndPattern(f *FacetSet, norm string) error {
	if f == nil {
		return nil
	}
	if enums := f.Enums(); len(enums) > 0 {
		ok := false
		for _, e := range enums {
			if e == norm {
				ok = true
				break
			}
		}
		if !ok {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "value not in enumeration facet")
		}
	}
	return nil
}

func parseAtomic(info SimpleTypeInfo, norm string) (Value, error) {
	switch info.Base {
	case XBoolean:
		switch norm {
		case "true", "1":
			return Value{Bool: true, Text: norm}, nil
		case "false", "0":
			return Value{Bool: false, Text: norm}, nil
		}
		return Value{}, xrcerrors.New(xrcerrors.FacetViolation, nil, "not a valid boolean literal")

	case XDecimal, XDouble, XFloat:
		n, err := strconv.ParseFloat(norm, 64)
		if err != nil {
			return Value{}, xrcerrors.New(xrcerrors.FacetViolation, nil, "not a valid numeric literal")
		}
		if err := checkNumericBounds(info.Facets, n); err != nil {
			return Value{}, err
		}
		return Value{Number: n, Text: norm}, nil

	case XByte, XShort, XInt, XLong, XUnsignedByte, XUnsignedShort, XUnsignedInt, XUnsignedLong,
		XInteger, XNonNegativeInteger, XNonPositiveInteger, XNegativeInteger, XPositiveInteger:
		n, err := strconv.ParseInt(norm, 10, 64)
		if err != nil {
			return Value{}, xrcerrors.New(xrcerrors.FacetViolation, nil, "not a valid integer literal")
		}
		if err := checkNumericBounds(info.Facets, float64(n)); err != nil {
			return Value{}, err
		}
		return Value{Int: n, Text: norm}, nil

	case XBinBase64:
		b, err := base64.StdEncoding.DecodeString(norm)
		if err != nil {
			return Value{}, xrcerrors.New(xrcerrors.FacetViolation, nil, "not valid base64Binary")
		}
		return Value{Bytes: b, Text: norm}, nil

	case XBinHex:
		b, err := hex.DecodeString(norm)
		if err != nil {
			return Value{}, xrcerrors.New(xrcerrors.FacetViolation, nil, "not valid hexBinary")
		}
		return Value{Bytes: b, Text: norm}, nil

	default:
		if err := checkStringLengthFacets(info.Facets, norm); err != nil {
			return Value{}, err
		}
		return Value{Text: norm}, nil
	}
}

func checkNumericBounds(f *FacetSet, n float64) error {
	if f == nil {
		return nil
	}
	if s, ok := f.Single(FacetMinInclusive); ok {
		if min, err := strconv.ParseFloat(s, 64); err == nil && n < min {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "value below minInclusive")
		}
	}
	if s, ok := f.Single(FacetMaxInclusive); ok {
		if max, err := strconv.ParseFloat(s, 64); err == nil && n > max {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "value above maxInclusive")
		}
	}
	if s, ok := f.Single(FacetMinExclusive); ok {
		if min, err := strconv.ParseFloat(s, 64); err == nil && n <= min {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "value not above minExclusive")
		}
	}
	if s, ok := f.Single(FacetMaxExclusive); ok {
		if max, err := strconv.ParseFloat(s, 64); err == nil && n >= max {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "value not below maxExclusive")
		}
	}
	return nil
}

func checkStringLengthFacets(f *FacetSet, s string) error {
	if f == nil {
		return nil
	}
	runeLen := len([]rune(s))
	if v, ok := f.Single(FacetLength); ok {
		if n, _ := strconv.Atoi(v); runeLen != n {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "string length facet violated")
		}
	}
	if v, ok := f.Single(FacetMinLength); ok {
		if n, _ := strconv.Atoi(v); runeLen < n {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "string minLength facet violated")
		}
	}
	if v, ok := f.Single(FacetMaxLength); ok {
		if n, _ := strconv.Atoi(v); runeLen > n {
			return xrcerrors.New(xrcerrors.FacetViolation, nil, "string maxLength facet violated")
		}
	}
	return nil
}

// PrintLiteral implements §4.A's print_literal: renders a Value back to
// its canonical lexical form for the given SimpleTypeInfo. Decimal and
// bounded-integer families are canonicalized via
// github.com/danos/encoding/rfc7951's number formatting, reusing the
// same canonical-number rendering the teacher applies when emitting
// RFC 7951 JSON, rather than hand-rolling a second formatter.
func PrintLiteral(info SimpleTypeInfo, v Value) (string, error) {
	switch info.Kind {
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			s, err := PrintLiteral(*info.Item, item)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, " "), nil
	case KindUnion:
		return v.Text, nil
	case KindComplex:
		return "", xrcerrors.New(xrcerrors.InvalidRestriction, nil, "cannot print a literal for complex content")
	}

	switch info.Base {
	case XBoolean:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case XDecimal, XDouble, XFloat:
		raw, err := rfc7951.Marshal(v.Number)
		if err != nil {
			return "", xrcerrors.New(xrcerrors.UnwritableValue, nil, "rfc7951 number canonicalization failed")
		}
		return string(raw), nil
	case XByte, XShort, XInt, XLong, XUnsignedByte, XUnsignedShort, XUnsignedInt, XUnsignedLong,
		XInteger, XNonNegativeInteger, XNonPositiveInteger, XNegativeInteger, XPositiveInteger:
		raw, err := rfc7951.Marshal(v.Int)
		if err != nil {
			return "", xrcerrors.New(xrcerrors.UnwritableValue, nil, "rfc7951 integer canonicalization failed")
		}
		return strings.Trim(string(raw), `"`), nil
	case XBinBase64:
		return base64.StdEncoding.EncodeToString(v.Bytes), nil
	case XBinHex:
		return strings.ToUpper(hex.EncodeToString(v.Bytes)), nil
	default:
		return v.Text, nil
	}
}
