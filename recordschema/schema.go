// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package recordschema models the binary record shape a document tree
// is decorated against: a small, Avro-flavored type lattice (null,
// scalar, array, map, union, record) plus the XML-to-record linkage
// table a caller supplies to bind XSD element names to record fields.
// This is a supplemented concern with no equivalent component in the
// XSD side of the system; its Kind-tagged Field mirrors
// facet.SimpleTypeInfo's tagged-variant style deliberately, so the two
// models read the same way at a call site.
package recordschema

import "github.com/sdcio/xrc/collab"

// FieldType discriminates a Field's shape.
type FieldType int

const (
	TypeNull FieldType = iota
	TypeBoolean
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeBytes
	TypeString
	TypeEnum
	TypeArray
	TypeMap
	TypeUnion
	TypeRecord
)

func (t FieldType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeBytes:
		return "bytes"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	case TypeUnion:
		return "union"
	case TypeRecord:
		return "record"
	}
	return "unknown"
}

// Field is one named slot of a Record, or the unnamed item type of an
// Array/Map, or one branch of a Union.
type Field struct {
	Name string
	Type FieldType

	// Record is populated when Type == TypeRecord.
	Record *Record
	// Item is populated when Type == TypeArray or TypeMap: the element
	// type, repeated (Array) or keyed by string (Map).
	Item *Field
	// Branches is populated when Type == TypeUnion, in tag order; tag 0
	// is always null for a nillable element, mirroring the Transducer's
	// write_index convention.
	Branches []Field
	// Symbols is populated when Type == TypeEnum.
	Symbols []string
}

// Record is a named, ordered set of fields, the record-schema analog
// of an XSD complex type.
type Record struct {
	Name   string
	Fields []Field
}

// FieldByName returns the field named name, if any.
func (r *Record) FieldByName(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Linkage binds XSD element QNames to the record Field each is
// transcoded against, letting a caller reuse one Record across several
// differently-named root elements or vice versa.
type Linkage struct {
	byElement map[collab.QName]Field
}

// NewLinkage returns an empty Linkage.
func NewLinkage() *Linkage {
	return &Linkage{byElement: make(map[collab.QName]Field)}
}

// Bind associates elem with field.
func (l *Linkage) Bind(elem collab.QName, field Field) {
	l.byElement[elem] = field
}

// Lookup returns the field bound to elem, if any.
func (l *Linkage) Lookup(elem collab.QName) (Field, bool) {
	f, ok := l.byElement[elem]
	return f, ok
}
