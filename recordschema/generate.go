// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package recordschema

import (
	"github.com/sdcio/xrc/facet"
	"github.com/sdcio/xrc/statemachine"
)

// Generate derives a default Record for graph's root element by
// walking its ELEMENT nodes and inferring one record field per child
// element, falling back to the simple-type's facet.BaseSimpleType for
// leaves. It exists so a caller with no record-schema system of its
// own can still exercise the Transducer; callers with a real schema
// registry should build a Linkage directly instead. Grounded on
// default_decorator.go's createDefault, which recurses a schema tree
// building a parallel structure one node at a time.
func Generate(graph *statemachine.Graph) (*Record, error) {
	seen := make(map[*statemachine.Node]*Record)
	return generateRecord(graph.Start, seen), nil
}

func generateRecord(n *statemachine.Node, seen map[*statemachine.Node]*Record) *Record {
	if r, ok := seen[n]; ok {
		return r
	}
	r := &Record{Name: n.ElementQName.Local}
	seen[n] = r

	for _, f := range collectElementEdges(n) {
		field := fieldFor(f.node, seen)
		field.Name = f.node.ElementQName.Local
		if f.repeated {
			field = Field{Name: field.Name, Type: TypeArray, Item: &field}
		}
		r.Fields = append(r.Fields, field)
	}
	return r
}

type elementEdge struct {
	node     *statemachine.Node
	repeated bool
}

// collectElementEdges flattens n's transitively-reachable ELEMENT
// edges (ANY edges are skipped), descending through transparent group nodes, the same way
// the Path Finder treats SEQUENCE/CHOICE/ALL/SUBSTITUTION_GROUP as
// see-through containers rather than content in their own right.
func collectElementEdges(n *statemachine.Node) []elementEdge {
	var out []elementEdge
	for _, edge := range n.Next {
		repeated := edge.MaxOccurs == statemachine.Unbounded || edge.MaxOccurs > 1
		switch edge.To.Kind {
		case statemachine.KindElement:
			out = append(out, elementEdge{node: edge.To, repeated: repeated})
		case statemachine.KindAny:
			// Wildcards carry no fixed field name; a generated schema
			// cannot represent them and the caller must supply an
			// explicit Linkage entry if wildcard content matters.
		default:
			for _, sub := range collectElementEdges(edge.To) {
				if repeated {
					sub.repeated = true
				}
				out = append(out, sub)
			}
		}
	}
	return out
}

// fieldFor derives the record field for an ELEMENT state, wrapping it
// in a two-branch union (TypeNull, base) when the element is nillable:
// branch 0 is always null, mirroring the Transducer's write_index
// convention for nillable content.
func fieldFor(n *statemachine.Node, seen map[*statemachine.Node]*Record) Field {
	var base Field
	if len(n.Next) > 0 || n.ElementType.Kind == facet.KindComplex {
		base = Field{Type: TypeRecord, Record: generateRecord(n, seen)}
	} else {
		base = scalarField(n.ElementType)
	}
	if n.Nillable {
		return Field{Type: TypeUnion, Branches: []Field{{Type: TypeNull}, base}}
	}
	return base
}

// scalarField derives the record field for a simple-content type.
// xs:list values serialize as one whitespace-joined literal string
// (facet.PrintLiteral already joins list items); a record ARRAY field
// is reserved for repeated child ELEMENTS, which a list's single text
// node is not, so KindList maps to TypeString rather than TypeArray.
func scalarField(info facet.SimpleTypeInfo) Field {
	switch info.Kind {
	case facet.KindList:
		return Field{Type: TypeString}
	case facet.KindUnion:
		branches := make([]Field, 0, len(info.Members)+2)
		for _, m := range info.Members {
			branches = append(branches, scalarField(m))
		}
		// Trailing fallback branches mirror facet.ResolveUnion's
		// write-time resolution order: BYTES then STRING when no
		// declared member's literal form accepts the text.
		branches = append(branches, Field{Type: TypeBytes}, Field{Type: TypeString})
		return Field{Type: TypeUnion, Branches: branches}
	default:
		return Field{Type: baseFieldType(info.Base)}
	}
}

func baseFieldType(base facet.BaseSimpleType) FieldType {
	switch base {
	case facet.XBoolean:
		return TypeBoolean
	case facet.XDouble:
		return TypeDouble
	case facet.XFloat:
		return TypeFloat
	case facet.XBinBase64, facet.XBinHex:
		return TypeBytes
	case facet.XByte, facet.XShort, facet.XInt, facet.XUnsignedByte, facet.XUnsignedShort:
		return TypeInt
	case facet.XLong, facet.XInteger, facet.XUnsignedInt, facet.XUnsignedLong,
		facet.XNonNegativeInteger, facet.XNonPositiveInteger, facet.XPositiveInteger, facet.XNegativeInteger:
		return TypeLong
	default:
		return TypeString
	}
}
