// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package transducer

import (
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/doctree"
	"github.com/sdcio/xrc/facet"
	"github.com/sdcio/xrc/recordschema"
	"github.com/sdcio/xrc/statemachine"
	"github.com/sdcio/xrc/xrcerrors"
)

// Writer replays a matched document tree onto a binary encoder. Each
// node must carry the recordschema.Field the Schema Applier (or the
// caller) bound to it in UserSlot.
type Writer struct {
	enc collab.BinaryEncoder
}

// NewWriter returns a Writer emitting onto enc.
func NewWriter(enc collab.BinaryEncoder) *Writer {
	return &Writer{enc: enc}
}

// Write emits node's record.
func (w *Writer) Write(node *doctree.DocumentNode) error {
	field, ok := node.UserSlot.(recordschema.Field)
	if !ok {
		return mismatch(node.Name, "no record field bound to element")
	}
	return w.writeField(node, field)
}

// writeField writes node's value as field, emitting a union tag first
// when field.Type == TypeUnion: this covers both the nillable ([null,
// T]) wrapping and a genuine XSD union collapsed by recordschema into
// one branch list.
func (w *Writer) writeField(node *doctree.DocumentNode, field recordschema.Field) error {
	switch field.Type {
	case recordschema.TypeUnion:
		return w.writeUnion(node, field)
	case recordschema.TypeRecord:
		return w.writeRecord(node, field.Record)
	case recordschema.TypeArray:
		return mismatch(node.Name, "array field written outside its owning record")
	case recordschema.TypeNull:
		return w.enc.WriteNull()
	default:
		return w.writeScalar(node, field.Type)
	}
}

func (w *Writer) writeUnion(node *doctree.DocumentNode, field recordschema.Field) error {
	branches := field.Branches
	if len(branches) == 0 {
		return mismatch(node.Name, "union field has no branches")
	}

	if isNilElement(node) {
		idx := nullBranchIndex(branches)
		if err := w.enc.WriteIndex(idx); err != nil {
			return err
		}
		if node.State != nil && !node.State.Nillable {
			return xrcerrors.New(xrcerrors.NilabilityConflict, []string{node.Name.String()}, "xsi:nil on a non-nillable element")
		}
		return w.enc.WriteNull()
	}

	// A nillable wrap with a single non-null alternative writes that
	// alternative directly; no facet-level union resolution is needed.
	if len(branches) == 2 && branches[0].Type == recordschema.TypeNull {
		if err := w.enc.WriteIndex(1); err != nil {
			return err
		}
		return w.writeField(node, branches[1])
	}

	if field.Record != nil {
		// A nillable wrap around a record field collapses to the same
		// two-branch shape above in recordschema.Generate; a record
		// reached here directly has no facet union to resolve against.
		if err := w.enc.WriteIndex(1); err != nil {
			return err
		}
		return w.writeRecord(node, field.Record)
	}

	if node.State == nil || node.State.ElementType.Kind != facet.KindUnion {
		return mismatch(node.Name, "union field has no matching union simple type")
	}
	idx, v, err := facet.ResolveUnion(node.State.ElementType, content(node))
	if err != nil {
		return xrcerrors.New(xrcerrors.UnwritableValue, []string{node.Name.String()}, "no union member accepted the literal")
	}
	if err := w.enc.WriteIndex(idx); err != nil {
		return err
	}
	if idx < len(branches) {
		return writeResolvedValue(w.enc, branches[idx].Type, v)
	}
	return writeResolvedValue(w.enc, recordschema.TypeString, v)
}

func nullBranchIndex(branches []recordschema.Field) int {
	for i, b := range branches {
		if b.Type == recordschema.TypeNull {
			return i
		}
	}
	return 0
}

// writeRecord writes node's attributes (record fields whose name
// matches a declared XSD attribute) then its remaining content fields,
// in record-field order, per §4.H step 2.
func (w *Writer) writeRecord(node *doctree.DocumentNode, record *recordschema.Record) error {
	if record == nil {
		return mismatch(node.Name, "record field has no record definition")
	}
	attrs := attributesByLocalName(node.State)
	for _, f := range record.Fields {
		if a, ok := attrs[f.Name]; ok {
			if err := w.writeAttribute(node, a); err != nil {
				return err
			}
			continue
		}
		if err := w.writeContentField(node, f); err != nil {
			return err
		}
	}
	return nil
}

func attributesByLocalName(state *statemachine.Node) map[string]statemachine.Attribute {
	out := make(map[string]statemachine.Attribute)
	if state == nil {
		return out
	}
	for _, a := range state.Attributes {
		out[a.Name.Local] = a
	}
	return out
}

// writeAttribute implements §4.H step 2: look up the attribute's value
// by (element-ns, attr-name) falling back to local-name match (both
// already folded into attrs by node.Attrs's own lookup below), then to
// default/fixed, then print_literal it against the declared type.
func (w *Writer) writeAttribute(node *doctree.DocumentNode, attr statemachine.Attribute) error {
	text, found := lookupAttrValue(node.Attrs, attr.Name)
	if !found {
		if attr.HasFixed {
			text = attr.Fixed
		} else if attr.HasDefault {
			text = attr.Default
		}
	}
	v, err := facet.ParseLiteral(attr.Type, text)
	if err != nil {
		return xrcerrors.New(xrcerrors.UnwritableValue, []string{node.Name.String(), attr.Name.String()}, "attribute literal did not parse")
	}
	return writeResolvedValue(w.enc, baseFieldTypeOf(attr.Type), v)
}

func lookupAttrValue(attrs []collab.XMLAttr, name collab.QName) (string, bool) {
	for _, a := range attrs {
		if a.Name.Equal(name) {
			return a.Value, true
		}
	}
	for _, a := range attrs {
		if a.Name.Local == name.Local {
			return a.Value, true
		}
	}
	return "", false
}

// writeContentField writes one non-attribute record field. A scalar or
// union field corresponds to node itself (simple content); an ARRAY
// field corresponds to node's repeated children named f.Name; any
// other field name that matches a single child element recurses into
// that child directly.
func (w *Writer) writeContentField(node *doctree.DocumentNode, f recordschema.Field) error {
	switch f.Type {
	case recordschema.TypeArray:
		return w.writeArrayField(node, f)
	case recordschema.TypeNull, recordschema.TypeUnion:
		if child := findChild(node, f.Name); child != nil {
			return w.writeField(child, f)
		}
		return w.writeField(node, f)
	case recordschema.TypeRecord:
		child := findChild(node, f.Name)
		if child == nil {
			return mismatch(node.Name, "no child element for record field "+f.Name)
		}
		return w.writeRecord(child, f.Record)
	default:
		if child := findChild(node, f.Name); child != nil {
			return w.writeScalar(child, f.Type)
		}
		return w.writeScalar(node, f.Type)
	}
}

func findChild(node *doctree.DocumentNode, name string) *doctree.DocumentNode {
	for _, c := range node.Children {
		if c.Name.Local == name {
			return c
		}
	}
	return nil
}

func (w *Writer) writeArrayField(node *doctree.DocumentNode, f recordschema.Field) error {
	if f.Item == nil {
		return mismatch(node.Name, "array field has no item type")
	}
	var items []*doctree.DocumentNode
	for _, c := range node.Children {
		if c.Name.Local == f.Name {
			items = append(items, c)
		}
	}
	if err := w.enc.WriteArrayStart(); err != nil {
		return err
	}
	if err := w.enc.SetItemCount(len(items)); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.enc.StartItem(); err != nil {
			return err
		}
		if err := w.writeField(item, *f.Item); err != nil {
			return err
		}
	}
	return w.enc.WriteArrayEnd()
}

// writeScalar writes node's simple content, falling back to the
// element's default/fixed value when no characters were observed.
func (w *Writer) writeScalar(node *doctree.DocumentNode, t recordschema.FieldType) error {
	text := content(node)
	if node.State == nil {
		return w.enc.WriteString(text)
	}
	v, err := facet.ParseLiteral(node.State.ElementType, text)
	if err != nil {
		return xrcerrors.New(xrcerrors.UnwritableValue, []string{node.Name.String()}, "literal did not parse against the element's simple type")
	}
	return writeResolvedValue(w.enc, t, v)
}

// content returns node's accumulated characters, falling back to its
// declared default or fixed value when none were observed, per §4.H
// step 4.
func content(node *doctree.DocumentNode) string {
	if node.Text != "" || len(node.Children) > 0 {
		return node.Text
	}
	if node.State == nil {
		return node.Text
	}
	if node.State.HasFixed {
		return node.State.Fixed
	}
	if node.State.HasDefault {
		return node.State.Default
	}
	return node.Text
}

func isNilElement(node *doctree.DocumentNode) bool {
	for _, a := range node.Attrs {
		if a.Name.Local == xsiNilLocal && a.Name.Namespace == xsiNamespace && a.Value == "true" {
			return true
		}
	}
	return false
}

func writeResolvedValue(enc collab.BinaryEncoder, t recordschema.FieldType, v facet.Value) error {
	switch t {
	case recordschema.TypeBoolean:
		return enc.WriteBoolean(v.Bool)
	case recordschema.TypeInt:
		return enc.WriteInt(int32(v.Int))
	case recordschema.TypeLong:
		return enc.WriteLong(v.Int)
	case recordschema.TypeFloat:
		return enc.WriteFloat(float32(v.Number))
	case recordschema.TypeDouble:
		return enc.WriteDouble(v.Number)
	case recordschema.TypeBytes:
		return enc.WriteBytes(v.Bytes)
	case recordschema.TypeNull:
		return enc.WriteNull()
	default:
		return enc.WriteString(v.Text)
	}
}

func baseFieldTypeOf(info facet.SimpleTypeInfo) recordschema.FieldType {
	switch info.Base {
	case facet.XBoolean:
		return recordschema.TypeBoolean
	case facet.XDouble:
		return recordschema.TypeDouble
	case facet.XFloat:
		return recordschema.TypeFloat
	case facet.XBinBase64, facet.XBinHex:
		return recordschema.TypeBytes
	case facet.XByte, facet.XShort, facet.XInt, facet.XUnsignedByte, facet.XUnsignedShort:
		return recordschema.TypeInt
	case facet.XLong, facet.XInteger, facet.XUnsignedInt, facet.XUnsignedLong,
		facet.XNonNegativeInteger, facet.XNonPositiveInteger, facet.XPositiveInteger, facet.XNegativeInteger:
		return recordschema.TypeLong
	default:
		return recordschema.TypeString
	}
}
