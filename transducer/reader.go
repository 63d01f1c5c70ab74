// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package transducer

import (
	"encoding/base64"
	"fmt"

	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
	"github.com/sdcio/xrc/recordschema"
	"github.com/sdcio/xrc/statemachine"
	"github.com/sdcio/xrc/xrcerrors"
)

// Reader replays binary records as XML events into a collab.XMLEventSink.
// It walks the compiled state machine directly rather than a
// doctree.DocumentNode tree, since the Reader's whole purpose is to
// manufacture the document side of the transcode from nothing but the
// wire bytes and the schema.
type Reader struct {
	dec   collab.BinaryDecoder
	sink  collab.XMLEventSink
	nsSeq int
}

// NewReader returns a Reader consuming dec and emitting events into sink.
func NewReader(dec collab.BinaryDecoder, sink collab.XMLEventSink) *Reader {
	return &Reader{dec: dec, sink: sink}
}

// Read decodes one document rooted at state, looking up its record
// field in linkage. UnlinkedSchema is returned when the root element
// has no bound field, per §6's reader-side xmlSchemas requirement.
func (r *Reader) Read(state *statemachine.Node, linkage *recordschema.Linkage) error {
	field, ok := linkage.Lookup(state.ElementQName)
	if !ok {
		return xrcerrors.New(xrcerrors.UnlinkedSchema, []string{state.ElementQName.String()}, "no record field bound to root element")
	}
	if err := r.sink.StartDocument(); err != nil {
		return err
	}
	if err := r.readElement(state, field); err != nil {
		return err
	}
	return r.sink.EndDocument()
}

func (r *Reader) readElement(state *statemachine.Node, field recordschema.Field) error {
	switch field.Type {
	case recordschema.TypeUnion:
		return r.readUnion(state, field)
	case recordschema.TypeRecord:
		return r.readRecordElement(state, field.Record)
	default:
		return r.readScalarElement(state, field.Type)
	}
}

func (r *Reader) readUnion(state *statemachine.Node, field recordschema.Field) error {
	branches := field.Branches
	idx, err := r.dec.ReadIndex()
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(branches) {
		return xrcerrors.New(xrcerrors.UnreadableValue, []string{state.ElementQName.String()}, "union tag out of range")
	}
	branch := branches[idx]

	if branch.Type == recordschema.TypeNull {
		if err := r.dec.ReadNull(); err != nil {
			return err
		}
		attrs := []collab.XMLAttr{{Name: collab.QName{Namespace: xsiNamespace, Local: xsiNilLocal}, Value: "true"}}
		if err := r.sink.StartElement(state.ElementQName, attrs); err != nil {
			return err
		}
		return r.sink.EndElement(state.ElementQName)
	}
	// Nillable wrap with a single non-null alternative: recurse without
	// re-reading a tag.
	if len(branches) == 2 && branches[0].Type == recordschema.TypeNull {
		return r.readElement(state, branch)
	}
	if branch.Type == recordschema.TypeRecord {
		return r.readRecordElement(state, branch.Record)
	}

	v, err := readRawValue(r.dec, branch.Type)
	if err != nil {
		return err
	}
	text, err := r.renderUnionMember(state, idx, branch.Type, v)
	if err != nil {
		return err
	}
	return r.emitSimpleElement(state, text)
}

// renderUnionMember prints the decoded value back to its lexical form,
// against the matching facet union member when idx selects a declared
// member, or a generic BYTES/STRING rendering for the two trailing
// fallback branches recordschema.Generate appends.
func (r *Reader) renderUnionMember(state *statemachine.Node, idx int, branchType recordschema.FieldType, v facet.Value) (string, error) {
	if state.ElementType.Kind == facet.KindUnion && idx < len(state.ElementType.Members) {
		text, err := facet.PrintLiteral(state.ElementType.Members[idx], v)
		if err != nil {
			return "", xrcerrors.New(xrcerrors.UnreadableValue, []string{state.ElementQName.String()}, "union member literal did not render")
		}
		return text, nil
	}
	return fallbackText(branchType, v), nil
}

func fallbackText(t recordschema.FieldType, v facet.Value) string {
	if t == recordschema.TypeBytes {
		return base64.StdEncoding.EncodeToString(v.Bytes)
	}
	return v.Text
}

// readRecordElement implements §4.H reader steps 2-6 for one element:
// read its attribute fields, emit start_element, read its remaining
// content fields, emit end_element.
func (r *Reader) readRecordElement(state *statemachine.Node, record *recordschema.Record) error {
	if record == nil {
		return mismatch(state.ElementQName, "record field has no record definition")
	}
	attrDecls := attributesByLocalName(state)
	var attrs []collab.XMLAttr
	var contentFields []recordschema.Field
	for _, f := range record.Fields {
		decl, ok := attrDecls[f.Name]
		if !ok {
			contentFields = append(contentFields, f)
			continue
		}
		v, err := readRawValue(r.dec, baseFieldTypeOf(decl.Type))
		if err != nil {
			return err
		}
		text, err := facet.PrintLiteral(decl.Type, v)
		if err != nil {
			return xrcerrors.New(xrcerrors.UnreadableValue, []string{state.ElementQName.String(), decl.Name.String()}, "attribute literal did not render")
		}
		attrs = append(attrs, collab.XMLAttr{Name: decl.Name, Value: text})
	}

	if err := r.sink.StartElement(state.ElementQName, attrs); err != nil {
		return err
	}
	for _, f := range contentFields {
		if err := r.readContentField(state, f); err != nil {
			return err
		}
	}
	return r.sink.EndElement(state.ElementQName)
}

// readContentField reads one non-attribute record field. A field whose
// name matches an outgoing child ELEMENT edge recurses into that
// child's own element; otherwise the field is read as state's own
// simple content, with no element wrapper of its own (the caller
// already opened state's start_element).
func (r *Reader) readContentField(state *statemachine.Node, f recordschema.Field) error {
	switch f.Type {
	case recordschema.TypeArray:
		return r.readArrayField(state, f)
	case recordschema.TypeRecord:
		child := childState(state, f.Name)
		if child == nil {
			return mismatch(state.ElementQName, "no child state for record field "+f.Name)
		}
		return r.readRecordElement(child, f.Record)
	default:
		if child := childState(state, f.Name); child != nil {
			return r.readElement(child, f)
		}
		return r.readOwnContent(state, f)
	}
}

func (r *Reader) readArrayField(state *statemachine.Node, f recordschema.Field) error {
	if f.Item == nil {
		return mismatch(state.ElementQName, "array field has no item type")
	}
	child := childState(state, f.Name)
	if child == nil {
		return mismatch(state.ElementQName, "no child state for array field "+f.Name)
	}
	if err := r.dec.ReadArrayStart(); err != nil {
		return err
	}
	for {
		more, err := r.dec.ArrayNext()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if err := r.readElement(child, *f.Item); err != nil {
			return err
		}
	}
}

// readOwnContent reads a record field that names no child element: it
// is state's own simple content, emitted as characters without
// start/end_element (those were already emitted for state itself).
func (r *Reader) readOwnContent(state *statemachine.Node, f recordschema.Field) error {
	switch f.Type {
	case recordschema.TypeNull:
		return r.dec.ReadNull()
	case recordschema.TypeUnion:
		return r.readUnionContent(state, f)
	default:
		v, err := readRawValue(r.dec, f.Type)
		if err != nil {
			return err
		}
		text, err := facet.PrintLiteral(state.ElementType, v)
		if err != nil {
			return xrcerrors.New(xrcerrors.UnreadableValue, []string{state.ElementQName.String()}, "literal did not render against the element's simple type")
		}
		if text == "" {
			return nil
		}
		return r.sink.Characters(text)
	}
}

func (r *Reader) readUnionContent(state *statemachine.Node, f recordschema.Field) error {
	idx, err := r.dec.ReadIndex()
	if err != nil {
		return err
	}
	branches := f.Branches
	if idx < 0 || idx >= len(branches) {
		return xrcerrors.New(xrcerrors.UnreadableValue, []string{state.ElementQName.String()}, "union tag out of range")
	}
	branch := branches[idx]
	if branch.Type == recordschema.TypeNull {
		return r.dec.ReadNull()
	}
	v, err := readRawValue(r.dec, branch.Type)
	if err != nil {
		return err
	}
	text, err := r.renderUnionMember(state, idx, branch.Type, v)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return r.sink.Characters(text)
}

// readScalarElement reads state's own simple content and wraps it in
// its start/end_element, allocating a namespace prefix ahead of the
// element per §4.H step 3 when the content's base type is xs:QName.
func (r *Reader) readScalarElement(state *statemachine.Node, t recordschema.FieldType) error {
	v, err := readRawValue(r.dec, t)
	if err != nil {
		return err
	}
	text, err := facet.PrintLiteral(state.ElementType, v)
	if err != nil {
		return xrcerrors.New(xrcerrors.UnreadableValue, []string{state.ElementQName.String()}, "literal did not render against the element's simple type")
	}
	return r.emitSimpleElement(state, text)
}

func (r *Reader) emitSimpleElement(state *statemachine.Node, text string) error {
	prefixed := state.ElementType.Kind == facet.KindAtomic && state.ElementType.Base == facet.XQName && state.ElementQName.Namespace != ""
	var prefix string
	if prefixed {
		prefix = r.nextPrefix()
		if err := r.sink.StartPrefixMapping(prefix, state.ElementQName.Namespace); err != nil {
			return err
		}
	}
	if err := r.sink.StartElement(state.ElementQName, nil); err != nil {
		return err
	}
	if text != "" {
		if err := r.sink.Characters(text); err != nil {
			return err
		}
	}
	if err := r.sink.EndElement(state.ElementQName); err != nil {
		return err
	}
	if prefixed {
		return r.sink.EndPrefixMapping(prefix)
	}
	return nil
}

func (r *Reader) nextPrefix() string {
	p := fmt.Sprintf("ns%d", r.nsSeq)
	r.nsSeq++
	return p
}

// childState finds the outgoing ELEMENT edge named name reachable from
// n, flattening through the transparent SEQUENCE/CHOICE/ALL/
// SUBSTITUTION_GROUP edges the same way recordschema.Generate's
// collectElementEdges does when it first produced this field name.
func childState(n *statemachine.Node, name string) *statemachine.Node {
	for _, edge := range n.Next {
		switch edge.To.Kind {
		case statemachine.KindElement:
			if edge.To.ElementQName.Local == name {
				return edge.To
			}
		case statemachine.KindAny:
		default:
			if found := childState(edge.To, name); found != nil {
				return found
			}
		}
	}
	return nil
}

func readRawValue(dec collab.BinaryDecoder, t recordschema.FieldType) (facet.Value, error) {
	switch t {
	case recordschema.TypeBoolean:
		b, err := dec.ReadBoolean()
		return facet.Value{Bool: b}, err
	case recordschema.TypeInt:
		n, err := dec.ReadInt()
		return facet.Value{Int: int64(n)}, err
	case recordschema.TypeLong:
		n, err := dec.ReadLong()
		return facet.Value{Int: n}, err
	case recordschema.TypeFloat:
		n, err := dec.ReadFloat()
		return facet.Value{Number: float64(n)}, err
	case recordschema.TypeDouble:
		n, err := dec.ReadDouble()
		return facet.Value{Number: n}, err
	case recordschema.TypeBytes:
		b, err := dec.ReadBytes()
		return facet.Value{Bytes: b}, err
	case recordschema.TypeNull:
		return facet.Value{}, dec.ReadNull()
	default:
		s, err := dec.ReadString()
		return facet.Value{Text: s}, err
	}
}
