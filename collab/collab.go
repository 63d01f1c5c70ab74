// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package collab declares the narrow interfaces that bind xrc to its
// three external collaborators: a parsed XSD model, a namespace-aware
// streaming XML event handler, and a binary record encoder/decoder.
// None of the three is implemented here; xrc only consumes them.
package collab

import "context"

// QName is a namespace-qualified name. Namespace "" is absent/no-namespace.
type QName struct {
	Namespace string
	Local     string
}

func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return q.Namespace + ":" + q.Local
}

// Equal compares two QNames by pairwise string equality.
func (q QName) Equal(o QName) bool {
	return q.Namespace == o.Namespace && q.Local == o.Local
}

// AttrUse enumerates XSD attribute use.
type AttrUse int

const (
	AttrOptional AttrUse = iota
	AttrRequired
	AttrProhibited
)

// ParticleKind enumerates the shapes a schema particle can take.
type ParticleKind int

const (
	ParticleElement ParticleKind = iota
	ParticleSequence
	ParticleChoice
	ParticleAll
	ParticleAny
	ParticleSubstitutionGroup
)

// ProcessContents mirrors the xsd:any processContents attribute.
type ProcessContents int

const (
	ProcessSkip ProcessContents = iota
	ProcessLax
	ProcessStrict
)

// Attribute is the XSD source's view of one attribute declaration.
type Attribute struct {
	Name    QName
	Type    SimpleType
	Use     AttrUse
	Default string
	HasDef  bool
	Fixed   string
	HasFix  bool
}

// SimpleType is the opaque handle the XSD source hands back for a
// resolved simple-type; the facet package turns it into SimpleTypeInfo.
type SimpleType interface {
	QName() QName
}

// Particle is one node of a content model as seen by the Schema Walker:
// an element reference, a group (sequence/choice/all), a wildcard, or a
// substitution-group head.
type Particle struct {
	Kind      ParticleKind
	MinOccurs uint64
	MaxOccurs uint64 // 0 means unbounded
	// Populated when Kind == ParticleElement or ParticleSubstitutionGroup.
	ElementName QName
	// Children particles, in document order, for group kinds.
	Children []Particle
	// Populated when Kind == ParticleAny.
	AnyNamespaces   []string
	ProcessContents ProcessContents
}

// Unbounded reports whether maxOccurs is the unbounded sentinel.
func (p Particle) Unbounded() bool { return p.MaxOccurs == 0 }

// ElementDecl is a resolved global or local element declaration.
type ElementDecl struct {
	Name              QName
	Type              QName // the element's (possibly anonymous) type QName
	SubstitutionGroup QName // zero value QName means none
	Nillable          bool
	Default           string
	HasDefault        bool
	Fixed             string
	HasFixed          bool
	Abstract          bool
}

// TypeScope is the resolved, merged view of one complex or simple type,
// as produced by the caller's XSD source (the Schema Scope component of
// xrc, package scope, builds on top of this, not instead of it, when the
// source does not pre-merge extension chains).
type TypeScope struct {
	QName          QName
	Mixed          bool
	Attributes     []Attribute
	AnyAttribute   []string // merged any-attribute namespaces, nil if none
	Particle       Particle // zero value Particle{} (no children) if simple content
	SimpleContent  SimpleType
	IsSimple       bool // true when the type itself is a simple type, not complex
	BaseType       QName
	HasBase        bool
	IsExtension    bool // complexContent/extension vs restriction, meaningful when HasBase
}

// SchemaSource is the read-only schema-collection handle the Schema
// Walker and Schema Scope consume; it is produced by an XSD parser
// outside xrc's scope.
type SchemaSource interface {
	// RootElement resolves a root element declaration by QName.
	RootElement(name QName) (ElementDecl, bool)
	// Element resolves any global element declaration by QName.
	Element(name QName) (ElementDecl, bool)
	// Scope resolves the merged TypeScope for a type QName.
	Scope(name QName) (TypeScope, bool)
	// SubstitutionMembers returns, in declaration order, the elements
	// whose substitutionGroup is the given head QName.
	SubstitutionMembers(head QName) []QName
}

// XMLAttr is one attribute as delivered by the streaming XML parser or
// expected by the streaming XML serializer.
type XMLAttr struct {
	Name  QName
	Value string
}

// XMLEventSink receives XML events produced by the Transducer's Reader
// when replaying binary records back into XML.
type XMLEventSink interface {
	StartDocument() error
	StartPrefixMapping(prefix, uri string) error
	StartElement(name QName, attrs []XMLAttr) error
	Characters(text string) error
	EndElement(name QName) error
	EndPrefixMapping(prefix string) error
	EndDocument() error
}

// XMLEventSource is the streaming XML parser's push interface: it calls
// back into the supplied handler as it scans a document. The handler is
// typically the Path Finder composed with the Transducer's Writer.
type XMLEventSource interface {
	// Parse scans the document and invokes handler for every event, in
	// document order, until end_document or an error.
	Parse(ctx context.Context, handler XMLEventSink) error
}

// BinaryEncoder is the record codec's write side.
type BinaryEncoder interface {
	WriteNull() error
	WriteBoolean(v bool) error
	WriteInt(v int32) error
	WriteLong(v int64) error
	WriteFloat(v float32) error
	WriteDouble(v float64) error
	WriteBytes(v []byte) error
	WriteString(v string) error
	WriteEnum(ordinal int) error
	WriteIndex(unionTag int) error
	WriteArrayStart() error
	SetItemCount(n int) error
	StartItem() error
	WriteArrayEnd() error
	WriteMapStart() error
	StartMapItem(key string) error
	WriteMapEnd() error
}

// BinaryDecoder is the record codec's read side.
type BinaryDecoder interface {
	ReadNull() error
	ReadBoolean() (bool, error)
	ReadInt() (int32, error)
	ReadLong() (int64, error)
	ReadFloat() (float32, error)
	ReadDouble() (float64, error)
	ReadBytes() ([]byte, error)
	ReadString() (string, error)
	ReadEnum() (int, error)
	ReadIndex() (int, error)
	ReadArrayStart() error
	ArrayNext() (bool, error)
	ReadMapStart() error
	MapNext() (key string, more bool, err error)
}
