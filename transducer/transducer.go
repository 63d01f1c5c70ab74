// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package transducer implements §4.H: the Writer replays a matched,
// schema-applied document tree onto a binary encoder; the Reader
// mirrors it, replaying binary records as XML events into a
// collab.XMLEventSink. Grounded on data/encoding/xml.go's
// encodeXmlChildren/ToXML, which recursively walks a schema-typed tree
// emitting one encoder call per node; generalized here from
// encoding/xml tokens to the collab.BinaryEncoder/BinaryDecoder
// primitives and from a YANG schema.Node walk to a recordschema.Field
// walk.
package transducer

import (
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/xrcerrors"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"
const xsiNilLocal = "nil"

func mismatch(name collab.QName, msg string) error {
	return xrcerrors.New(xrcerrors.RecordSchemaMismatch, []string{name.String()}, msg)
}
