// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"encoding/xml"
	"io"

	"github.com/sdcio/xrc/collab"
)

// xmlSource adapts encoding/xml.Decoder, the same stdlib XML reader
// data/encoding/xml.go's unmarshaledXML used, to the streaming push
// interface collab.XMLEventSource expects.
type xmlSource struct {
	dec *xml.Decoder
}

func newXMLSource(r io.Reader) *xmlSource {
	return &xmlSource{dec: xml.NewDecoder(r)}
}

func (s *xmlSource) Parse(ctx context.Context, handler collab.XMLEventSink) error {
	if err := handler.StartDocument(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := s.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make([]collab.XMLAttr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, collab.XMLAttr{
					Name:  collab.QName{Namespace: a.Name.Space, Local: a.Name.Local},
					Value: a.Value,
				})
			}
			if err := handler.StartElement(collab.QName{Namespace: t.Name.Space, Local: t.Name.Local}, attrs); err != nil {
				return err
			}
		case xml.CharData:
			if err := handler.Characters(string(t)); err != nil {
				return err
			}
		case xml.EndElement:
			if err := handler.EndElement(collab.QName{Namespace: t.Name.Space, Local: t.Name.Local}); err != nil {
				return err
			}
		}
	}
	return handler.EndDocument()
}

// xmlSink adapts encoding/xml.Encoder to collab.XMLEventSink, the
// Reader's output side.
type xmlSink struct {
	enc *xml.Encoder
}

func newXMLSink(w io.Writer) *xmlSink {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &xmlSink{enc: enc}
}

func (s *xmlSink) StartDocument() error                        { return nil }
func (s *xmlSink) StartPrefixMapping(prefix, uri string) error  { return nil }
func (s *xmlSink) EndPrefixMapping(prefix string) error         { return nil }

func (s *xmlSink) StartElement(name collab.QName, attrs []collab.XMLAttr) error {
	start := xml.StartElement{Name: xml.Name{Space: name.Namespace, Local: name.Local}}
	for _, a := range attrs {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Space: a.Name.Namespace, Local: a.Name.Local},
			Value: a.Value,
		})
	}
	return s.enc.EncodeToken(start)
}

func (s *xmlSink) Characters(text string) error {
	return s.enc.EncodeToken(xml.CharData(text))
}

func (s *xmlSink) EndElement(name collab.QName) error {
	return s.enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: name.Namespace, Local: name.Local}})
}

func (s *xmlSink) EndDocument() error {
	return s.enc.Flush()
}
