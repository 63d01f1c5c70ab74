// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xrctest

import (
	"fmt"
	"testing"

	"github.com/sdcio/xrc/collab"
)

// RecordingSink is a collab.XMLEventSink that records every call as a
// short textual event, for scenario tests to compare against an
// expected event sequence without hand-building an XML diff.
type RecordingSink struct {
	Events []string
}

func NewRecordingSink() *RecordingSink { return &RecordingSink{} }

func (s *RecordingSink) StartDocument() error {
	s.Events = append(s.Events, "start_document")
	return nil
}

func (s *RecordingSink) StartPrefixMapping(prefix, uri string) error {
	s.Events = append(s.Events, fmt.Sprintf("start_prefix(%s=%s)", prefix, uri))
	return nil
}

func (s *RecordingSink) StartElement(name collab.QName, attrs []collab.XMLAttr) error {
	s.Events = append(s.Events, fmt.Sprintf("start_element(%s)%s", name.String(), formatAttrs(attrs)))
	return nil
}

func formatAttrs(attrs []collab.XMLAttr) string {
	if len(attrs) == 0 {
		return ""
	}
	out := ""
	for _, a := range attrs {
		out += fmt.Sprintf("[%s=%s]", a.Name.String(), a.Value)
	}
	return out
}

func (s *RecordingSink) Characters(text string) error {
	s.Events = append(s.Events, fmt.Sprintf("characters(%s)", text))
	return nil
}

func (s *RecordingSink) EndElement(name collab.QName) error {
	s.Events = append(s.Events, fmt.Sprintf("end_element(%s)", name.String()))
	return nil
}

func (s *RecordingSink) EndPrefixMapping(prefix string) error {
	s.Events = append(s.Events, fmt.Sprintf("end_prefix(%s)", prefix))
	return nil
}

func (s *RecordingSink) EndDocument() error {
	s.Events = append(s.Events, "end_document")
	return nil
}

// ExpectEvents asserts sink recorded exactly the given event sequence.
func ExpectEvents(t *testing.T, sink *RecordingSink, want ...string) {
	t.Helper()
	if len(sink.Events) != len(want) {
		t.Fatalf("event count mismatch:\ngot:  %v\nwant: %v", sink.Events, want)
	}
	for i := range want {
		if sink.Events[i] != want[i] {
			t.Fatalf("event %d mismatch:\ngot:  %v\nwant: %v", i, sink.Events, want)
		}
	}
}
