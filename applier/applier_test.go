// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package applier

import (
	"testing"

	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/doctree"
	"github.com/sdcio/xrc/recordschema"
)

func TestApplyDecoratesNestedFields(t *testing.T) {
	pool := doctree.NewPool()
	root := pool.AcquireDocumentNode()
	root.Name = collab.QName{Local: "root"}
	child := pool.AcquireDocumentNode()
	child.Name = collab.QName{Local: "name"}
	root.AddChild(child)

	rootRecord := &recordschema.Record{Fields: []recordschema.Field{
		{Name: "name", Type: recordschema.TypeString},
	}}
	linkage := recordschema.NewLinkage()
	linkage.Bind(root.Name, recordschema.Field{Type: recordschema.TypeRecord, Record: rootRecord})

	if err := Apply(root, linkage); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	rootField, ok := root.UserSlot.(recordschema.Field)
	if !ok || rootField.Type != recordschema.TypeRecord {
		t.Fatalf("expected root UserSlot to carry the record field, got %+v", root.UserSlot)
	}
	childField, ok := child.UserSlot.(recordschema.Field)
	if !ok || childField.Type != recordschema.TypeString {
		t.Fatalf("expected child UserSlot to carry the string field, got %+v", child.UserSlot)
	}
}

func TestApplyRejectsUnboundRoot(t *testing.T) {
	pool := doctree.NewPool()
	root := pool.AcquireDocumentNode()
	root.Name = collab.QName{Local: "root"}
	linkage := recordschema.NewLinkage()

	if err := Apply(root, linkage); err == nil {
		t.Fatalf("expected error for unbound root element")
	}
}

func TestApplyRejectsScalarWithChildren(t *testing.T) {
	pool := doctree.NewPool()
	root := pool.AcquireDocumentNode()
	root.Name = collab.QName{Local: "root"}
	child := pool.AcquireDocumentNode()
	child.Name = collab.QName{Local: "unexpected"}
	root.AddChild(child)

	linkage := recordschema.NewLinkage()
	linkage.Bind(root.Name, recordschema.Field{Type: recordschema.TypeString})

	if err := Apply(root, linkage); err == nil {
		t.Fatalf("expected error for scalar field with child elements")
	}
}
