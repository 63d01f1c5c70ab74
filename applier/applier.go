// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package applier implements §4.G: the Schema Applier decorates a
// parsed DocumentNode tree with record-schema handles from a
// recordschema.Linkage, the way schema/default_decorator.go wraps a
// datanode.DataNode tree with defaults from a schema.Node tree without
// mutating the underlying tree. Applying is optional: a caller that
// talks directly to its own record-schema system can skip this package
// and populate DocumentNode.UserSlot itself.
package applier

import (
	"github.com/sdcio/xrc/doctree"
	"github.com/sdcio/xrc/recordschema"
	"github.com/sdcio/xrc/xrcerrors"
)

// Apply decorates root and every descendant's UserSlot with the
// recordschema.Field bound to its element name in linkage, recursing
// into nested records field-by-field. root must already be the result
// of a successful Path Finder match (its State is non-nil).
func Apply(root *doctree.DocumentNode, linkage *recordschema.Linkage) error {
	field, ok := linkage.Lookup(root.Name)
	if !ok {
		return xrcerrors.New(xrcerrors.RecordSchemaMismatch, []string{root.Name.String()}, "no record schema bound to root element")
	}
	return applyField(root, field)
}

func applyField(node *doctree.DocumentNode, field recordschema.Field) error {
	node.UserSlot = field

	if field.Type != recordschema.TypeRecord {
		if len(node.Children) > 0 {
			return xrcerrors.New(xrcerrors.RecordSchemaMismatch,
				[]string{node.Name.String()}, "scalar field has child elements")
		}
		return nil
	}
	if field.Record == nil {
		return xrcerrors.New(xrcerrors.RecordSchemaMismatch,
			[]string{node.Name.String()}, "record field has no record definition")
	}

	for _, child := range node.Children {
		childField, ok := field.Record.FieldByName(child.Name.Local)
		if !ok {
			return xrcerrors.New(xrcerrors.RecordSchemaMismatch,
				[]string{node.Name.String(), child.Name.String()}, "element has no matching record field")
		}
		target := childField
		if childField.Type == recordschema.TypeArray && childField.Item != nil {
			target = *childField.Item
		}
		if err := applyField(child, target); err != nil {
			return err
		}
	}
	return nil
}
