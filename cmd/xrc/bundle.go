// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
	"github.com/sdcio/xrc/statemachine"
)

// nodeDTO is the JSON shape of one compiled ELEMENT node. A real
// deployment compiles its statemachine.Graph from an XSD via its own
// Schema Walker collab.SchemaSource (xrc takes no position on XSD
// parsing — see collab.SchemaSource's doc comment); this bundle format
// lets the CLI exercise Session end-to-end against a graph described
// directly, the way a hand-authored fixture does in this module's own
// tests.
type nodeDTO struct {
	Local      string          `json:"local"`
	Namespace  string          `json:"namespace,omitempty"`
	Base       string          `json:"base"`
	Nillable   bool            `json:"nillable,omitempty"`
	Default    string          `json:"default,omitempty"`
	HasDefault bool            `json:"hasDefault,omitempty"`
	Attributes []attributeDTO  `json:"attributes,omitempty"`
	Children   []childEdgeDTO  `json:"children,omitempty"`
}

type attributeDTO struct {
	Local string `json:"local"`
	Base  string `json:"base"`
}

type childEdgeDTO struct {
	MinOccurs uint64  `json:"minOccurs"`
	MaxOccurs uint64  `json:"maxOccurs"` // 0 means unbounded
	Node      nodeDTO `json:"node"`
}

var baseTypesByName = map[string]facet.BaseSimpleType{
	"string":  facet.XString,
	"boolean": facet.XBoolean,
	"decimal": facet.XDecimal,
	"double":  facet.XDouble,
	"float":   facet.XFloat,
	"base64":  facet.XBinBase64,
	"hex":     facet.XBinHex,
	"int":     facet.XInt,
	"long":    facet.XLong,
	"integer": facet.XInteger,
}

func loadBundle(path string) (*statemachine.Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root nodeDTO
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parsing schema bundle: %w", err)
	}
	start, err := buildNode(root)
	if err != nil {
		return nil, err
	}
	return statemachine.NewGraph(start), nil
}

func buildNode(dto nodeDTO) (*statemachine.Node, error) {
	base, ok := baseTypesByName[dto.Base]
	complex := len(dto.Children) > 0
	var typeInfo facet.SimpleTypeInfo
	if complex {
		typeInfo = facet.Complex(false)
	} else {
		if !ok {
			return nil, fmt.Errorf("element %q: unknown base type %q", dto.Local, dto.Base)
		}
		typeInfo = facet.Atomic(base, nil, nil)
	}

	node := &statemachine.Node{
		Kind:         statemachine.KindElement,
		ElementQName: collab.QName{Namespace: dto.Namespace, Local: dto.Local},
		ElementType:  typeInfo,
		Nillable:     dto.Nillable,
		Default:      dto.Default,
		HasDefault:   dto.HasDefault,
	}
	for _, a := range dto.Attributes {
		attrBase, ok := baseTypesByName[a.Base]
		if !ok {
			return nil, fmt.Errorf("attribute %q: unknown base type %q", a.Local, a.Base)
		}
		node.Attributes = append(node.Attributes, statemachine.Attribute{
			Name: collab.QName{Local: a.Local},
			Type: facet.Atomic(attrBase, nil, nil),
		})
	}
	for _, c := range dto.Children {
		childNode, err := buildNode(c.Node)
		if err != nil {
			return nil, err
		}
		max := c.MaxOccurs
		if max == 0 {
			max = statemachine.Unbounded
		}
		node.Next = append(node.Next, statemachine.Edge{To: childNode, MinOccurs: c.MinOccurs, MaxOccurs: max})
	}
	return node, nil
}
