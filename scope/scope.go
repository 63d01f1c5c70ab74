// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package scope implements §4.B: for an XSD type, the complete
// attribute set (inherited and group-expanded), the effective
// particle, the merged any-attribute wildcard, and the resulting
// SimpleTypeInfo. Grounded on compile/compile.go's BuildContainer/
// BuildList attribute-and-particle assembly and compile/grouping.go's
// group expansion, generalized from YANG containers/groupings to XSD
// complex types/extension chains.
package scope

import (
	"sort"

	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
)

// Scope is the per-type closure computed by Build.
type Scope struct {
	QName         collab.QName
	Mixed         bool
	Attributes    []collab.Attribute // order: base-then-child, child overrides by QName
	AnyAttribute  []string           // merged any-attribute namespaces, nil if none
	Particle      collab.Particle    // zero value Particle{} for simple content
	SimpleContent facet.SimpleTypeInfo
	IsSimple      bool
}

// AttributeByName looks up an attribute in the closure by QName.
func (s *Scope) AttributeByName(name collab.QName) (collab.Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name.Equal(name) {
			return a, true
		}
	}
	return collab.Attribute{}, false
}

// unionAttributes merges base and extension attribute sets: child
// (ext) entries override base entries sharing the same QName, new
// entries are appended in extension order, per §4.B step 2.
func unionAttributes(base, ext []collab.Attribute) []collab.Attribute {
	out := make([]collab.Attribute, 0, len(base)+len(ext))
	idx := make(map[collab.QName]int, len(base))
	for _, a := range base {
		idx[a.Name] = len(out)
		out = append(out, a)
	}
	for _, a := range ext {
		if i, ok := idx[a.Name]; ok {
			out[i] = a
			continue
		}
		idx[a.Name] = len(out)
		out = append(out, a)
	}
	return out
}

// mergeAnyAttribute takes the union of any-attribute namespace lists.
func mergeAnyAttribute(a, b []string) []string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, ns := range a {
		if _, ok := seen[ns]; !ok {
			seen[ns] = struct{}{}
			out = append(out, ns)
		}
	}
	for _, ns := range b {
		if _, ok := seen[ns]; !ok {
			seen[ns] = struct{}{}
			out = append(out, ns)
		}
	}
	sort.Strings(out)
	return out
}

// sequenceOf concatenates two particles as a synthetic sequence,
// preserving order, per §4.B step 2's "(base-particle, ext-particle)".
func sequenceOf(base, ext collab.Particle) collab.Particle {
	return collab.Particle{
		Kind:      collab.ParticleSequence,
		MinOccurs: 1,
		MaxOccurs: 1,
		Children:  []collab.Particle{base, ext},
	}
}
