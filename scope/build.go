// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package scope

import (
	"fmt"

	"github.com/danos/utils/tsort"
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/facet"
	"github.com/sdcio/xrc/xrcerrors"
)

// Builder computes and caches Scopes for an XSD collection, per §4.B's
// invariant that scoping is pure and cacheable by the type's QName.
// Grounded on compile.Compiler, which likewise wraps a parsed-tree
// cache behind a single long-lived object.
type Builder struct {
	src        collab.SchemaSource
	scopeCache map[collab.QName]*Scope
	chainOrder map[collab.QName][]collab.QName // memoized extension chain, base-first
}

// NewBuilder returns a Builder reading from src.
func NewBuilder(src collab.SchemaSource) *Builder {
	return &Builder{
		src:        src,
		scopeCache: make(map[collab.QName]*Scope),
		chainOrder: make(map[collab.QName][]collab.QName),
	}
}

// Build computes the Scope for a named type, consulting the cache
// first. Anonymous types (empty Local) are never cached, per §4.B's
// invariant.
func (b *Builder) Build(name collab.QName) (*Scope, error) {
	if name.Local != "" {
		if s, ok := b.scopeCache[name]; ok {
			return s, nil
		}
	}

	ts, ok := b.src.Scope(name)
	if !ok {
		return nil, xrcerrors.New(xrcerrors.UnresolvedReference, []string{name.String()}, "type not found in schema source")
	}

	s, err := b.buildFromTypeScope(name, ts)
	if err != nil {
		return nil, err
	}

	if name.Local != "" {
		b.scopeCache[name] = s
	}
	return s, nil
}

func (b *Builder) buildFromTypeScope(name collab.QName, ts collab.TypeScope) (*Scope, error) {
	if ts.IsSimple {
		return b.buildSimple(name, ts)
	}
	return b.buildComplex(name, ts)
}

// buildSimple resolves ts.SimpleContent through ResolveSimpleType: its
// QName is looked up as an XSD built-in and yields an atomic type with
// that built-in's implicit facets. Restriction, list and union
// derivations are not walked; a non-built-in QName fails with
// UnknownBaseType.
func (b *Builder) buildSimple(name collab.QName, ts collab.TypeScope) (*Scope, error) {
	info, err := b.ResolveSimpleType(ts.SimpleContent)
	if err != nil {
		return nil, err
	}
	return &Scope{
		QName:         name,
		IsSimple:      true,
		SimpleContent: info,
	}, nil
}

// ResolveSimpleType resolves a collaborator's opaque SimpleType handle
// to a facet.SimpleTypeInfo. Exported so callers outside scope (the
// State Machine Generator, resolving attribute types) can reuse the
// same built-in lookup rather than duplicating it.
func (b *Builder) ResolveSimpleType(t collab.SimpleType) (facet.SimpleTypeInfo, error) {
	if t == nil {
		return facet.SimpleTypeInfo{}, xrcerrors.New(xrcerrors.UnresolvedReference, nil, "simple content has no type")
	}
	q := t.QName()
	base, err := facet.BaseSimpleTypeFor(q)
	if err != nil {
		return facet.SimpleTypeInfo{}, err
	}
	fs, err := facet.FacetSetFor(base)
	if err != nil {
		return facet.SimpleTypeInfo{}, err
	}
	return facet.Atomic(base, fs, nil), nil
}

// buildComplex implements §4.B step 2: complexContent/extension unions
// attributes and concatenates particles as a synthetic sequence;
// complexContent/restriction inherits attributes (child may override)
// and replaces the particle wholesale; simpleContent/extension|
// restriction unions attributes and the SimpleTypeInfo becomes the
// parent's (possibly restricted) atomic type.
func (b *Builder) buildComplex(name collab.QName, ts collab.TypeScope) (*Scope, error) {
	if !ts.HasBase {
		return &Scope{
			QName:        name,
			Mixed:        ts.Mixed,
			Attributes:   expandAttributes(ts.Attributes),
			AnyAttribute: ts.AnyAttribute,
			Particle:     ts.Particle,
		}, nil
	}

	if err := b.checkAcyclic(name, ts.BaseType); err != nil {
		return nil, err
	}

	base, err := b.Build(ts.BaseType)
	if err != nil {
		return nil, err
	}

	attrs := unionAttributes(base.Attributes, expandAttributes(ts.Attributes))
	anyAttr := mergeAnyAttribute(base.AnyAttribute, ts.AnyAttribute)

	if base.IsSimple {
		// simpleContent/extension|restriction: SimpleTypeInfo becomes
		// the parent's possibly-restricted atomic type.
		info := base.SimpleContent
		if ts.SimpleContent != nil {
			restrictedFacets, err := b.mergedFacetsFor(ts.SimpleContent)
			if err != nil {
				return nil, err
			}
			info, err = facet.Restrict(base.SimpleContent, facet.Merge(base.SimpleContent.Facets, restrictedFacets))
			if err != nil {
				return nil, err
			}
		}
		return &Scope{
			QName:         name,
			Attributes:    attrs,
			AnyAttribute:  anyAttr,
			IsSimple:      true,
			SimpleContent: info,
		}, nil
	}

	particle := ts.Particle
	if ts.IsExtension {
		particle = sequenceOf(base.Particle, ts.Particle)
	}
	// complexContent/restriction: replace particle wholesale (ts.Particle as given).

	return &Scope{
		QName:        name,
		Mixed:        ts.Mixed,
		Attributes:   attrs,
		AnyAttribute: anyAttr,
		Particle:     particle,
	}, nil
}

// mergedFacetsFor returns a simpleContent restriction's own facet set,
// which buildComplex merges over the parent's — it relies on the schema source having
// already captured the restriction's local facets on the SimpleType
// handle; here we only need its base QName's implicit facets, since
// user-supplied XSD facets arrive pre-attached via the source's own
// TypeScope.SimpleContent in this collaborator shape.
func (b *Builder) mergedFacetsFor(t collab.SimpleType) (*facet.FacetSet, error) {
	base, err := facet.BaseSimpleTypeFor(t.QName())
	if err != nil {
		return nil, err
	}
	return facet.FacetSetFor(base)
}

// checkAcyclic orders the extension chain from name to its ultimate
// base with github.com/danos/utils/tsort, the way
// compile.Compiler.ExpandModules orders module imports, detecting
// extension cycles deterministically rather than via ad hoc
// depth-first recursion.
func (b *Builder) checkAcyclic(name, base collab.QName) error {
	g := tsort.New()
	g.AddEdge(name.String(), base.String())

	cur := base
	seen := map[collab.QName]bool{name: true}
	for {
		if seen[cur] {
			break
		}
		seen[cur] = true
		ts, ok := b.src.Scope(cur)
		if !ok || !ts.HasBase {
			break
		}
		g.AddEdge(cur.String(), ts.BaseType.String())
		cur = ts.BaseType
	}

	if _, err := g.Sort(); err != nil {
		return xrcerrors.New(xrcerrors.InvalidRestriction, []string{name.String()},
			fmt.Sprintf("cyclic complexContent extension/restriction chain: %v", err))
	}
	return nil
}

// expandAttributes returns a copy of a type's own attribute list, as
// buildComplex uses it for every scope it builds.
func expandAttributes(in []collab.Attribute) []collab.Attribute {
	// References are already resolved to global declarations, use
	// already defaulted to optional, and attribute groups already
	// flattened by the schema source per the collab.SchemaSource
	// contract (§6); this function exists as the single seam where a
	// future source that does NOT pre-flatten groups would plug in.
	out := make([]collab.Attribute, len(in))
	copy(out, in)
	return out
}
