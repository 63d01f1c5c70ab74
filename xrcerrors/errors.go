// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package xrcerrors defines the error kinds of §7: every kind wraps a
// github.com/danos/mgmterror application error and renders its XSD
// element path with github.com/danos/utils/pathutil, the way
// schema/errors.go does for the YANG data model.
package xrcerrors

import (
	"github.com/danos/mgmterror"
	"github.com/danos/utils/pathutil"
)

// Kind discriminates the error kinds of spec §7.
type Kind int

const (
	UnknownBaseType Kind = iota
	InvalidRestriction
	FacetViolation
	UnresolvedReference
	UnknownElement
	NoPathMatches
	NilabilityConflict
	UnwritableValue
	UnreadableValue
	UnlinkedSchema
	RecordSchemaMismatch
)

func (k Kind) String() string {
	switch k {
	case UnknownBaseType:
		return "UnknownBaseType"
	case InvalidRestriction:
		return "InvalidRestriction"
	case FacetViolation:
		return "FacetViolation"
	case UnresolvedReference:
		return "UnresolvedReference"
	case UnknownElement:
		return "UnknownElement"
	case NoPathMatches:
		return "NoPathMatches"
	case NilabilityConflict:
		return "NilabilityConflict"
	case UnwritableValue:
		return "UnwritableValue"
	case UnreadableValue:
		return "UnreadableValue"
	case UnlinkedSchema:
		return "UnlinkedSchema"
	case RecordSchemaMismatch:
		return "RecordSchemaMismatch"
	}
	return "UnknownKind"
}

// Error is the concrete error type returned by every xrc subsystem. It
// carries the structured mgmterror cause plus the Kind for switch-based
// handling by callers.
type Error struct {
	Kind    Kind
	Path    []string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return e.Kind.String() + ": " + e.Message
	}
	return e.Kind.String() + " at " + pathutil.Pathstr(e.Path) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, path []string, msg string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Message: msg, cause: cause}
}

func New(kind Kind, path []string, msg string) *Error {
	var cause error
	switch kind {
	case UnknownBaseType, InvalidRestriction, FacetViolation, UnwritableValue, UnreadableValue:
		e := mgmterror.NewInvalidValueApplicationError()
		e.Message = msg
		if len(path) > 0 {
			e.Path = pathutil.Pathstr(path)
		}
		cause = e
	case UnresolvedReference, UnknownElement:
		e := mgmterror.NewUnknownElementApplicationError(lastOf(path))
		e.Message = msg
		if len(path) > 1 {
			e.Path = pathutil.Pathstr(path[:len(path)-1])
		}
		cause = e
	case NoPathMatches:
		e := mgmterror.NewOperationFailedApplicationError()
		e.Message = msg
		if len(path) > 0 {
			e.Path = pathutil.Pathstr(path)
		}
		cause = e
	case NilabilityConflict:
		e := mgmterror.NewInvalidValueApplicationError()
		e.Message = msg
		if len(path) > 0 {
			e.Path = pathutil.Pathstr(path)
		}
		cause = e
	case UnlinkedSchema:
		e := mgmterror.NewMissingElementApplicationError("xmlSchemas")
		e.Message = msg
		cause = e
	case RecordSchemaMismatch:
		e := mgmterror.NewOperationFailedApplicationError()
		e.Message = msg
		if len(path) > 0 {
			e.Path = pathutil.Pathstr(path)
		}
		cause = e
	default:
		e := mgmterror.NewOperationFailedApplicationError()
		e.Message = msg
		cause = e
	}
	return newError(kind, path, msg, cause)
}

func lastOf(path []string) string {
	if len(path) == 0 {
		return "<unknown>"
	}
	return path[len(path)-1]
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
