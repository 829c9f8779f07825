// Package errors provides error handling for babbisch.
//
// It re-exports github.com/cockroachdb/errors so that every package
// wraps, annotates and inspects errors the same way:
//
//	if err := a.resolve(t); err != nil {
//	    return errors.Wrapf(err, "field %s", name)
//	}
//
//	if errors.Is(err, errors.ErrUnsupported) {
//	    // the input tree holds a construct the resolver has no case for
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New                = crdb.New
	Newf               = crdb.Newf
	Wrap               = crdb.Wrap
	Wrapf              = crdb.Wrapf
	WithStack          = crdb.WithStack
	WithMessage        = crdb.WithMessage
	WithMessagef       = crdb.WithMessagef
	WithSecondaryError = crdb.WithSecondaryError
)

// User-facing messages and details
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	FlattenHints = crdb.FlattenHints
)

// Error inspection
var (
	Is            = crdb.Is
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors. Wrap them with Wrap/Wrapf to add context while keeping
// errors.Is working.
var (
	// ErrUnsupported marks a declaration-tree node the resolver has no case for.
	ErrUnsupported = New("unsupported construct")

	// ErrUnnamedType marks an anonymous compound that reached resolution
	// without a synthesized name.
	ErrUnnamedType = New("anonymous type without name")

	// ErrInvalidInput marks front-end input that cannot be turned into a
	// declaration tree.
	ErrInvalidInput = New("invalid input")

	// ErrMalformedTag marks a string that does not follow the tag grammar.
	ErrMalformedTag = New("malformed tag")

	// ErrSyntax marks C source the header parser cannot read.
	ErrSyntax = New("syntax error")
)

// IsUnsupported reports whether err is or wraps ErrUnsupported.
func IsUnsupported(err error) bool {
	return err != nil && Is(err, ErrUnsupported)
}

// IsUnnamedType reports whether err is or wraps ErrUnnamedType.
func IsUnnamedType(err error) bool {
	return err != nil && Is(err, ErrUnnamedType)
}
