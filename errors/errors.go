// Package errors provides error handling for Mend.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//   - Network portability for distributed systems
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check healing error classes
//	if errors.Is(err, errors.ErrUnknownEntryType) {
//	    // no provider registered for this type
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Mark       = crdb.Mark
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the healing engine. Use these with errors.Is() for
// type-safe checking; wrap them with errors.Wrap() to add context while
// preserving the class.
var (
	// ErrUnknownEntryType indicates no provider is registered for the
	// requested entry type.
	ErrUnknownEntryType = New("unknown entry type")

	// ErrValidationFailed indicates an entry failed schema validation and
	// the degradation policy did not allow it through.
	ErrValidationFailed = New("validation failed")

	// ErrTransformationFailed indicates legacy data could not be mapped to
	// the current schema.
	ErrTransformationFailed = New("transformation failed")

	// ErrMissingReference indicates a referenced entry does not exist and
	// the degradation policy rejected the entry because of it.
	ErrMissingReference = New("missing reference")

	// ErrBridgeUnavailable indicates the legacy bridge could not be reached.
	// This is a soft condition: strategies treat it as "no legacy data" and
	// fall through to the next source.
	ErrBridgeUnavailable = New("legacy bridge unavailable")

	// ErrBridge indicates the legacy bridge answered with a hard failure.
	// Unlike ErrBridgeUnavailable this propagates to the caller.
	ErrBridge = New("legacy bridge error")

	// ErrMaxAttemptsExceeded indicates the healing attempt budget was
	// exhausted before a usable entry was produced.
	ErrMaxAttemptsExceeded = New("max healing attempts exceeded")

	// ErrDegradationPolicy marks a failure that only exists because
	// degradation is disabled: the handler chose Degrade and the global
	// gate converted it into Fail. It accompanies ErrValidationFailed or
	// ErrMissingReference rather than replacing them.
	ErrDegradationPolicy = New("degradation policy rejected entry")
)

// IsUnknownEntryType checks if an error is or wraps ErrUnknownEntryType.
func IsUnknownEntryType(err error) bool {
	return err != nil && Is(err, ErrUnknownEntryType)
}

// IsValidationFailed checks if an error is or wraps ErrValidationFailed.
func IsValidationFailed(err error) bool {
	return err != nil && Is(err, ErrValidationFailed)
}

// IsBridgeUnavailable checks if an error is or wraps ErrBridgeUnavailable.
// Strategies use this to distinguish soft bridge conditions from hard ones.
func IsBridgeUnavailable(err error) bool {
	return err != nil && Is(err, ErrBridgeUnavailable)
}

// IsMaxAttemptsExceeded checks if an error is or wraps ErrMaxAttemptsExceeded.
func IsMaxAttemptsExceeded(err error) bool {
	return err != nil && Is(err, ErrMaxAttemptsExceeded)
}

// IsDegradationPolicy checks if an error is marked with ErrDegradationPolicy.
func IsDegradationPolicy(err error) bool {
	return err != nil && Is(err, ErrDegradationPolicy)
}

// NewUnknownEntryType creates an unknown-entry-type error naming the type.
func NewUnknownEntryType(entryType string) error {
	return Wrapf(ErrUnknownEntryType, "no provider registered for entry type %q", entryType)
}

// WrapValidation wraps a validator error as a validation-failed error.
func WrapValidation(err error, entryType string) error {
	return Wrapf(Wrap(ErrValidationFailed, err.Error()), "entry type %q", entryType)
}

// WrapTransformation wraps a transformer error as a transformation-failed error.
func WrapTransformation(err error, entryType string) error {
	return Wrapf(Wrap(ErrTransformationFailed, err.Error()), "entry type %q", entryType)
}
