package models

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports an input or output invariant violation. It is
// permanent: retrying the same computation cannot succeed.
type ValidationError struct {
	Check    string      // which check failed, e.g. "longitude_range"
	Field    string      // which field, e.g. "planets.Mars.longitude"
	Expected interface{} // what the invariant requires
	Observed interface{} // what was actually seen
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Expected != nil || e.Observed != nil {
		return fmt.Sprintf("validation %s: %s: expected %v, observed %v",
			e.Check, e.Field, e.Expected, e.Observed)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation %s: %s: %s", e.Check, e.Field, e.Message)
	}
	return fmt.Sprintf("validation %s: %s", e.Check, e.Message)
}

// ValidationErrors collects every failed check from one validation pass.
// All checks run unconditionally; nothing short-circuits.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is/As.
func (es ValidationErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// First returns the first detected failure, for callers that report one.
func (es ValidationErrors) First() *ValidationError {
	if len(es) == 0 {
		return nil
	}
	return es[0]
}

// EphemerisError means the provider call itself failed: unsupported date
// range, undefined angles at extreme latitude, internal library error.
type EphemerisError struct {
	Op     string // "position", "angles", "init"
	Target string // body name or "Ascendant/Midheaven"
	Detail string
}

func (e *EphemerisError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("ephemeris %s %s: %s", e.Op, e.Target, e.Detail)
	}
	return fmt.Sprintf("ephemeris %s: %s", e.Op, e.Detail)
}

// EphemerisFileError means required precision data files are absent.
type EphemerisFileError struct {
	Path   string
	Detail string
}

func (e *EphemerisFileError) Error() string {
	return fmt.Sprintf("ephemeris files at %s: %s", e.Path, e.Detail)
}

// CalculationError is a post-hoc detection that a nominally successful
// provider call produced an unusable value (NaN or infinite).
type CalculationError struct {
	Target string
	Field  string
	Detail string
}

func (e *CalculationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("calculation %s.%s: %s", e.Target, e.Field, e.Detail)
	}
	return fmt.Sprintf("calculation %s: %s", e.Target, e.Detail)
}

// IsValidation reports whether err is (or wraps) a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}

// IsEphemeris reports whether err originated in the provider or its data files.
func IsEphemeris(err error) bool {
	var ee *EphemerisError
	var fe *EphemerisFileError
	return errors.As(err, &ee) || errors.As(err, &fe)
}

// IsCalculation reports whether err is a post-hoc bad-output detection.
func IsCalculation(err error) bool {
	var ce *CalculationError
	return errors.As(err, &ce)
}
