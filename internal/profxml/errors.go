package profxml

import (
	"errors"
	"fmt"
)

// Reason classifies a SchemaError.
type Reason string

const (
	ReasonMissing          Reason = "missing"
	ReasonMalformed        Reason = "malformed"
	ReasonUnknownEnumValue Reason = "unknown-enum-value"
)

// ErrUnknownEnumValue is wrapped by coercion functions that reject a value
// outside a closed vocabulary. ReadAttrAs reports those as
// ReasonUnknownEnumValue instead of ReasonMalformed.
var ErrUnknownEnumValue = errors.New("unknown enum value")

// SchemaError reports malformed or incomplete XML found while decoding.
type SchemaError struct {
	Path   string // element path, e.g. activation-condition/condition[0]
	Attr   string
	Reason Reason
	Value  string // offending raw value, empty when missing
	Err    error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Path, e.Reason)
	if e.Attr != "" {
		msg = fmt.Sprintf("%s: attribute %q: %s", e.Path, e.Attr, e.Reason)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// AsSchemaError extracts a SchemaError from an error chain.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// UnimplementedError marks an operation that a variant is expected to
// provide but does not.
type UnimplementedError struct {
	Op string
}

func (e *UnimplementedError) Error() string {
	return e.Op + " not implemented"
}
