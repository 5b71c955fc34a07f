package profxml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ReadAttr returns the raw value of a required attribute.
func ReadAttr(n *Node, path, name string) (string, error) {
	v, ok := n.Attr(name)
	if !ok {
		return "", &SchemaError{Path: path, Attr: name, Reason: ReasonMissing}
	}
	return v, nil
}

// ReadAttrAs reads a required attribute and coerces it. Coercion failures
// are reported as ReasonMalformed unless the coercion wraps
// ErrUnknownEnumValue.
func ReadAttrAs[T any](n *Node, path, name string, coerce func(string) (T, error)) (T, error) {
	var zero T
	raw, err := ReadAttr(n, path, name)
	if err != nil {
		return zero, err
	}
	v, err := coerce(raw)
	if err != nil {
		reason := ReasonMalformed
		if errors.Is(err, ErrUnknownEnumValue) {
			reason = ReasonUnknownEnumValue
		}
		return zero, &SchemaError{Path: path, Attr: name, Reason: reason, Value: raw, Err: err}
	}
	return v, nil
}

// ParseBool accepts true/false and 1/0, case-insensitively. Nothing else.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// ParseGUID accepts the 8-4-4-4-12 hex form, optionally wrapped in braces.
func ParseGUID(s string) (uuid.UUID, error) {
	switch {
	case len(s) == 36:
	case len(s) == 38 && s[0] == '{' && s[37] == '}':
	default:
		return uuid.Nil, fmt.Errorf("invalid guid %q", s)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid guid %q: %w", s, err)
	}
	return id, nil
}

func ParseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func ParseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// FormatGUID writes the braced upper-case form used in profiles.
func FormatGUID(id uuid.UUID) string {
	return "{" + strings.ToUpper(id.String()) + "}"
}

func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}

func FormatUint[T uint16 | uint32](v T) string {
	return strconv.FormatUint(uint64(v), 10)
}

// FormatFloat uses the shortest representation that parses back to v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
