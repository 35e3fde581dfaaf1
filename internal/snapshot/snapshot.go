// Package snapshot turns drafts into comparable strings. Two structurally
// equal values always serialize to the same string: map keys are emitted
// in sorted order and struct fields in declaration order.
package snapshot

import (
	"encoding/json"
	"fmt"
)

// Serialize returns the snapshot string for v.
func Serialize(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serializing snapshot: %w", err)
	}
	return string(data), nil
}

// MustSerialize is Serialize for values already known to be JSON-safe.
// It panics on values that cannot be encoded (channels, funcs, cycles).
func MustSerialize(v any) string {
	s, err := Serialize(v)
	if err != nil {
		panic(err)
	}
	return s
}

// Equal reports whether a and b produce the same snapshot. Values that
// cannot be serialized are never equal.
func Equal(a, b any) bool {
	sa, err := Serialize(a)
	if err != nil {
		return false
	}
	sb, err := Serialize(b)
	if err != nil {
		return false
	}
	return sa == sb
}
