package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tagged holds an enum value in its wrapped {"value": ...} form. It decodes
// from either the wrapped object or a bare JSON string, so every entry point
// normalizes to the same shape.
type Tagged[T ~string] struct {
	Value T `json:"value"`
}

// Tag wraps v.
func Tag[T ~string](v T) Tagged[T] {
	return Tagged[T]{Value: v}
}

func (t Tagged[T]) String() string { return string(t.Value) }

// IsZero reports whether no value was set.
func (t Tagged[T]) IsZero() bool { return t.Value == "" }

// Or returns t, or a Tagged holding fallback when t is empty.
func (t Tagged[T]) Or(fallback T) Tagged[T] {
	if t.Value == "" {
		return Tagged[T]{Value: fallback}
	}
	return t
}

func (t *Tagged[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Tagged[T]{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding tagged value: %w", err)
		}
		t.Value = T(s)
		return nil
	}
	var wrapped struct {
		Value T `json:"value"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return fmt.Errorf("decoding tagged value: %w", err)
	}
	t.Value = wrapped.Value
	return nil
}
