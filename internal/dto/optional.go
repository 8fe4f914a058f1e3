package dto

import (
	"bytes"
	"encoding/json"
)

// Optional is a payload field that remembers whether its key was sent and
// whether the sent value was null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of returns a present, non-null Optional.
func Of[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Valid reports whether a non-null value was sent.
func (o Optional[T]) Valid() bool {
	return o.Set && !o.Null
}

// Ptr returns the value as a pointer, nil when null or absent.
func (o Optional[T]) Ptr() *T {
	if !o.Valid() {
		return nil
	}
	v := o.Value
	return &v
}
