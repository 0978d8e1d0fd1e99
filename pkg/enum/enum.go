// Package enum keeps a registry of the string values of enum-like types, so
// raw input can be checked against the declared set.
package enum

import (
	"fmt"
	"reflect"
)

var registry = map[reflect.Type]map[string]any{}

// New registers value as a member of its type and returns it unchanged.
func New[T ~string](value T) T {
	t := reflect.TypeOf(value)
	if _, ok := registry[t]; !ok {
		registry[t] = map[string]any{}
	}

	registry[t][string(value)] = value
	return value
}

func ToEnum[T ~string](s string) (T, error) {
	var zero T
	values, ok := registry[reflect.TypeOf(zero)]
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	v, ok := values[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return v.(T), nil
}
