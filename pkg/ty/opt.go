package ty

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Opt is an optional value. Set tells if the value was provided at all,
// Valid tells if it holds something. Set without Valid is an explicit
// "undefined", used by partial updates to clear a value.
type Opt[T interface{}] struct {
	Value T // inner value
	Set   bool
	Valid bool
}

func OptWrap[T interface{}](value T) Opt[T] {
	return Opt[T]{
		Value: value,
		Set:   true,
		Valid: true,
	}
}

// OptNull returns an Opt that is set but holds no value.
func OptNull[T interface{}]() Opt[T] {
	return Opt[T]{Set: true}
}

// Get returns the inner value and whether it is defined.
func (i Opt[T]) Get() (T, bool) {
	if i.Set && i.Valid {
		return i.Value, true
	}
	var zero T
	return zero, false
}

// Or returns the inner value, or def when undefined.
func (i Opt[T]) Or(def T) T {
	if v, ok := i.Get(); ok {
		return v
	}
	return def
}

// Defined is a shorthand for Set && Valid.
func (i Opt[T]) Defined() bool {
	return i.Set && i.Valid
}

func (i *Opt[T]) Merge(or *Opt[T]) {
	if or.Set {
		i.Value = or.Value
		i.Set = or.Set
		i.Valid = or.Valid
	}
}

func (i *Opt[T]) S(v T) {
	i.Value = v
	i.Set = true
	i.Valid = true
}

func (i *Opt[T]) N() {
	i.Set = true
	i.Valid = false
	var zero T
	i.Value = zero
}

func (i *Opt[T]) U() {
	i.Set = false
	i.Valid = false
}

func (i *Opt[T]) UnmarshalJSON(data []byte) error {
	i.Set = true

	if string(data) == "null" {
		i.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &i.Value); err != nil {
		return err
	}

	i.Valid = true

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Opt[T]
func (i *Opt[T]) UnmarshalYAML(value *yaml.Node) error {
	i.Set = true
	if value.Kind == yaml.ScalarNode && value.Value == "null" {
		i.Valid = false
		return nil
	}
	var v T
	if err := value.Decode(&v); err != nil {
		return err
	}
	i.Value = v
	i.Valid = true
	return nil
}

// MarshalYAML implements yaml.Marshaler for Opt[T]
func (i Opt[T]) MarshalYAML() (interface{}, error) {
	if !i.Set || !i.Valid {
		return nil, nil
	}
	return i.Value, nil
}

func (i Opt[T]) MarshalJSON() ([]byte, error) {
	if !i.Set || !i.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(i.Value)
}

// IsZero lets encoders drop fields that were never set.
func (i Opt[T]) IsZero() bool {
	return !i.Set
}
