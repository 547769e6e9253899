// Package ordered provides insertion-ordered map and set types.
package ordered

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// Map is a map that iterates in first-insertion order.
// The zero value is ready to use.
type Map[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

// Set stores v under k. Replacing an existing key keeps its position.
func (m *Map[K, V]) Set(k K, v V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *Map[K, V]) Get(k K) (V, bool) {
	if m == nil || m.values == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[k]
	return v, ok
}

// Value returns the value for k or the zero value.
func (m *Map[K, V]) Value(k K) V {
	v, _ := m.Get(k)
	return v
}

func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.Get(k)
	return ok
}

func (m *Map[K, V]) Delete(k K) {
	if m == nil || m.values == nil {
		return
	}
	if _, ok := m.values[k]; !ok {
		return
	}
	delete(m.values, k)
	m.keys = slices.DeleteFunc(m.keys, func(e K) bool { return e == k })
}

func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

func (m *Map[K, V]) Values() []V {
	if m == nil {
		return nil
	}
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// All iterates over key/value pairs in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, k := range slices.Clone(m.keys) {
			v, ok := m.values[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fmt.Sprint(k))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding %v: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Set is a set that iterates in first-insertion order.
type Set[T comparable] struct {
	m Map[T, struct{}]
}

func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item and reports whether it was new.
func (s *Set[T]) Add(item T) bool {
	if s.m.Has(item) {
		return false
	}
	s.m.Set(item, struct{}{})
	return true
}

func (s *Set[T]) Has(item T) bool {
	if s == nil {
		return false
	}
	return s.m.Has(item)
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

func (s *Set[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.m.Keys()
}

// MarshalJSON encodes the set as an array in insertion order.
func (s *Set[T]) MarshalJSON() ([]byte, error) {
	values := s.Values()
	if values == nil {
		values = []T{}
	}
	return json.Marshal(values)
}

// Sorted returns the members of an ordered set in ascending order.
func Sorted[T cmp.Ordered](s *Set[T]) []T {
	out := s.Values()
	slices.Sort(out)
	return out
}
