package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("a", 4)

	require.Equal(t, []string{"b", "a", "c"}, m.Keys())
	require.Equal(t, []int{1, 4, 3}, m.Values())
	require.Equal(t, 4, m.Value("a"))

	m.Delete("b")
	require.Equal(t, []string{"a", "c"}, m.Keys())
	require.False(t, m.Has("b"))

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
	}
	require.Equal(t, []string{"a", "c"}, seen)
}

func TestMapAllowsSetDuringIteration(t *testing.T) {
	var m Map[string, int]
	m.Set("x", 1)
	for k, v := range m.All() {
		m.Set(k+"_copy", v)
	}
	require.Equal(t, []string{"x", "x_copy"}, m.Keys())
}

func TestNilMap(t *testing.T) {
	var m *Map[string, int]
	require.Equal(t, 0, m.Len())
	require.Nil(t, m.Keys())
	_, ok := m.Get("a")
	require.False(t, ok)
}

func TestSet(t *testing.T) {
	s := NewSet("b", "a")
	require.True(t, s.Add("c"))
	require.False(t, s.Add("a"))
	require.Equal(t, []string{"b", "a", "c"}, s.Values())
	require.Equal(t, []string{"a", "b", "c"}, Sorted(s))
	require.Equal(t, 3, s.Len())
}

func TestMapMarshalJSON(t *testing.T) {
	m := NewMap[string, any]()
	m.Set("z", 1)
	m.Set("a", []string{"x"})

	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, `{"z":1,"a":["x"]}`, string(data))
}

func TestSetMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewSet("Pet", "Category"))
	require.NoError(t, err)
	require.Equal(t, `["Pet","Category"]`, string(data))

	data, err = json.Marshal(NewSet[string]())
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data))
}
