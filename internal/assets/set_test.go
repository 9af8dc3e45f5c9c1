package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSet(t *testing.T) {
	s := NewIDSet("a", "b", "a")
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, 1, s.Add("c", "b"))
	assert.True(t, s.Has("c"))
	assert.False(t, s.Has("d"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Slice())
}

func TestIDSet_SliceIsACopy(t *testing.T) {
	s := NewIDSet("a")
	out := s.Slice()
	out[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.Slice())
}

func TestIDSet_ZeroValue(t *testing.T) {
	var s IDSet
	assert.False(t, s.Has("x"))
	assert.Equal(t, 1, s.Add("x"))
	assert.Equal(t, []string{"x"}, s.Slice())
}

func TestIDSet_Difference(t *testing.T) {
	before := NewIDSet("a", "b", "c")
	after := NewIDSet("b", "d")

	assert.Equal(t, []string{"a", "c"}, before.Difference(after))
	assert.Equal(t, []string{"d"}, after.Difference(before))
	assert.Equal(t, []string{"a", "b", "c"}, before.Difference(nil))
	assert.Empty(t, NewIDSet().Difference(before))
}
