package ecs

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct{ V int }

func TestBlockColumnAppendGet(t *testing.T) {
	c := newBlockColumn[cell]()
	for i := range blockSize + 3 {
		assert.Equal(t, i, c.Append(cell{V: i}))
	}
	assert.Equal(t, blockSize+3, c.Len())
	assert.Equal(t, &cell{V: blockSize + 1}, c.Get(blockSize+1))

	assert.Equal(t, blockSize+3, c.Append(&cell{V: 99}), "pointer input is copied")
	assert.Equal(t, -1, c.Append("nope"))
	assert.Nil(t, c.Get(-1))
	assert.Nil(t, c.Get(1000))
}

func TestBlockColumnPointersSurviveGrowth(t *testing.T) {
	c := newBlockColumn[cell]()
	c.Append(cell{V: 1})
	first := c.Get(0).(*cell)
	for range blockSize * 3 {
		c.Append(cell{})
	}
	first.V = 42
	assert.Equal(t, 42, c.Get(0).(*cell).V)
}

func TestBlockColumnDeleteReusesSlots(t *testing.T) {
	c := newBlockColumn[cell]()
	for i := range 4 {
		c.Append(cell{V: i})
	}
	c.Delete(1)
	c.Delete(1)
	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Has(1))
	assert.Nil(t, c.Get(1))

	assert.Equal(t, 1, c.Append(cell{V: 7}))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 4, c.Append(cell{V: 8}))
}

func TestBlockColumnCompact(t *testing.T) {
	c := newBlockColumn[cell]()
	for i := range 6 {
		c.Append(cell{V: i})
	}
	c.Delete(0)
	c.Delete(3)

	moved := c.Compact()
	assert.Equal(t, map[int]int{1: 0, 2: 1, 4: 2, 5: 3}, moved)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []int{0, 1, 2, 3}, slices.Collect(c.Iter()))
	require.NotNil(t, c.Get(2))
	assert.Equal(t, 4, c.Get(2).(*cell).V)

	for range 4 {
		c.Delete(0)
		c.Compact()
	}
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, slices.Collect(c.Iter()))
	assert.Equal(t, 0, c.Append(cell{}))
}
