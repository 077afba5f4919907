package ecs

import "iter"

// column stores the components of one type for one archetype. Slots are
// addressed by index and stay put until compact.
type column interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}

const blockSize = 64

type block[T any] struct {
	values [blockSize]T
	filled [blockSize]bool
}

// blockColumn keeps components in fixed size blocks so pointers handed out by
// Get survive appends. Freed slots are reused last-in first-out.
type blockColumn[T any] struct {
	blocks []*block[T]
	free   []int
	next   int
	live   int
}

func newBlockColumn[T any]() *blockColumn[T] {
	return &blockColumn[T]{}
}

func (c *blockColumn[T]) slot(index int) (*block[T], int) {
	if index < 0 || index >= c.next {
		return nil, 0
	}
	return c.blocks[index/blockSize], index % blockSize
}

// Append stores item, given as T or *T, and returns its index. Other types
// are rejected with -1.
func (c *blockColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(c.free); n > 0 {
		index = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		index = c.next
		c.next++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, new(block[T]))
		}
	}

	b, off := c.blocks[index/blockSize], index%blockSize
	b.values[off] = value
	b.filled[off] = true
	c.live++
	return index
}

// Get returns a *T for the slot, or nil when it is empty.
func (c *blockColumn[T]) Get(index int) any {
	b, off := c.slot(index)
	if b == nil || !b.filled[off] {
		return nil
	}
	return &b.values[off]
}

func (c *blockColumn[T]) Delete(index int) {
	b, off := c.slot(index)
	if b == nil || !b.filled[off] {
		return
	}
	var zero T
	b.values[off] = zero
	b.filled[off] = false
	c.free = append(c.free, index)
	c.live--
}

func (c *blockColumn[T]) Has(index int) bool {
	b, off := c.slot(index)
	return b != nil && b.filled[off]
}

func (c *blockColumn[T]) Len() int {
	return c.live
}

// Compact moves live components to the front and returns old index to new index.
func (c *blockColumn[T]) Compact() map[int]int {
	moved := make(map[int]int, c.live)
	blocks := make([]*block[T], 0, (c.live+blockSize-1)/blockSize)

	write := 0
	for read := range c.Iter() {
		if write/blockSize >= len(blocks) {
			blocks = append(blocks, new(block[T]))
		}
		src, srcOff := c.slot(read)
		dst, dstOff := blocks[write/blockSize], write%blockSize
		dst.values[dstOff] = src.values[srcOff]
		dst.filled[dstOff] = true
		moved[read] = write
		write++
	}

	c.blocks = blocks
	c.free = nil
	c.next = write
	return moved
}

func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.next; i++ {
			b := c.blocks[i/blockSize]
			if b.filled[i%blockSize] && !yield(i) {
				return
			}
		}
	}
}
