package localstore

import "github.com/dalemusser/photoshare/internal/domain/apperr"

// collection keeps records in insertion order with an id index. It is not
// safe for concurrent use; Store holds the lock.
type collection[T any] struct {
	items []T
	pos   map[string]int
	id    func(T) string
	clone func(T) T
}

func newCollection[T any](id func(T) string, clone func(T) T, seed []T) *collection[T] {
	c := &collection[T]{id: id, clone: clone}
	c.load(seed)
	return c
}

func (c *collection[T]) load(seed []T) {
	c.items = make([]T, 0, len(seed))
	c.pos = make(map[string]int, len(seed))
	for _, v := range seed {
		c.pos[c.id(v)] = len(c.items)
		c.items = append(c.items, c.clone(v))
	}
}

func (c *collection[T]) list() []T {
	out := make([]T, len(c.items))
	for i, v := range c.items {
		out[i] = c.clone(v)
	}
	return out
}

func (c *collection[T]) get(id string) *T {
	i, ok := c.pos[id]
	if !ok {
		return nil
	}
	v := c.clone(c.items[i])
	return &v
}

func (c *collection[T]) insert(v T) error {
	id := c.id(v)
	if _, ok := c.pos[id]; ok {
		return apperr.ErrDuplicate
	}
	c.pos[id] = len(c.items)
	c.items = append(c.items, c.clone(v))
	return nil
}

func (c *collection[T]) replace(v T) error {
	i, ok := c.pos[c.id(v)]
	if !ok {
		return apperr.ErrNotFound
	}
	c.items[i] = c.clone(v)
	return nil
}

func (c *collection[T]) filter(keep func(T) bool) []T {
	var out []T
	for _, v := range c.items {
		if keep(v) {
			out = append(out, c.clone(v))
		}
	}
	return out
}
