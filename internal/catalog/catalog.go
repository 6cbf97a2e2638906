// Package catalog provides a generic in-memory lookup over a small,
// closed set of reference records loaded once at startup.
package catalog

import (
	"fmt"

	"cpiq/internal/model"
)

// Catalog indexes a static record set by id and by exact name. It is
// read-only after construction.
type Catalog[T any] struct {
	name   string
	order  []T
	byID   map[string]T
	byName map[string]T
}

// New builds a catalog from rows, keyed by the given id and name
// accessors. Row order is preserved by All.
func New[T any](name string, rows []T, id, displayName func(T) string) *Catalog[T] {
	c := &Catalog[T]{
		name:   name,
		order:  rows,
		byID:   make(map[string]T, len(rows)),
		byName: make(map[string]T, len(rows)),
	}
	for _, row := range rows {
		c.byID[id(row)] = row
		c.byName[displayName(row)] = row
	}
	return c
}

// ByID returns the record with the given id.
func (c *Catalog[T]) ByID(id string) (T, error) {
	row, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: no record with id %q: %w", c.name, id, model.ErrNotFound)
	}
	return row, nil
}

// ByName returns the record with the given exact name.
func (c *Catalog[T]) ByName(name string) (T, error) {
	row, ok := c.byName[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: no record named %q: %w", c.name, name, model.ErrNotFound)
	}
	return row, nil
}

// All returns the records in load order.
func (c *Catalog[T]) All() []T {
	return c.order
}

// Len reports the number of records.
func (c *Catalog[T]) Len() int {
	return len(c.order)
}
