package ecs

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Column is a read view over one table column.
type Column interface {
	// Len returns the number of rows in the column.
	Len() int
	// Get returns a pointer to the value at row, boxed in an interface.
	Get(row int) any
}

// column is the type-erased storage behind a table column.
type column interface {
	Column
	push(item any)
	set(row int, item any)
	appendTo(row int, dst column)
	swapRemove(row int)
	pointer(row int) unsafe.Pointer
}

// typedColumn stores the values of one component type densely, one per row.
type typedColumn[T any] struct {
	data []T
}

func (c *typedColumn[T]) Len() int {
	return len(c.data)
}

func (c *typedColumn[T]) Get(row int) any {
	return &c.data[row]
}

// push appends an item given either as T or *T.
func (c *typedColumn[T]) push(item any) {
	c.data = append(c.data, unbox[T](item))
}

func (c *typedColumn[T]) set(row int, item any) {
	c.data[row] = unbox[T](item)
}

// appendTo copies the value at row onto the end of dst, which must hold the
// same component type.
func (c *typedColumn[T]) appendTo(row int, dst column) {
	d := dst.(*typedColumn[T])
	d.data = append(d.data, c.data[row])
}

// swapRemove moves the last value into row and shrinks the column by one.
func (c *typedColumn[T]) swapRemove(row int) {
	last := len(c.data) - 1
	c.data[row] = c.data[last]
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
}

func (c *typedColumn[T]) pointer(row int) unsafe.Pointer {
	return unsafe.Pointer(&c.data[row])
}

func unbox[T any](item any) T {
	switch v := item.(type) {
	case T:
		return v
	case *T:
		return *v
	}
	panic(fmt.Sprintf("ecs: column of %s cannot hold %T", reflect.TypeFor[T](), item))
}
