package ecs

import (
	"fmt"
	"slices"
)

// Table stores every entity of one archetype. Entities are rows, data-bearing
// component types are columns; tags only appear in the mask.
type Table struct {
	id        uint32
	mask      Archetype
	types     []ComponentId
	columnIds []ComponentId
	columns   []column
	// slots maps a ComponentId to its column index, -1 when not stored
	slots []int
	// length is tracked separately so pure-tag tables still have one
	length int
}

// NewTable creates an empty table for the given component types. Tag types
// are filtered out; the remaining ids, in the order given, are the table's
// permanent column order.
func NewTable(registry *ComponentRegistry, types []ComponentId, mask Archetype, id uint32) *Table {
	t := &Table{
		id:    id,
		mask:  mask,
		types: slices.Clone(types),
	}
	if len(types) > 0 {
		t.slots = make([]int, slices.Max(types)+1)
		for i := range t.slots {
			t.slots[i] = -1
		}
	}
	for _, typ := range types {
		if registry.IsTag(typ) {
			continue
		}
		t.slots[typ] = len(t.columns)
		t.columnIds = append(t.columnIds, typ)
		t.columns = append(t.columns, registry.newColumn(typ))
	}
	return t
}

// Id returns the table's creation-order identifier.
func (t *Table) Id() uint32 {
	return t.id
}

// Mask returns the archetype of every entity in this table.
func (t *Table) Mask() Archetype {
	return t.mask
}

// Components returns every component type of the archetype, tags included.
func (t *Table) Components() []ComponentId {
	return t.types
}

// Len returns the number of entities in this table.
func (t *Table) Len() int {
	return t.length
}

// HasColumn reports whether the table stores values for id. Always false for
// tag components.
func (t *Table) HasColumn(id ComponentId) bool {
	return t.columnIndex(id) >= 0
}

// Column returns the column for id. Check for presence with HasColumn first;
// Column panics if the table does not store id.
func (t *Table) Column(id ComponentId) Column {
	idx := t.columnIndex(id)
	if idx < 0 {
		panic(fmt.Sprintf("ecs: table %d has no column for component %d", t.id, id))
	}
	return t.columns[idx]
}

// ColumnValues returns the backing slice of the column for id. The slice is
// only valid until the next structural update.
func ColumnValues[T any](t *Table, id ComponentId) []T {
	return t.Column(id).(*typedColumn[T]).data
}

// Entities returns the entity stored in each row.
func (t *Table) Entities() []EntityId {
	idx := t.columnIndex(entityComponentId)
	if idx < 0 {
		return nil
	}
	return t.columns[idx].(*typedColumn[EntityId]).data
}

// Move moves the entity at row and all its associated data into target.
// Values whose type target does not store are dropped; added values are
// appended to target's matching columns. A nil target drops everything.
//
// Removal swaps the last row into row. Move returns the entity that now
// occupies row, or false when row was the last row and nothing was swapped in.
// The caller owns updating both entities' locations; the moved entity's new
// row is target's length before the call.
func (t *Table) Move(row int, target *Table, added []ComponentValue) (EntityId, bool) {
	for i, col := range t.columns {
		if target != nil {
			if j := target.columnIndex(t.columnIds[i]); j >= 0 {
				col.appendTo(row, target.columns[j])
			}
		}
		col.swapRemove(row)
	}
	t.length--

	if target != nil {
		for _, v := range added {
			if j := target.columnIndex(v.Id); j >= 0 {
				target.columns[j].push(v.Value)
			}
		}
		target.length++
	}

	if row >= t.length {
		return 0, false
	}
	entities := t.Entities()
	if entities == nil {
		return 0, false
	}
	return entities[row], true
}

// Push appends a row built from values and returns its index. values must
// cover every column of the table.
func (t *Table) Push(values []ComponentValue) int {
	for _, v := range values {
		if j := t.columnIndex(v.Id); j >= 0 {
			t.columns[j].push(v.Value)
		}
	}
	t.length++
	return t.length - 1
}

// Set overwrites the value stored for v.Id at row.
func (t *Table) Set(row int, v ComponentValue) {
	idx := t.columnIndex(v.Id)
	if idx < 0 {
		panic(fmt.Sprintf("ecs: table %d has no column for component %d", t.id, v.Id))
	}
	t.columns[idx].set(row, v.Value)
}

func (t *Table) columnIndex(id ComponentId) int {
	if int(id) >= len(t.slots) {
		return -1
	}
	return t.slots[id]
}
