package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
)

const (
	slotAbsent = -1
	slotMarker = -2
)

type accessor struct {
	id       ComponentId
	optional bool
	offset   uintptr
}

// Maybe projects a component that may or may not be present. Value is nil
// for entities whose table does not store C.
type Maybe[C any] struct {
	Value *C `ecs:"optional"`
}

// Query is a live view over every table matching a component signature and a
// filter. The signature comes from T, which is either a pointer to a single
// component type or a struct whose fields are pointers to component types.
// Embedded fields are always required; named fields can be marked as optional
// using the `ecs:"optional"` struct tag.
//
// Table membership is decided once per table, when the query is created and
// whenever the world creates a new table afterwards.
type Query[T any] struct {
	world      *World
	accessors  []accessor
	required   Archetype
	terms      []FilterTerm
	impossible bool

	tables  []*Table
	slots   [][]int
	matched *roaring.Bitmap
}

// NewQuery creates a query over world. Multiple filters are combined with And.
func NewQuery[T any](world *World, filters ...Filter) *Query[T] {
	q := &Query[T]{
		world:   world,
		matched: roaring.New(),
	}

	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Pointer:
		q.accessors = append(q.accessors, accessor{id: q.lookup(t.Elem())})
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Type.Kind() != reflect.Pointer {
				panic("ecs: query struct field " + field.Name + " must be a pointer type")
			}

			// Embedded fields are always required
			optional := false
			if !field.Anonymous {
				switch tag := field.Tag.Get("ecs"); tag {
				case "":
				case "optional":
					optional = true
				default:
					panic("ecs: invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
			q.accessors = append(q.accessors, accessor{
				id:       q.lookup(field.Type.Elem()),
				optional: optional,
				offset:   field.Offset,
			})
		}
	default:
		panic("ecs: query type parameter must be a pointer or a struct of pointers, got " + t.String())
	}

	for _, a := range q.accessors {
		if !a.optional {
			q.required.Mark(uint32(a.id))
		}
	}

	filter := All()
	if len(filters) == 1 {
		filter = filters[0]
	} else if len(filters) > 1 {
		filter = And(filters...)
	}
	q.terms = Terms(filter)
	q.impossible = Impossible(q.terms)
	world.assert(!q.impossible, fmt.Sprintf("impossible query %s - cannot match any entities", t))

	for _, table := range world.tables {
		q.consider(table)
	}
	world.OnCreateTable(q.consider)
	return q
}

func (q *Query[T]) lookup(t reflect.Type) ComponentId {
	id, ok := q.world.registry.Lookup(t)
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return id
}

// consider adds table to the matched set if it carries every required
// accessor type and satisfies at least one filter term.
func (q *Query[T]) consider(table *Table) {
	if !table.mask.ContainsAll(q.required) || !MatchesAny(q.terms, table.mask) {
		return
	}

	slots := make([]int, len(q.accessors))
	for i, a := range q.accessors {
		switch {
		case table.HasColumn(a.id):
			slots[i] = table.columnIndex(a.id)
		case hasComponent(table.mask, a.id):
			slots[i] = slotMarker
		default:
			slots[i] = slotAbsent
		}
	}

	q.tables = append(q.tables, table)
	q.slots = append(q.slots, slots)
	q.matched.Add(table.id)
}

// Len returns the number of entities across all matched tables.
func (q *Query[T]) Len() int {
	n := 0
	for _, table := range q.tables {
		n += table.length
	}
	return n
}

// Tables returns the matched tables in creation order.
func (q *Query[T]) Tables() []*Table {
	return q.tables
}

// Matches reports whether table is part of the query's matched set.
func (q *Query[T]) Matches(table *Table) bool {
	return q.matched.Contains(table.id)
}

// Terms returns the resolved filter alternatives.
func (q *Query[T]) Terms() []FilterTerm {
	return q.terms
}

// Impossible reports whether the query's filter can never match any table.
func (q *Query[T]) Impossible() bool {
	return q.impossible
}

// populate writes the pointers for row into the result at ptr.
func (q *Query[T]) populate(ptr unsafe.Pointer, table *Table, slots []int, row int) {
	for i, a := range q.accessors {
		fieldPtr := unsafe.Add(ptr, a.offset)
		switch slot := slots[i]; slot {
		case slotAbsent:
			*(*unsafe.Pointer)(fieldPtr) = nil
		case slotMarker:
			*(*unsafe.Pointer)(fieldPtr) = q.world.registry.marker(a.id)
		default:
			*(*unsafe.Pointer)(fieldPtr) = table.columns[slot].pointer(row)
		}
	}
}

// Iter returns an iterator over every matched entity, table by table in
// creation order and row by row within a table. Component pointers are valid
// until the next structural update.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		var result T
		resultPtr := unsafe.Pointer(&result)

		for i, table := range q.tables {
			entities := table.Entities()
			for row := 0; row < table.length; row++ {
				q.populate(resultPtr, table, q.slots[i], row)

				var id EntityId
				if entities != nil {
					id = entities[row]
				}
				if !yield(id, result) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over the projections only.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range q.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
