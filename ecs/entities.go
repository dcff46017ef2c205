package ecs

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

type entityRecord struct {
	generation uint32
	alive      bool
	// table is nil until the entity's spawn has been applied
	table *Table
	row   int
}

// Entities is the entity index: it maps every entity to its current table and
// row, and buffers structural changes until Update applies them.
type Entities struct {
	world   *World
	records []entityRecord
	free    []uint32

	changes   []pendingChange
	pending   *intmap.Map[uint32, int]
	despawned *roaring.Bitmap
}

func newEntities(world *World, capacity int) *Entities {
	return &Entities{
		world:     world,
		records:   make([]entityRecord, 0, capacity),
		pending:   intmap.New[uint32, int](256),
		despawned: roaring.New(),
	}
}

// Spawn reserves a new entity carrying the given components. The entity is
// placed into its table by the next Update.
func (en *Entities) Spawn(components ...any) EntityId {
	var index uint32
	if n := len(en.free); n > 0 {
		index = en.free[n-1]
		en.free = en.free[:n-1]
	} else {
		index = uint32(len(en.records))
		en.records = append(en.records, entityRecord{generation: 1})
	}
	rec := &en.records[index]
	rec.alive = true
	rec.table = nil
	rec.row = 0

	id := NewEntityId(index, rec.generation)
	change := en.changeFor(id)
	change.spawn = true
	for _, comp := range components {
		change.insert(en.world.registry.ValueOf(comp))
	}
	return id
}

// Insert queues adding components to an entity. Inserting a component the
// entity already has overwrites its value without migrating the entity.
func (en *Entities) Insert(id EntityId, components ...any) error {
	if err := en.validate(id); err != nil {
		return eris.Wrapf(err, "insert into entity %v", id)
	}
	change := en.changeFor(id)
	for _, comp := range components {
		change.insert(en.world.registry.ValueOf(comp))
	}
	return nil
}

// Remove queues removing component types from an entity. Removing a type the
// entity does not have is a no-op.
func (en *Entities) Remove(id EntityId, types ...ComponentId) error {
	if err := en.validate(id); err != nil {
		return eris.Wrapf(err, "remove from entity %v", id)
	}
	change := en.changeFor(id)
	for _, typ := range types {
		if typ == entityComponentId {
			continue
		}
		change.remove(typ)
	}
	return nil
}

// Despawn queues destroying an entity.
func (en *Entities) Despawn(id EntityId) error {
	if err := en.validate(id); err != nil {
		return eris.Wrapf(err, "despawn entity %v", id)
	}
	en.changeFor(id).despawn = true
	en.despawned.Add(id.Index())
	return nil
}

// IsAlive reports whether id names an entity that has been spawned and not
// despawned. Entities with a pending despawn are still alive until Update.
func (en *Entities) IsAlive(id EntityId) bool {
	return en.validate(id) == nil
}

// IsDespawning reports whether a despawn is queued for id.
func (en *Entities) IsDespawning(id EntityId) bool {
	return en.IsAlive(id) && en.despawned.Contains(id.Index())
}

// Location returns the table and row currently holding id. It returns false
// for dead entities and for spawns that have not been applied yet.
func (en *Entities) Location(id EntityId) (*Table, int, bool) {
	if !en.IsAlive(id) {
		return nil, 0, false
	}
	rec := en.records[id.Index()]
	if rec.table == nil {
		return nil, 0, false
	}
	return rec.table, rec.row, true
}

// Len returns the number of live entities, pending spawns included.
func (en *Entities) Len() int {
	return len(en.records) - len(en.free)
}

// Pending returns the number of entities with queued structural changes.
func (en *Entities) Pending() int {
	return len(en.changes)
}

// Update applies every queued change in the order entities were first
// touched, migrating rows between tables.
func (en *Entities) Update() {
	if len(en.changes) == 0 {
		return
	}

	var migrations, despawns int
	for i := range en.changes {
		change := &en.changes[i]
		index := change.entity.Index()
		rec := &en.records[index]

		if change.despawn {
			if rec.table != nil {
				en.detach(rec)
			}
			en.release(index)
			despawns++
			continue
		}
		if en.apply(change, rec) {
			migrations++
		}
	}

	en.world.logger.Debug().
		Int("changes", len(en.changes)).
		Int("migrations", migrations).
		Int("despawns", despawns).
		Msg("entity updates applied")

	clear(en.changes)
	en.changes = en.changes[:0]
	en.pending.Clear()
	en.despawned.Clear()
}

// ApplyEntityUpdates flushes all buffered structural changes. It is meant to
// run once per cycle, before queries are iterated.
func ApplyEntityUpdates(entities *Entities) {
	entities.Update()
}

func (en *Entities) validate(id EntityId) error {
	index := id.Index()
	if int(index) >= len(en.records) {
		return ErrEntityNotFound
	}
	rec := en.records[index]
	if !rec.alive || rec.generation != id.Generation() {
		return ErrStaleEntity
	}
	return nil
}

func (en *Entities) changeFor(id EntityId) *pendingChange {
	if idx, ok := en.pending.Get(id.Index()); ok {
		return &en.changes[idx]
	}
	en.pending.Put(id.Index(), len(en.changes))
	en.changes = append(en.changes, pendingChange{entity: id})
	return &en.changes[len(en.changes)-1]
}

// apply resolves the destination archetype of one entity and moves it there.
// It reports whether a row was pushed or migrated.
func (en *Entities) apply(change *pendingChange, rec *entityRecord) bool {
	var current Archetype
	var types []ComponentId
	if rec.table != nil {
		current = rec.table.mask
		types = rec.table.types
	} else {
		current = archetypeOf([]ComponentId{entityComponentId})
		types = []ComponentId{entityComponentId}
	}

	next := current
	var added []ComponentValue
	for _, v := range change.inserts {
		if hasComponent(current, v.Id) {
			if rec.table != nil && rec.table.HasColumn(v.Id) {
				rec.table.Set(rec.row, v)
			}
			continue
		}
		next.Mark(uint32(v.Id))
		added = append(added, v)
	}
	for _, id := range change.removes {
		next.Unmark(uint32(id))
	}

	if rec.table != nil && next == current {
		return false
	}

	target := en.world.tableFor(next, func() []ComponentId {
		return mergeTypes(types, added, change.removes)
	})

	if rec.table == nil {
		values := make([]ComponentValue, 0, len(added)+1)
		values = append(values, ComponentValue{Id: entityComponentId, Value: change.entity})
		values = append(values, added...)
		rec.table = target
		rec.row = target.Push(values)
		return true
	}

	row := rec.row
	dest := target.Len()
	if moved, ok := rec.table.Move(row, target, added); ok {
		en.records[moved.Index()].row = row
	}
	rec.table = target
	rec.row = dest
	return true
}

// detach removes the entity's row from its table.
func (en *Entities) detach(rec *entityRecord) {
	if moved, ok := rec.table.Move(rec.row, nil, nil); ok {
		en.records[moved.Index()].row = rec.row
	}
	rec.table = nil
}

func (en *Entities) release(index uint32) {
	rec := &en.records[index]
	rec.alive = false
	rec.generation++
	rec.table = nil
	en.free = append(en.free, index)
}

// mergeTypes returns the sorted component set types ∪ added − removed.
func mergeTypes(types []ComponentId, added []ComponentValue, removed []ComponentId) []ComponentId {
	out := make([]ComponentId, 0, len(types)+len(added))
	for _, typ := range types {
		if !slices.Contains(removed, typ) {
			out = append(out, typ)
		}
	}
	for _, v := range added {
		if !slices.Contains(removed, v.Id) {
			out = append(out, v.Id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
