package ecs

import (
	"slices"

	"github.com/rs/zerolog"
)

// World owns all storage of one ECS instance: the component registry, every
// table, the entity index and the event queues.
type World struct {
	registry  *ComponentRegistry
	tables    []*Table
	byMask    map[Archetype]*Table
	entities  *Entities
	events    *Events
	listeners []func(*Table)

	logger zerolog.Logger
	strict bool
}

// NewWorld creates an empty world over the given registry.
func NewWorld(registry *ComponentRegistry, opts ...Option) *World {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	w := &World{
		registry: registry,
		byMask:   make(map[Archetype]*Table),
		events:   NewEvents(),
		logger:   o.logger,
		strict:   o.strict,
	}
	w.entities = newEntities(w, o.capacity)
	return w
}

// Registry returns the component registry the world was created with.
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Entities returns the entity index.
func (w *World) Entities() *Entities {
	return w.entities
}

// Events returns the world's event queues.
func (w *World) Events() *Events {
	return w.events
}

// Logger returns the logger configured with WithLogger.
func (w *World) Logger() zerolog.Logger {
	return w.logger
}

// Tables returns every table in creation order.
func (w *World) Tables() []*Table {
	return w.tables
}

// Spawn queues a new entity with the given components.
func (w *World) Spawn(components ...any) EntityId {
	return w.entities.Spawn(components...)
}

// Update applies all queued structural changes.
func (w *World) Update() {
	w.entities.Update()
}

// OnCreateTable registers fn to be called with every table created from now on.
func (w *World) OnCreateTable(fn func(*Table)) {
	w.listeners = append(w.listeners, fn)
}

// TableFor returns the table for exactly the given component types plus
// EntityId, creating it if needed.
func (w *World) TableFor(types ...ComponentId) *Table {
	ids := append([]ComponentId{entityComponentId}, types...)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	return w.tableFor(archetypeOf(ids), func() []ComponentId { return ids })
}

// tableFor looks up the table for mask. types is only called when the table
// has to be created and must return the sorted ids of mask.
func (w *World) tableFor(mask Archetype, types func() []ComponentId) *Table {
	if table, ok := w.byMask[mask]; ok {
		return table
	}

	table := NewTable(w.registry, types(), mask, uint32(len(w.tables)))
	w.tables = append(w.tables, table)
	w.byMask[mask] = table

	w.logger.Debug().
		Uint32("table", table.id).
		Int("components", len(table.types)).
		Int("columns", len(table.columns)).
		Msg("table created")

	for _, fn := range w.listeners {
		fn(table)
	}
	return table
}

// assert reports a diagnostic failure: logged always, fatal in strict mode.
func (w *World) assert(ok bool, msg string) {
	if ok {
		return
	}
	w.logger.Error().Msg(msg)
	if w.strict {
		panic("ecs: " + msg)
	}
}

// Get returns a pointer to the T component of entity id, or nil if the entity
// is not placed in a table or does not carry T. Tag components yield a shared
// non-nil marker.
func Get[T any](w *World, id EntityId) *T {
	table, row, ok := w.entities.Location(id)
	if !ok {
		return nil
	}
	comp := ID[T](w.registry)
	if !hasComponent(table.mask, comp) {
		return nil
	}
	if w.registry.IsTag(comp) {
		return (*T)(w.registry.marker(comp))
	}
	return (*T)(table.columns[table.columnIndex(comp)].pointer(row))
}

// Has reports whether entity id currently carries T.
func Has[T any](w *World, id EntityId) bool {
	table, _, ok := w.entities.Location(id)
	return ok && hasComponent(table.mask, ID[T](w.registry))
}
