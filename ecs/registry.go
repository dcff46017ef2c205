package ecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// ComponentId is the dense identifier the registry assigns to a component type.
// It doubles as the bit position of that type in archetype masks.
type ComponentId uint32

// MaxComponentTypes is the number of distinct component types a registry can
// hold, EntityId included. It follows the archetype mask width: 64 by default,
// raised by building with the m256, m512 or m1024 tag.
const MaxComponentTypes = mask.MaxBits

// entityComponentId is reserved for EntityId, which every registry registers first.
const entityComponentId ComponentId = 0

// ComponentValue pairs a component instance with the id of its type.
type ComponentValue struct {
	Id    ComponentId
	Value any
}

type componentInfo struct {
	typ       reflect.Type
	tag       bool
	newColumn func() column
	// marker is handed out as the projection of a tag component
	marker unsafe.Pointer
}

// ComponentRegistry manages component type registration for a World.
// Each World has its own ComponentRegistry, allowing multiple independent
// worlds to coexist without interference.
type ComponentRegistry struct {
	ids   map[reflect.Type]ComponentId
	infos []componentInfo
}

// NewComponentRegistry creates a new component registry with EntityId already
// registered under id 0.
func NewComponentRegistry() *ComponentRegistry {
	r := &ComponentRegistry{
		ids: make(map[reflect.Type]ComponentId),
	}
	RegisterComponent[EntityId](r)
	return r
}

// RegisterComponent registers a component type with the given registry and
// returns its id. Registering the same type twice returns the existing id.
// Zero-sized types are registered as tags: they take part in archetype masks
// but never get a column.
func RegisterComponent[T any](r *ComponentRegistry) ComponentId {
	t := reflect.TypeFor[T]()
	if id, ok := r.ids[t]; ok {
		return id
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("ecs: component type " + t.String() + " must be a value type")
	}
	if len(r.infos) >= MaxComponentTypes {
		panic(fmt.Sprintf("ecs: cannot register %s: limit of %d component types reached", t, MaxComponentTypes))
	}

	info := componentInfo{typ: t}
	if t.Size() == 0 {
		info.tag = true
		info.marker = unsafe.Pointer(new(T))
	} else {
		info.newColumn = func() column {
			return &typedColumn[T]{}
		}
	}

	id := ComponentId(len(r.infos))
	r.ids[t] = id
	r.infos = append(r.infos, info)
	return id
}

// ID returns the id of a registered component type. It panics if T has not
// been registered.
func ID[T any](r *ComponentRegistry) ComponentId {
	t := reflect.TypeFor[T]()
	id, ok := r.ids[t]
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return id
}

// Lookup returns the id of t, if registered.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentId, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// IsTag reports whether id names a zero-sized marker type.
func (r *ComponentRegistry) IsTag(id ComponentId) bool {
	return r.infos[id].tag
}

// Type returns the reflect.Type registered under id.
func (r *ComponentRegistry) Type(id ComponentId) reflect.Type {
	return r.infos[id].typ
}

// Len returns the number of registered component types, EntityId included.
func (r *ComponentRegistry) Len() int {
	return len(r.infos)
}

// Archetype returns the mask with the bit of every given id set.
func (r *ComponentRegistry) Archetype(ids ...ComponentId) Archetype {
	return archetypeOf(ids)
}

// ValueOf resolves the component id of an instance. Pointers are dereferenced
// to their element type, mirroring how columns accept both T and *T.
func (r *ComponentRegistry) ValueOf(component any) ComponentValue {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("ecs: nil component")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	id, ok := r.ids[t]
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return ComponentValue{Id: id, Value: component}
}

func (r *ComponentRegistry) marker(id ComponentId) unsafe.Pointer {
	return r.infos[id].marker
}

func (r *ComponentRegistry) newColumn(id ComponentId) column {
	return r.infos[id].newColumn()
}
