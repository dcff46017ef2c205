/*
Package ecs is the storage and query core of an Entity-Component-System.

Entities are grouped by archetype, the exact set of component types they
carry. Each archetype has one Table that stores its data-bearing components
column by column; zero-sized tag components only take part in the archetype
mask.

Structural changes (spawn, insert, remove, despawn) are buffered by Entities
and applied in a single Update pass that migrates rows between tables. Queries
match tables once, when they are created or when a new table appears, and
iterate the matched tables' columns in lockstep.

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Frozen](registry) // struct{}: a tag
	world := ecs.NewWorld(registry)

	moving := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](world, ecs.Without(ecs.ID[Frozen](registry)))

	world.Spawn(Position{}, Velocity{DX: 1})
	world.Update()

	for item := range moving.Values() {
		item.Position.X += item.Velocity.DX
	}

Events are per-type queues owned by the world. Writers append, readers
iterate, and ClearAllEventQueues empties every queue once per cycle.
*/
package ecs
