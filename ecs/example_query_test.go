package ecs_test

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/plus3/strata/ecs"
)

// ExampleQuery moves every entity that has a velocity and is not frozen.
// Queries keep their matched tables up to date as the world grows, so one
// query can be created up front and iterated every cycle.
func ExampleQuery() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Frozen](registry)
	world := ecs.NewWorld(registry)

	moving := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](world, ecs.Without(ecs.ID[Frozen](registry)))

	world.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 0})
	world.Spawn(Position{X: 10, Y: 10}, Velocity{DX: 0, DY: 1})
	world.Spawn(Position{X: 20, Y: 20}, Velocity{DX: -1, DY: -1}, Frozen{})
	world.Update()

	for item := range moving.Values() {
		item.Position.X += item.Velocity.DX
		item.Position.Y += item.Velocity.DY
	}

	var positions []Position
	for pos := range ecs.NewQuery[*Position](world).Values() {
		positions = append(positions, *pos)
	}
	slices.SortFunc(positions, func(a, b Position) int { return cmp.Compare(a.X, b.X) })

	for _, pos := range positions {
		fmt.Printf("(%.0f, %.0f)\n", pos.X, pos.Y)
	}

	// Output:
	// (1, 0)
	// (10, 11)
	// (20, 20)
}

// ExampleMaybe iterates entities whether or not they carry a component.
func ExampleMaybe() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	world := ecs.NewWorld(registry)

	world.Spawn(Name{Value: "wall"})
	world.Spawn(Name{Value: "orc"}, Health{Current: 7, Max: 10})
	world.Update()

	query := ecs.NewQuery[struct {
		*Name
		Health *Health `ecs:"optional"`
	}](world)

	for row := range query.Values() {
		if row.Health == nil {
			fmt.Printf("%s: indestructible\n", row.Name.Value)
			continue
		}
		fmt.Printf("%s: %d/%d\n", row.Name.Value, row.Health.Current, row.Health.Max)
	}

	// Output:
	// wall: indestructible
	// orc: 7/10
}

// ExampleEventWriter shows a cycle of writing, reading and sweeping events.
func ExampleEventWriter() {
	world := ecs.NewWorld(ecs.NewComponentRegistry())
	levelUps := ecs.Writer[LevelUpEvent](world.Events())

	levelUps.Create(LevelUpEvent{Level: 2}).Create(LevelUpEvent{Level: 3})

	for ev := range ecs.Reader[LevelUpEvent](world.Events()).All() {
		fmt.Println("reached level", ev.Level)
	}

	ecs.ClearAllEventQueues(world.Events())
	fmt.Println("pending:", levelUps.Len())

	// Output:
	// reached level 2
	// reached level 3
	// pending: 0
}

// ExampleEntities_Update shows that structural changes only take effect once
// the buffered changes are applied.
func ExampleEntities_Update() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Health](registry)
	world := ecs.NewWorld(registry)

	id := world.Spawn(Health{Current: 3, Max: 3})
	fmt.Println("before update:", ecs.Has[Health](world, id))

	world.Update()
	fmt.Println("after update:", ecs.Has[Health](world, id))

	_ = world.Entities().Despawn(id)
	world.Update()
	fmt.Println("alive:", world.Entities().IsAlive(id))

	// Output:
	// before update: false
	// after update: true
	// alive: false
}
