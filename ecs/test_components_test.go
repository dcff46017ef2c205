package ecs_test

import "github.com/plus3/strata/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Vec3 struct {
	X, Y, Z float64
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

// Custom primitive types for testing non-struct components
type Score int32

// Zero-sized tag components
type ZST struct{}
type Frozen struct{}

// Event types
type LevelUpEvent struct {
	Level int
}
type LevelDownEvent struct{}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Vec3](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[ZST](registry)
	ecs.RegisterComponent[Frozen](registry)
	return registry
}

func newTestWorld() *ecs.World {
	return ecs.NewWorld(newTestRegistry(), ecs.WithStrictAssertions(true))
}
