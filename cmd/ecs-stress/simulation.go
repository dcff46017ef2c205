package main

import (
	"math/rand/v2"

	"github.com/plus3/strata/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int
	Max     int
}

type Lifetime struct {
	Ticks int
}

// Tags
type Burning struct{}
type Frozen struct{}

type DamageEvent struct {
	Target ecs.EntityId
	Amount int
}

type DeathEvent struct {
	Entity ecs.EntityId
}

type mover struct {
	*Position
	*Velocity
}

type living struct {
	*ecs.EntityId
	*Health
}

type aging struct {
	*ecs.EntityId
	*Lifetime
}

// Counters accumulates what the simulation did over a run.
type Counters struct {
	Spawned   int
	Despawned int
	Inserts   int
	Removes   int
	Damage    int
}

// simulation drives a world with a fixed set of per-cycle steps: movement,
// burning, damage resolution, aging and random churn, followed by the entity
// update and the event sweep.
type simulation struct {
	world  *ecs.World
	rng    *rand.Rand
	logger zerolog.Logger
	target int

	movers  *ecs.Query[mover]
	burning *ecs.Query[living]
	aging   *ecs.Query[aging]
	all     *ecs.Query[*ecs.EntityId]

	damage ecs.EventWriter[DamageEvent]
	deaths ecs.EventWriter[DeathEvent]

	burningId  ecs.ComponentId
	frozenId   ecs.ComponentId
	velocityId ecs.ComponentId
	lifetimeId ecs.ComponentId

	counters Counters
}

func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Burning](registry)
	ecs.RegisterComponent[Frozen](registry)
	return registry
}

func newSimulation(world *ecs.World, seed uint64, target int, logger zerolog.Logger) *simulation {
	registry := world.Registry()
	s := &simulation{
		world:      world,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:     logger,
		target:     target,
		burningId:  ecs.ID[Burning](registry),
		frozenId:   ecs.ID[Frozen](registry),
		velocityId: ecs.ID[Velocity](registry),
		lifetimeId: ecs.ID[Lifetime](registry),
		damage:     ecs.Writer[DamageEvent](world.Events()),
		deaths:     ecs.Writer[DeathEvent](world.Events()),
	}

	s.movers = ecs.NewQuery[mover](world, ecs.Without(s.frozenId))
	s.burning = ecs.NewQuery[living](world, ecs.With(s.burningId))
	s.aging = ecs.NewQuery[aging](world)
	s.all = ecs.NewQuery[*ecs.EntityId](world)
	return s
}

// populate spawns entities until the world holds target of them.
func (s *simulation) populate() {
	for n := s.world.Entities().Len(); n < s.target; n++ {
		s.spawn()
	}
}

func (s *simulation) spawn() {
	components := []any{
		Position{X: s.rng.Float32() * 100, Y: s.rng.Float32() * 100},
	}
	if s.rng.IntN(4) != 0 {
		components = append(components, Velocity{DX: s.rng.Float32() - 0.5, DY: s.rng.Float32() - 0.5})
	}
	if s.rng.IntN(2) == 0 {
		hp := 10 + s.rng.IntN(90)
		components = append(components, Health{Current: hp, Max: hp})
	}
	if s.rng.IntN(3) == 0 {
		components = append(components, Lifetime{Ticks: 10 + s.rng.IntN(200)})
	}
	if s.rng.IntN(10) == 0 {
		components = append(components, Burning{})
	}
	s.world.Spawn(components...)
	s.counters.Spawned++
}

// Step runs one cycle.
func (s *simulation) Step(dt float32) {
	s.move(dt)
	s.burn()
	s.resolveDamage()
	s.reap()
	s.age()
	s.churn()
	s.populate()

	ecs.ApplyEntityUpdates(s.world.Entities())
	ecs.ClearAllEventQueues(s.world.Events())
}

func (s *simulation) move(dt float32) {
	for m := range s.movers.Values() {
		m.Position.X += m.Velocity.DX * dt
		m.Position.Y += m.Velocity.DY * dt
	}
}

func (s *simulation) burn() {
	for id := range s.burning.Iter() {
		s.damage.Create(DamageEvent{Target: id, Amount: 1 + s.rng.IntN(5)})
	}
}

func (s *simulation) resolveDamage() {
	for ev := range ecs.Reader[DamageEvent](s.world.Events()).All() {
		health := ecs.Get[Health](s.world, ev.Target)
		if health == nil || health.Current <= 0 {
			continue
		}
		health.Current -= ev.Amount
		s.counters.Damage += ev.Amount
		if health.Current <= 0 {
			s.deaths.Create(DeathEvent{Entity: ev.Target})
		}
	}
}

func (s *simulation) reap() {
	for ev := range ecs.Reader[DeathEvent](s.world.Events()).All() {
		s.despawn(ev.Entity)
	}
}

func (s *simulation) age() {
	for id, a := range s.aging.Iter() {
		a.Lifetime.Ticks--
		if a.Lifetime.Ticks > 0 {
			continue
		}
		if s.rng.IntN(2) == 0 {
			s.despawn(id)
			continue
		}
		// expired entities lose their lifetime and freeze in place
		s.remove(id, s.lifetimeId)
		s.insert(id, Frozen{})
	}
}

// churn applies random structural changes to a sample of entities.
func (s *simulation) churn() {
	for id := range s.all.Iter() {
		if s.rng.IntN(50) != 0 {
			continue
		}
		switch s.rng.IntN(5) {
		case 0:
			s.insert(id, Burning{})
		case 1:
			s.remove(id, s.burningId)
		case 2:
			s.remove(id, s.frozenId)
		case 3:
			s.insert(id, Velocity{DX: s.rng.Float32() - 0.5, DY: s.rng.Float32() - 0.5})
		default:
			s.remove(id, s.velocityId)
		}
	}
}

func (s *simulation) insert(id ecs.EntityId, components ...any) {
	if err := s.world.Entities().Insert(id, components...); err != nil {
		s.logger.Warn().Err(err).Msg("insert rejected")
		return
	}
	s.counters.Inserts++
}

func (s *simulation) remove(id ecs.EntityId, types ...ecs.ComponentId) {
	if err := s.world.Entities().Remove(id, types...); err != nil {
		s.logger.Warn().Err(err).Msg("remove rejected")
		return
	}
	s.counters.Removes++
}

func (s *simulation) despawn(id ecs.EntityId) {
	entities := s.world.Entities()
	if entities.IsDespawning(id) {
		return
	}
	if err := entities.Despawn(id); err != nil {
		if !eris.Is(err, ecs.ErrStaleEntity) {
			s.logger.Warn().Err(err).Msg("despawn rejected")
		}
		return
	}
	s.counters.Despawned++
}
