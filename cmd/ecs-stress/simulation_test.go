package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/strata/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationKeepsIndexConsistent(t *testing.T) {
	world := ecs.NewWorld(newRegistry(), ecs.WithStrictAssertions(true))
	sim := newSimulation(world, 7, 500, zerolog.Nop())
	sim.populate()
	ecs.ApplyEntityUpdates(world.Entities())

	for range 100 {
		sim.Step(0.016)

		require.Equal(t, 0, world.Entities().Pending())
		require.Equal(t, 0, ecs.Reader[DamageEvent](world.Events()).Len())

		total := 0
		for _, table := range world.Tables() {
			total += table.Len()
			for row, id := range table.Entities() {
				located, locatedRow, ok := world.Entities().Location(id)
				require.True(t, ok)
				require.Same(t, table, located)
				require.Equal(t, row, locatedRow)
			}
		}
		require.Equal(t, world.Entities().Len(), total)
	}

	assert.Positive(t, sim.counters.Spawned)
	assert.Positive(t, sim.counters.Despawned)
	assert.Positive(t, sim.counters.Inserts)
	assert.Positive(t, sim.counters.Damage)
}

func TestReportGenerate(t *testing.T) {
	world := ecs.NewWorld(newRegistry())
	sim := newSimulation(world, 1, 50, zerolog.Nop())
	sim.Step(0.016)

	report := &Report{
		Duration: time.Second,
		Entities: 50,
		Seed:     1,
		UpdateTime: Stats{
			Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond},
		},
		Counters: sim.counters,
		World:    world.CollectStats(),
	}
	report.UpdateTime.Finalize()

	assert.Equal(t, time.Millisecond, report.UpdateTime.Min)
	assert.Equal(t, 3*time.Millisecond, report.UpdateTime.Max)
	assert.Equal(t, 2*time.Millisecond, report.UpdateTime.Avg)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	assert.Contains(t, buf.String(), "# ECS Stress Test Report")
	assert.Contains(t, buf.String(), "main.Position")
	assert.LessOrEqual(t, len(report.LargestTables()), topTables)
}
