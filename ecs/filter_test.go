package ecs_test

import (
	"testing"

	"github.com/plus3/strata/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterTerms(t *testing.T) {
	registry := newTestRegistry()
	pos := ecs.ID[Position](registry)
	vel := ecs.ID[Velocity](registry)
	zst := ecs.ID[ZST](registry)
	frozen := ecs.ID[Frozen](registry)

	var empty ecs.Archetype

	t.Run("base filter is the identity", func(t *testing.T) {
		terms := ecs.Terms(ecs.All())
		require.Len(t, terms, 1)
		assert.Equal(t, ecs.FilterTerm{}, terms[0])
	})

	t.Run("with marks required bits", func(t *testing.T) {
		terms := ecs.Terms(ecs.With(pos, vel))
		require.Len(t, terms, 1)
		assert.Equal(t, registry.Archetype(pos, vel), terms[0].Required)
		assert.Equal(t, empty, terms[0].Forbidden)
	})

	t.Run("without marks forbidden bits", func(t *testing.T) {
		terms := ecs.Terms(ecs.Without(zst))
		require.Len(t, terms, 1)
		assert.Equal(t, empty, terms[0].Required)
		assert.Equal(t, registry.Archetype(zst), terms[0].Forbidden)
	})

	t.Run("and composes children", func(t *testing.T) {
		terms := ecs.Terms(ecs.And(ecs.With(pos), ecs.Without(zst), ecs.With(vel)))
		require.Len(t, terms, 1)
		assert.Equal(t, registry.Archetype(pos, vel), terms[0].Required)
		assert.Equal(t, registry.Archetype(zst), terms[0].Forbidden)
	})

	t.Run("or branches children", func(t *testing.T) {
		terms := ecs.Terms(ecs.Or(ecs.With(pos), ecs.With(vel)))
		require.Len(t, terms, 2)
		assert.Equal(t, registry.Archetype(pos), terms[0].Required)
		assert.Equal(t, registry.Archetype(vel), terms[1].Required)
	})

	t.Run("and applies to every or branch", func(t *testing.T) {
		terms := ecs.Terms(ecs.And(ecs.Or(ecs.With(pos), ecs.With(vel)), ecs.Without(zst, frozen)))
		require.Len(t, terms, 2)
		for _, term := range terms {
			assert.Equal(t, registry.Archetype(zst, frozen), term.Forbidden)
		}
		assert.Equal(t, registry.Archetype(pos), terms[0].Required)
		assert.Equal(t, registry.Archetype(vel), terms[1].Required)
	})

	t.Run("nested or flattens", func(t *testing.T) {
		terms := ecs.Terms(ecs.Or(ecs.With(pos), ecs.Or(ecs.With(vel), ecs.With(zst))))
		assert.Len(t, terms, 3)
	})

	t.Run("empty connectives are the identity", func(t *testing.T) {
		assert.Equal(t, []ecs.FilterTerm{{}}, ecs.Terms(ecs.And()))
		assert.Equal(t, []ecs.FilterTerm{{}}, ecs.Terms(ecs.Or()))
	})
}

func TestFilterTermMatches(t *testing.T) {
	registry := newTestRegistry()
	entity := ecs.ID[ecs.EntityId](registry)
	pos := ecs.ID[Position](registry)
	vel := ecs.ID[Velocity](registry)
	zst := ecs.ID[ZST](registry)

	tests := []struct {
		name      string
		filter    ecs.Filter
		archetype ecs.Archetype
		want      bool
	}{
		{"all matches empty entity", ecs.All(), registry.Archetype(entity), true},
		{"with present", ecs.With(pos), registry.Archetype(entity, pos, vel), true},
		{"with missing", ecs.With(pos, vel), registry.Archetype(entity, pos), false},
		{"without absent", ecs.Without(zst), registry.Archetype(entity, pos), true},
		{"without present", ecs.Without(zst, vel), registry.Archetype(entity, pos, vel), false},
		{"or either", ecs.Or(ecs.With(zst), ecs.With(vel)), registry.Archetype(entity, vel), true},
		{"or neither", ecs.Or(ecs.With(zst), ecs.With(vel)), registry.Archetype(entity, pos), false},
		{"and both", ecs.And(ecs.With(pos), ecs.Without(zst)), registry.Archetype(entity, pos), true},
		{"and one fails", ecs.And(ecs.With(pos), ecs.Without(zst)), registry.Archetype(entity, pos, zst), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ecs.MatchesAny(ecs.Terms(tt.filter), tt.archetype))
		})
	}
}

func TestFilterImpossible(t *testing.T) {
	registry := newTestRegistry()
	pos := ecs.ID[Position](registry)
	zst := ecs.ID[ZST](registry)

	assert.False(t, ecs.Impossible(ecs.Terms(ecs.All())))
	assert.False(t, ecs.Impossible(ecs.Terms(ecs.And(ecs.With(pos), ecs.Without(zst)))))
	assert.True(t, ecs.Impossible(ecs.Terms(ecs.And(ecs.With(zst), ecs.Without(zst)))))
	assert.True(t, ecs.Impossible(ecs.Terms(ecs.And(ecs.With(pos, zst), ecs.Without(zst)))))

	// one satisfiable branch is enough
	assert.False(t, ecs.Impossible(ecs.Terms(ecs.Or(
		ecs.And(ecs.With(zst), ecs.Without(zst)),
		ecs.With(pos),
	))))
	assert.True(t, ecs.Impossible(ecs.Terms(ecs.And(
		ecs.Or(ecs.With(zst), ecs.With(pos)),
		ecs.Without(zst, pos),
	))))
}
