package ecs

type filterKind uint8

const (
	filterAll filterKind = iota
	filterWith
	filterWithout
	filterAnd
	filterOr
)

// Filter is a condition, or a combination of conditions, that a table's
// archetype must satisfy for a query to match it. The zero Filter matches
// every table.
type Filter struct {
	kind     filterKind
	ids      []ComponentId
	children []Filter
}

// FilterTerm is one alternative a filter resolves to: a table satisfies it
// when it has every Required bit and none of the Forbidden bits.
type FilterTerm struct {
	Required  Archetype
	Forbidden Archetype
}

// All returns the filter that matches everything.
func All() Filter {
	return Filter{}
}

// With only matches tables that have all of the given components.
func With(ids ...ComponentId) Filter {
	return Filter{kind: filterWith, ids: ids}
}

// Without only matches tables that have none of the given components.
func Without(ids ...ComponentId) Filter {
	return Filter{kind: filterWithout, ids: ids}
}

// And matches when every child filter matches.
func And(children ...Filter) Filter {
	return Filter{kind: filterAnd, children: children}
}

// Or matches when at least one child filter matches.
func Or(children ...Filter) Filter {
	return Filter{kind: filterOr, children: children}
}

// Terms resolves f into the list of alternatives a table may satisfy.
func Terms(f Filter) []FilterTerm {
	return f.resolve([]FilterTerm{{}})
}

// resolve applies f to every term of acc. Leaves constrain each term, And
// threads the terms through its children, and Or branches: every child sees
// the same starting terms and the results are concatenated.
func (f Filter) resolve(acc []FilterTerm) []FilterTerm {
	switch f.kind {
	case filterWith, filterWithout:
		out := make([]FilterTerm, len(acc))
		for i, term := range acc {
			for _, id := range f.ids {
				if f.kind == filterWith {
					term.Required.Mark(uint32(id))
				} else {
					term.Forbidden.Mark(uint32(id))
				}
			}
			out[i] = term
		}
		return out

	case filterAnd:
		for _, child := range f.children {
			acc = child.resolve(acc)
		}
		return acc

	case filterOr:
		if len(f.children) == 0 {
			return acc
		}
		out := make([]FilterTerm, 0, len(acc)*len(f.children))
		for _, child := range f.children {
			out = append(out, child.resolve(acc)...)
		}
		return out
	}
	return acc
}

// Matches reports whether archetype m satisfies the term.
func (t FilterTerm) Matches(m Archetype) bool {
	return m.ContainsAll(t.Required) && !m.ContainsAny(t.Forbidden)
}

// Impossible reports whether the term requires a component it also forbids.
func (t FilterTerm) Impossible() bool {
	return t.Required.ContainsAny(t.Forbidden)
}

// MatchesAny reports whether m satisfies at least one of terms.
func MatchesAny(terms []FilterTerm, m Archetype) bool {
	for _, term := range terms {
		if term.Matches(m) {
			return true
		}
	}
	return false
}

// Impossible reports whether no archetype can ever satisfy terms.
func Impossible(terms []FilterTerm) bool {
	for _, term := range terms {
		if !term.Impossible() {
			return false
		}
	}
	return true
}
