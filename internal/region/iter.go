package region

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"regions/internal/hir"
)

// ParentLinks yields (child, parent) for every recorded link, ordered by child.
func (t *ScopeTree) ParentLinks() iter.Seq2[Scope, Scope] {
	return func(yield func(Scope, Scope) bool) {
		for _, child := range slices.SortedFunc(maps.Keys(t.parentMap), Compare) {
			if !yield(child, t.parentMap[child].parent) {
				return
			}
		}
	}
}

// VarScopes yields (binding, lifetime) for every recorded binding, ordered by binding.
func (t *ScopeTree) VarScopes() iter.Seq2[hir.ItemLocalID, Scope] {
	return func(yield func(hir.ItemLocalID, Scope) bool) {
		for _, v := range slices.Sorted(maps.Keys(t.varMap)) {
			if !yield(v, t.varMap[v]) {
				return
			}
		}
	}
}

// Roots returns every scope without a parent that is either recorded as a
// root or is the parent of some recorded scope, in Compare order.
func (t *ScopeTree) Roots() []Scope {
	seen := make(map[Scope]struct{}, len(t.roots))
	for r := range t.roots {
		seen[r] = struct{}{}
	}
	for _, pe := range t.parentMap {
		if _, ok := t.parentMap[pe.parent]; !ok {
			seen[pe.parent] = struct{}{}
		}
	}
	return slices.SortedFunc(maps.Keys(seen), Compare)
}

// Children builds the child lists of every parent, each in Compare order.
func (t *ScopeTree) Children() map[Scope][]Scope {
	out := make(map[Scope][]Scope)
	for child, pe := range t.parentMap {
		out[pe.parent] = append(out[pe.parent], child)
	}
	for _, kids := range out {
		slices.SortFunc(kids, Compare)
	}
	return out
}

// Closures yields (inner, outer) body pairs ordered by inner.
func (t *ScopeTree) Closures() iter.Seq2[hir.ItemLocalID, hir.ItemLocalID] {
	return func(yield func(hir.ItemLocalID, hir.ItemLocalID) bool) {
		for _, inner := range slices.Sorted(maps.Keys(t.closureTree)) {
			if !yield(inner, t.closureTree[inner]) {
				return
			}
		}
	}
}

// SuspensionPoints yields every scope with a recorded suspension point.
func (t *ScopeTree) SuspensionPoints() iter.Seq2[Scope, YieldData] {
	return func(yield func(Scope, YieldData) bool) {
		for _, s := range slices.SortedFunc(maps.Keys(t.yieldInScope), Compare) {
			if !yield(s, t.yieldInScope[s]) {
				return
			}
		}
	}
}

func compareBody(a, b hir.BodyID) int {
	if c := cmp.Compare(a.Value.Owner, b.Value.Owner); c != 0 {
		return c
	}
	return cmp.Compare(a.Value.Local, b.Value.Local)
}

// BodyExprCounts yields every recorded body count ordered by body.
func (t *ScopeTree) BodyExprCounts() iter.Seq2[hir.BodyID, int] {
	return func(yield func(hir.BodyID, int) bool) {
		for _, b := range slices.SortedFunc(maps.Keys(t.bodyExprCount), compareBody) {
			if !yield(b, t.bodyExprCount[b]) {
				return
			}
		}
	}
}

// RvalueExprs yields every expression with a recorded rvalue override,
// in ascending order. Use RvalueOverride to read the override itself.
func (t *ScopeTree) RvalueExprs() iter.Seq[hir.ItemLocalID] {
	return func(yield func(hir.ItemLocalID) bool) {
		for _, x := range slices.Sorted(maps.Keys(t.rvalueScopes)) {
			if !yield(x) {
				return
			}
		}
	}
}
