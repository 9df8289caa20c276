package region

import (
	"iter"

	"regions/internal/hir"
)

// RecordClosureParent records that the body rooted at inner is defined
// inside the body rooted at outer. Both ids are body root blocks.
//
// Every body forms its own region hierarchy; the closure tree links those
// hierarchies by lexical nesting.
func (t *ScopeTree) RecordClosureParent(inner, outer hir.ItemLocalID) {
	const op = "record_closure_parent"
	t.mustBuild(op)
	t.debugf(op, "sub_closure=%d sup_closure=%d", inner, outer)
	if inner == outer {
		bug(op, "body %d recorded as its own parent", inner)
	}
	if prev, dup := t.closureTree[inner]; dup {
		bug(op, "body %d already nested in %d", inner, prev)
	}
	for b := range t.EnclosingBodies(outer) {
		if b == inner {
			bug(op, "nesting %d in %d would form a cycle", inner, outer)
		}
	}
	t.closureTree[inner] = outer
}

// ClosureParent returns the body enclosing the closure body inner.
func (t *ScopeTree) ClosureParent(inner hir.ItemLocalID) (hir.ItemLocalID, bool) {
	outer, ok := t.closureTree[inner]
	return outer, ok
}

// EnclosingBodies yields the bodies enclosing body, innermost first,
// excluding body itself.
func (t *ScopeTree) EnclosingBodies(body hir.ItemLocalID) iter.Seq[hir.ItemLocalID] {
	return func(yield func(hir.ItemLocalID) bool) {
		cur := body
		for {
			outer, ok := t.closureTree[cur]
			if !ok || !yield(outer) {
				return
			}
			cur = outer
		}
	}
}

// IsClosureNestedIn reports whether inner equals outer or is transitively
// defined inside it.
func (t *ScopeTree) IsClosureNestedIn(inner, outer hir.ItemLocalID) bool {
	if inner == outer {
		return true
	}
	for b := range t.EnclosingBodies(inner) {
		if b == outer {
			return true
		}
	}
	return false
}
