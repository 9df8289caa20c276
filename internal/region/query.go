package region

import "regions/internal/hir"

// EnclosingScope returns the narrowest scope enclosing s. ok is false when s
// is the root of its tree.
func (t *ScopeTree) EnclosingScope(s Scope) (Scope, bool) {
	pe, ok := t.parentMap[s]
	if !ok {
		return Scope{}, false
	}
	return pe.parent, true
}

// EnclScope is EnclosingScope for callers that know s has a parent.
func (t *ScopeTree) EnclScope(s Scope) Scope {
	p, ok := t.EnclosingScope(s)
	if !ok {
		bug("encl_scope", "%v has no enclosing scope", s)
	}
	return p
}

// Depth returns the recorded depth of s; roots and unknown scopes are 0.
func (t *ScopeTree) Depth(s Scope) ScopeDepth {
	return t.parentMap[s].depth
}

// IsSubscopeOf reports whether sub equals sup or is lexically nested in it.
func (t *ScopeTree) IsSubscopeOf(sub, sup Scope) bool {
	s := sub
	for s != sup {
		p, ok := t.EnclosingScope(s)
		if !ok {
			t.debugf("is_subscope_of", "(%v, %v) = false at %v", sub, sup, s)
			return false
		}
		s = p
	}
	t.debugf("is_subscope_of", "(%v, %v) = true", sub, sup)
	return true
}

// ScopesIntersect reports whether one of a and b contains the other.
func (t *ScopeTree) ScopesIntersect(a, b Scope) bool {
	return t.IsSubscopeOf(a, b) || t.IsSubscopeOf(b, a)
}

// ContainingBody returns the id of the innermost call-site scope enclosing s.
func (t *ScopeTree) ContainingBody(s Scope) (hir.ItemLocalID, bool) {
	for {
		if s.Kind == KindCallSite {
			return s.ItemLocalID(), true
		}
		p, ok := t.EnclosingScope(s)
		if !ok {
			return 0, false
		}
		s = p
	}
}

// DestructionScope returns the destruction scope recorded for node n.
func (t *ScopeTree) DestructionScope(n hir.ItemLocalID) (Scope, bool) {
	s, ok := t.destructionScopes[n]
	return s, ok
}

// NearestCommonAncestor returns the smallest scope enclosing both a and b.
//
// The deeper scope is first lifted to the depth of the other using the
// depths stored with each parent link, then both walk up in lockstep. There
// is no memoization; scope nesting is shallow in practice and the common
// case is that one scope is a direct ancestor of the other.
func (t *ScopeTree) NearestCommonAncestor(a, b Scope) Scope {
	const op = "nearest_common_ancestor"
	if a == b {
		return a
	}
	// A scope without a parent is a root and therefore the answer.
	pa, ok := t.parentMap[a]
	if !ok {
		return a
	}
	pb, ok := t.parentMap[b]
	if !ok {
		return b
	}

	x, y := a, b
	switch {
	case pa.depth > pb.depth:
		x = t.liftBy(op, a, pa.depth-pb.depth)
	case pb.depth > pa.depth:
		y = t.liftBy(op, b, pb.depth-pa.depth)
	}

	for x != y {
		px, okx := t.parentMap[x]
		py, oky := t.parentMap[y]
		if !okx || !oky {
			bug(op, "%v and %v belong to different trees", a, b)
		}
		x, y = px.parent, py.parent
	}
	t.debugf(op, "(%v, %v) = %v", a, b, x)
	return x
}

func (t *ScopeTree) liftBy(op string, s Scope, n ScopeDepth) Scope {
	for ; n > 0; n-- {
		pe, ok := t.parentMap[s]
		if !ok {
			bug(op, "depth of %v is inconsistent with its ancestors", s)
		}
		s = pe.parent
	}
	return s
}
