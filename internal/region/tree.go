package region

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"regions/internal/hir"
	"regions/internal/source"
	"regions/internal/trace"
)

// ScopeDepth is the distance of a scope from the root of its tree.
// Roots have depth 0.
type ScopeDepth uint32

type parentEntry struct {
	parent Scope
	depth  ScopeDepth // depth of the child
}

type rvalueOverride struct {
	scope  Scope
	static bool // no local cleanup scope: the temporary escapes to the outermost lifetime
}

// YieldData describes the last suspension point observed inside a scope.
type YieldData struct {
	Span source.Span
	// ExprAndPatCount is the number of expressions and patterns visited
	// before the suspension point in the body, plus one.
	ExprAndPatCount int
	Source          hir.YieldSource
}

// Hints are optional capacity suggestions for the tree's maps.
type Hints struct{ Scopes, Vars uint }

// Options configures a new ScopeTree.
type Options struct {
	// RootBody is the body this tree was built for, if any.
	RootBody hir.HirID
	// RootParent is the trait or impl owning RootBody when the body belongs
	// to an associated item; its lifetime parameters are free in the body.
	RootParent hir.HirID
	Tracer     trace.Tracer
	Hints      Hints
}

// ScopeTree records the parent links of the region hierarchy of one body and
// its nested closures.
//
// A tree is Building until Freeze succeeds; after that it is Frozen and only
// queries are valid. Recording is single-writer and not synchronized. A
// frozen tree may be queried from many goroutines.
type ScopeTree struct {
	RootBody   hir.HirID
	RootParent hir.HirID

	parentMap map[Scope]parentEntry
	roots     map[Scope]struct{}
	// pending holds the depth children expect of a parent that has not been
	// recorded yet. Postorder walkers record children first.
	pending map[Scope]ScopeDepth

	varMap            map[hir.ItemLocalID]Scope
	destructionScopes map[hir.ItemLocalID]Scope
	rvalueScopes      map[hir.ItemLocalID]rvalueOverride
	closureTree       map[hir.ItemLocalID]hir.ItemLocalID
	yieldInScope      map[Scope]YieldData
	bodyExprCount     map[hir.BodyID]int

	frozen bool
	tracer trace.Tracer
}

// NewScopeTree creates an empty tree in the Building phase.
func NewScopeTree(opts Options) *ScopeTree {
	scopeCap, err := safecast.Conv[int](opts.Hints.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	varCap, err := safecast.Conv[int](opts.Hints.Vars)
	if err != nil {
		panic(fmt.Errorf("var capacity overflow: %w", err))
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &ScopeTree{
		RootBody:          opts.RootBody,
		RootParent:        opts.RootParent,
		parentMap:         make(map[Scope]parentEntry, scopeCap),
		roots:             make(map[Scope]struct{}),
		pending:           make(map[Scope]ScopeDepth),
		varMap:            make(map[hir.ItemLocalID]Scope, varCap),
		destructionScopes: make(map[hir.ItemLocalID]Scope),
		rvalueScopes:      make(map[hir.ItemLocalID]rvalueOverride),
		closureTree:       make(map[hir.ItemLocalID]hir.ItemLocalID),
		yieldInScope:      make(map[Scope]YieldData),
		bodyExprCount:     make(map[hir.BodyID]int),
		tracer:            tracer,
	}
}

func (t *ScopeTree) debugf(name, format string, args ...any) {
	if !trace.Debugging(t.tracer) {
		return
	}
	trace.Point(t.tracer, trace.ScopeNode, name, fmt.Sprintf(format, args...))
}

func (t *ScopeTree) mustBuild(op string) {
	if t.frozen {
		bug(op, "scope tree is frozen")
	}
}

// RecordScopeParent records that child is directly enclosed by parent and
// sits at depth (parent's depth + 1). Each child may be recorded once.
//
// Depth is checked against whichever end is already known: the parent's own
// entry, or the expectation left by an earlier sibling. If the parent is
// recorded later its depth is checked then.
func (t *ScopeTree) RecordScopeParent(child, parent Scope, depth ScopeDepth) {
	const op = "record_scope_parent"
	t.mustBuild(op)
	t.debugf(op, "%v.parent = %v depth=%d", child, parent, depth)

	if child == parent {
		bug(op, "%v recorded as its own parent", child)
	}
	if depth == 0 {
		bug(op, "%v: child depth must be at least 1", child)
	}
	if prev, dup := t.parentMap[child]; dup {
		bug(op, "%v already has parent %v", child, prev.parent)
	}
	if _, isRoot := t.roots[child]; isRoot {
		bug(op, "%v already recorded as a root", child)
	}
	if pe, ok := t.parentMap[parent]; ok {
		if pe.depth+1 != depth {
			bug(op, "%v at depth %d but parent %v is at depth %d", child, depth, parent, pe.depth)
		}
	} else if _, isRoot := t.roots[parent]; isRoot {
		if depth != 1 {
			bug(op, "%v at depth %d but parent %v is a root", child, depth, parent)
		}
	} else if want, ok := t.pending[parent]; ok && want != depth-1 {
		bug(op, "%v at depth %d but siblings put parent %v at depth %d", child, depth, parent, want)
	}
	if want, ok := t.pending[child]; ok && want != depth {
		bug(op, "%v recorded at depth %d but its children expect %d", child, depth, want)
	}

	delete(t.pending, child)
	if _, known := t.parentMap[parent]; !known {
		if _, isRoot := t.roots[parent]; !isRoot {
			t.pending[parent] = depth - 1
		}
	}
	t.parentMap[child] = parentEntry{parent: parent, depth: depth}
	t.noteDestruction(child)
}

// RecordRootScope records a scope that has no parent. Only destruction
// scopes need this; other roots are implied by being some child's parent.
func (t *ScopeTree) RecordRootScope(root Scope) {
	const op = "record_root_scope"
	t.mustBuild(op)
	t.debugf(op, "%v.parent = none", root)

	if prev, ok := t.parentMap[root]; ok {
		bug(op, "%v already has parent %v", root, prev.parent)
	}
	if want, ok := t.pending[root]; ok && want != 0 {
		bug(op, "%v recorded as root but its children expect depth %d", root, want)
	}
	delete(t.pending, root)
	t.roots[root] = struct{}{}
	t.noteDestruction(root)
}

func (t *ScopeTree) noteDestruction(s Scope) {
	if s.Kind == KindDestruction {
		t.destructionScopes[s.ID] = s
	}
}

// RecordBodyExprCount stores how many expressions and patterns the walker
// visited in body. Suspension point counts are checked against it.
func (t *ScopeTree) RecordBodyExprCount(body hir.BodyID, count int) {
	const op = "record_body_expr_count"
	t.mustBuild(op)
	t.debugf(op, "%v = %d", body, count)
	if count < 0 {
		bug(op, "negative expression count %d for %v", count, body)
	}
	t.bodyExprCount[body] = count
}

// BodyExprCount returns the recorded expression count of body.
func (t *ScopeTree) BodyExprCount(body hir.BodyID) (int, bool) {
	n, ok := t.bodyExprCount[body]
	return n, ok
}

// Validate reports depth expectations that can no longer be satisfied:
// every scope that is a parent but never a child is a root, so its
// children must sit at depth 1.
func (t *ScopeTree) Validate() error {
	var errs []error
	scopes := make([]Scope, 0, len(t.pending))
	for s := range t.pending {
		scopes = append(scopes, s)
	}
	slices.SortFunc(scopes, Compare)
	for _, s := range scopes {
		if want := t.pending[s]; want != 0 {
			errs = append(errs, fmt.Errorf("%w: %v has no parent but its children expect depth %d", ErrDepth, s, want))
		}
	}
	return errors.Join(errs...)
}

// Freeze validates the tree and ends the Building phase.
func (t *ScopeTree) Freeze() error {
	if t.frozen {
		return ErrFrozen
	}
	if err := t.Validate(); err != nil {
		return err
	}
	t.frozen = true
	t.debugf("freeze", "%d parent links, %d vars, %d rvalue overrides", len(t.parentMap), len(t.varMap), len(t.rvalueScopes))
	return nil
}

// Frozen reports whether Freeze succeeded.
func (t *ScopeTree) Frozen() bool {
	return t.frozen
}

// Len reports the number of recorded parent links.
func (t *ScopeTree) Len() int {
	return len(t.parentMap)
}
