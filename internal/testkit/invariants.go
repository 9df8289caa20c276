package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"regions/internal/diag"
	"regions/internal/region"
)

// Violation is one broken structural invariant of a scope tree.
type Violation struct {
	Code diag.Code
	Msg  string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Code.ID(), v.Msg)
}

// CheckScopeTree runs the structural invariants on a finished tree and
// joins every violation into one error:
// 1) every child sits one level below its parent
// 2) walking up from any scope reaches a root
// 3) every destruction scope in the tree is indexed by its node
// 4) no binding or temporary is its own lifetime
// 5) suspension point counts fit inside the largest recorded body
// 6) closure nesting has no cycles
func CheckScopeTree(tree *region.ScopeTree) error {
	vs := Violations(tree)
	if len(vs) == 0 {
		return nil
	}
	errs := make([]error, len(vs))
	for i, v := range vs {
		errs[i] = v
	}
	return errors.Join(errs...)
}

// Violations is CheckScopeTree without joining.
func Violations(tree *region.ScopeTree) []Violation {
	if tree == nil {
		return []Violation{{Code: diag.InvariantInfo, Msg: "nil scope tree"}}
	}
	var out []Violation
	add := func(code diag.Code, format string, args ...any) {
		out = append(out, Violation{Code: code, Msg: fmt.Sprintf(format, args...)})
	}

	// 1) depths; 2) reachability of a root
	limit := tree.Len() + 1
	for child, parent := range tree.ParentLinks() {
		if want := tree.Depth(parent) + 1; tree.Depth(child) != want {
			add(diag.InvariantDepth, "%v at depth %d under %v at depth %d", child, tree.Depth(child), parent, tree.Depth(parent))
		}
		s, steps := child, 0
		for {
			p, ok := tree.EnclosingScope(s)
			if !ok {
				break
			}
			if steps++; steps > limit {
				add(diag.InvariantCycle, "no root above %v", child)
				break
			}
			s = p
		}
	}

	// 3) destruction index
	checkDtor := func(s region.Scope) {
		if s.Kind != region.KindDestruction {
			return
		}
		if got, ok := tree.DestructionScope(s.ItemLocalID()); !ok || got != s {
			add(diag.InvariantDestruction, "%v is not indexed by node %d", s, s.ItemLocalID())
		}
	}
	for child := range tree.ParentLinks() {
		checkDtor(child)
	}
	for _, r := range tree.Roots() {
		checkDtor(r)
	}

	// 4) self lifetimes
	for v, lifetime := range tree.VarScopes() {
		if v == lifetime.ItemLocalID() {
			add(diag.InvariantSelfLifetime, "binding %d lives in its own scope %v", v, lifetime)
		}
	}
	for x := range tree.RvalueExprs() {
		if s, static, _ := tree.RvalueOverride(x); !static && s.ItemLocalID() == x {
			add(diag.InvariantSelfLifetime, "temporary %d cleaned up in its own scope %v", x, s)
		}
	}

	// 5) suspension point counts
	maxCount, haveCounts := 0, false
	for _, n := range tree.BodyExprCounts() {
		haveCounts = true
		maxCount = max(maxCount, n)
	}
	for s, y := range tree.SuspensionPoints() {
		if y.ExprAndPatCount <= 0 {
			add(diag.InvariantYieldCount, "%v: non-positive count %d", s, y.ExprAndPatCount)
			continue
		}
		if haveCounts && y.ExprAndPatCount > maxCount {
			add(diag.InvariantYieldCount, "%v: count %d exceeds the largest body (%d)", s, y.ExprAndPatCount, maxCount)
		}
	}

	// 6) closures
	closures := 0
	for range tree.Closures() {
		closures++
	}
	bound, err := safecast.Conv[uint32](closures)
	if err != nil {
		add(diag.InvariantClosure, "closure count overflow: %v", err)
		return out
	}
	for inner := range tree.Closures() {
		var steps uint32
		for outer := range tree.EnclosingBodies(inner) {
			if outer == inner || steps > bound {
				add(diag.InvariantClosure, "closure body %d encloses itself", inner)
				break
			}
			steps++
		}
	}
	return out
}

// Codes lists the distinct codes of vs in first-seen order.
func Codes(vs []Violation) []diag.Code {
	seen := make(map[diag.Code]bool, len(vs))
	var out []diag.Code
	for _, v := range vs {
		if !seen[v.Code] {
			seen[v.Code] = true
			out = append(out, v.Code)
		}
	}
	return out
}
