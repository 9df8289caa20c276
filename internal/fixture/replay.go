package fixture

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"regions/internal/diag"
	"regions/internal/hir"
	"regions/internal/region"
)

var errUnknownOp = errors.New("unknown op")

// scopeError marks a malformed scope reference.
type scopeError struct {
	field string
	err   error
}

func (e *scopeError) Error() string { return fmt.Sprintf("%s: %v", e.field, e.err) }
func (e *scopeError) Unwrap() error { return e.err }

func scopeField(field, raw string) (region.Scope, error) {
	s, err := ParseScope(raw)
	if err != nil {
		return region.Scope{}, &scopeError{field: field, err: err}
	}
	return s, nil
}

func codeFor(err error) diag.Code {
	var be *region.BugError
	if errors.As(err, &be) {
		return diag.FixtureRecordFailed
	}
	var se *scopeError
	if errors.As(err, &se) {
		return diag.FixtureBadScope
	}
	return diag.FixtureSyntax
}

// replayOne applies r to tree. A programmer-error panic from the tree is
// returned as its *region.BugError; any other panic is re-raised.
func replayOne(tree *region.ScopeTree, r Record, owner hir.OwnerID) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			be, ok := region.AsBug(rec)
			if !ok {
				panic(rec)
			}
			err = be
		}
	}()

	switch strings.ToLower(strings.TrimSpace(r.Op)) {
	case "parent":
		return replayParent(tree, r)
	case "root":
		s, err := scopeField("scope", r.Scope)
		if err != nil {
			return err
		}
		tree.RecordRootScope(s)
		return nil
	case "var":
		return replayVar(tree, r)
	case "rvalue":
		return replayRvalue(tree, r)
	case "closure":
		inner, err := toLocal("inner", r.Inner)
		if err != nil {
			return err
		}
		outer, err := toLocal("outer", r.Outer)
		if err != nil {
			return err
		}
		tree.RecordClosureParent(inner, outer)
		return nil
	case "yield":
		return replayYield(tree, r)
	case "body_count":
		body, err := toLocal("body", r.Body)
		if err != nil {
			return err
		}
		n, err := safecast.Conv[int](r.Count)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		tree.RecordBodyExprCount(hir.BodyID{Value: hir.HirID{Owner: owner, Local: body}}, n)
		return nil
	default:
		return fmt.Errorf("%w %q", errUnknownOp, r.Op)
	}
}

func replayParent(tree *region.ScopeTree, r Record) error {
	child, err := scopeField("child", r.Child)
	if err != nil {
		return err
	}
	parent, err := scopeField("parent", r.Parent)
	if err != nil {
		return err
	}
	depth, err := toUint32("depth", r.Depth)
	if err != nil {
		return err
	}
	tree.RecordScopeParent(child, parent, region.ScopeDepth(depth))
	return nil
}

func replayVar(tree *region.ScopeTree, r Record) error {
	v, err := toLocal("var", r.Var)
	if err != nil {
		return err
	}
	s, err := scopeField("scope", r.Scope)
	if err != nil {
		return err
	}
	tree.RecordVarScope(v, s)
	return nil
}

func replayRvalue(tree *region.ScopeTree, r Record) error {
	expr, err := toLocal("expr", r.Expr)
	if err != nil {
		return err
	}
	if r.Static {
		if r.Scope != "" {
			return fmt.Errorf("rvalue: static and scope are exclusive")
		}
		tree.RecordStaticRvalueScope(expr)
		return nil
	}
	s, err := scopeField("scope", r.Scope)
	if err != nil {
		return err
	}
	tree.RecordRvalueScope(expr, s)
	return nil
}

func replayYield(tree *region.ScopeTree, r Record) error {
	s, err := scopeField("scope", r.Scope)
	if err != nil {
		return err
	}
	n, err := safecast.Conv[int](r.Count)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	src, err := parseYieldSource(r.Source)
	if err != nil {
		return err
	}
	sp, err := toSpan("span", r.Span)
	if err != nil {
		return err
	}
	tree.RecordSuspensionPoint(s, region.YieldData{Span: sp, ExprAndPatCount: n, Source: src})
	return nil
}
