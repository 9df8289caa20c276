package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"regions/internal/diag"
	"regions/internal/fixture"
	"regions/internal/hir"
	"regions/internal/region"
)

type queryOp struct {
	args  int
	usage string
	run   func(fx *fixture.Fixture, args []string, bag *diag.Bag) (string, error)
}

var queryOps = map[string]queryOp{
	"subscope": {2, "SUB SUP", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		return twoScopes(a, func(x, y region.Scope) string { return strconv.FormatBool(fx.Tree.IsSubscopeOf(x, y)) })
	}},
	"intersect": {2, "A B", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		return twoScopes(a, func(x, y region.Scope) string { return strconv.FormatBool(fx.Tree.ScopesIntersect(x, y)) })
	}},
	"nca": {2, "A B", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		return twoScopes(a, func(x, y region.Scope) string { return fixture.FormatScope(fx.Tree.NearestCommonAncestor(x, y)) })
	}},
	"encl": {1, "SCOPE", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		s, err := fixture.ParseScope(a[0])
		if err != nil {
			return "", err
		}
		return optScope(fx.Tree.EnclosingScope(s)), nil
	}},
	"temp": {1, "EXPR", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		id, err := fixture.ParseID(a[0])
		if err != nil {
			return "", err
		}
		return optScope(fx.Tree.TemporaryScope(id)), nil
	}},
	"var": {1, "BINDING", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		id, err := fixture.ParseID(a[0])
		if err != nil {
			return "", err
		}
		return fixture.FormatScope(fx.Tree.VariableScope(id)), nil
	}},
	"body": {1, "SCOPE", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		s, err := fixture.ParseScope(a[0])
		if err != nil {
			return "", err
		}
		id, ok := fx.Tree.ContainingBody(s)
		if !ok {
			return "none", nil
		}
		return strconv.FormatUint(uint64(id), 10), nil
	}},
	"destruction": {1, "NODE", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		id, err := fixture.ParseID(a[0])
		if err != nil {
			return "", err
		}
		return optScope(fx.Tree.DestructionScope(id)), nil
	}},
	"yield": {1, "SCOPE", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		s, err := fixture.ParseScope(a[0])
		if err != nil {
			return "", err
		}
		y, ok := fx.Tree.SuspensionPoint(s)
		if !ok {
			return "none", nil
		}
		return fmt.Sprintf("%s#%d at %v", y.Source, y.ExprAndPatCount, y.Span), nil
	}},
	"span": {1, "SCOPE", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		s, err := fixture.ParseScope(a[0])
		if err != nil {
			return "", err
		}
		return s.Span(fx.Table, fx.Tree).String(), nil
	}},
	"early": {1, "DEF", func(fx *fixture.Fixture, a []string, bag *diag.Bag) (string, error) {
		def, err := parseDef(a[0])
		if err != nil {
			return "", err
		}
		br, ok := fx.EarlyBound(def)
		if !ok {
			br = hir.EarlyBoundRegion{Def: def}
		}
		return fixture.FormatScope(fx.Tree.FreeScopeForEarlyBound(fx.Table, br, diag.BagReporter{Bag: bag})), nil
	}},
	"late": {2, "FN DEF|anon", func(fx *fixture.Fixture, a []string, _ *diag.Bag) (string, error) {
		fn, err := parseDef(a[0])
		if err != nil {
			return "", err
		}
		fr := hir.FreeRegion{Scope: fn, Bound: hir.BoundRegion{Kind: hir.BoundRegionAnon}}
		if !strings.EqualFold(a[1], "anon") {
			def, err := parseDef(a[1])
			if err != nil {
				return "", err
			}
			fr.Bound = hir.BoundRegion{Kind: hir.BoundRegionNamed, Def: def, Name: fx.Names[def]}
		}
		return fixture.FormatScope(fx.Tree.FreeScopeForLateBound(fx.Table, fr)), nil
	}},
}

func twoScopes(args []string, f func(a, b region.Scope) string) (string, error) {
	a, err := fixture.ParseScope(args[0])
	if err != nil {
		return "", err
	}
	b, err := fixture.ParseScope(args[1])
	if err != nil {
		return "", err
	}
	return f(a, b), nil
}

func optScope(s region.Scope, ok bool) string {
	if !ok {
		return "none"
	}
	return fixture.FormatScope(s)
}

func parseDef(s string) (hir.DefID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad def id %q: %w", s, err)
	}
	return hir.DefID(n), nil
}

func queryUsage() string {
	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(queryOps)) {
		fmt.Fprintf(&b, "  %-12s %s\n", name, queryOps[name].usage)
	}
	return b.String()
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query FILE OP ARGS...",
		Short: "Answer one scope tree query against a fixture",
		Long:  "Scopes are written node:4, callsite:0, args:0, dtor:3 or rem:2/0.\n\nOperations:\n" + queryUsage(),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name, rest := args[0], strings.ToLower(args[1]), args[2:]
			op, ok := queryOps[name]
			if !ok {
				return fmt.Errorf("unknown query %q", args[1])
			}
			if len(rest) != op.args {
				return fmt.Errorf("%s wants %d argument(s): %s", name, op.args, op.usage)
			}

			fx, err := fixture.Load(cmd.Context(), path)
			if err != nil {
				return err
			}
			bag := diag.NewBag(16)
			answer, err := runQuery(op, fx, rest, bag)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)

			if bag.FlushDelayedBugs() {
				for _, d := range bag.Items() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", failColor.Sprint("error:"), d.String())
				}
				return errFailed
			}
			return nil
		},
	}
}

// runQuery turns a broken-invariant panic into an error: asking for data
// the fixture never recorded is a user mistake here, not a crash.
func runQuery(op queryOp, fx *fixture.Fixture, args []string, bag *diag.Bag) (answer string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			be, ok := region.AsBug(rec)
			if !ok {
				panic(rec)
			}
			err = be
		}
	}()
	return op.run(fx, args, bag)
}
