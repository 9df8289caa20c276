package fixture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"regions/internal/diag"
	"regions/internal/hir"
	"regions/internal/region"
	"regions/internal/source"
	"regions/internal/testkit"
	"regions/internal/trace"
)

func loadBlock(t *testing.T) *Fixture {
	t.Helper()
	fx, err := Load(context.Background(), filepath.Join("testdata", "block.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return fx
}

func TestLoadBlock(t *testing.T) {
	fx := loadBlock(t)
	tree := fx.Tree
	if !tree.Frozen() {
		t.Fatalf("loaded tree must be frozen")
	}
	if tree.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", tree.Len())
	}
	if err := testkit.CheckScopeTree(tree); err != nil {
		t.Fatalf("invariants: %v", err)
	}

	if got := tree.NearestCommonAncestor(region.NodeScope(3), region.NodeScope(5)); got != region.NodeScope(1) {
		t.Fatalf("NCA = %v", got)
	}
	if got, ok := tree.TemporaryScope(3); !ok || got != region.NodeScope(2) {
		t.Fatalf("TemporaryScope(3) = %v, %v", got, ok)
	}
	if got, ok := tree.TemporaryScope(5); !ok || got != region.RemainderScope(1, 1) {
		t.Fatalf("TemporaryScope(5) = %v, %v", got, ok)
	}
	if got := tree.VariableScope(8); got != region.RemainderScope(1, 0) {
		t.Fatalf("VariableScope(8) = %v", got)
	}
	y, ok := tree.SuspensionPoint(region.NodeScope(6))
	if !ok || y.ExprAndPatCount != 7 || y.Source != hir.YieldSourceAwait {
		t.Fatalf("SuspensionPoint = %+v, %v", y, ok)
	}
	if n, ok := tree.BodyExprCount(hir.BodyID{Value: hir.HirID{Owner: fx.Owner, Local: 1}}); !ok || n != 9 {
		t.Fatalf("BodyExprCount = %d, %v", n, ok)
	}

	want := source.Span{File: 1, Start: 130, End: 200}
	if got := region.RemainderScope(1, 0).Span(fx.Table, tree); got != want {
		t.Fatalf("remainder span = %v, want %v", got, want)
	}
}

func TestLoadBlockFreeScopes(t *testing.T) {
	fx := loadBlock(t)
	for _, def := range []hir.DefID{2, 4} {
		br, ok := fx.EarlyBound(def)
		if !ok {
			t.Fatalf("EarlyBound(%d) missing", def)
		}
		bag := diag.NewBag(4)
		got := fx.Tree.FreeScopeForEarlyBound(fx.Table, br, diag.BagReporter{Bag: bag})
		if got != region.CallSiteScope(1) {
			t.Fatalf("free scope of %s = %v", br.Name, got)
		}
		if len(bag.Delayed()) != 0 {
			t.Fatalf("unexpected delayed bug for %s", br.Name)
		}
	}
	if fx.Names[4] != "'t" {
		t.Fatalf("Names[4] = %q", fx.Names[4])
	}
}

func TestLoadTraces(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := Load(ctx, filepath.Join("testdata", "block.toml")); err != nil {
		t.Fatalf("load: %v", err)
	}
	var begins, records int
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Name == "fixture.load" && ev.Kind == trace.KindSpanBegin:
			begins++
		case ev.Name == "record_scope_parent":
			records++
		}
	}
	if begins != 1 || records != 10 {
		t.Fatalf("begins=%d records=%d", begins, records)
	}
}

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fx.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

const header = "[body]\nowner = \"crate::f\"\n"

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		code   diag.Code
		record int
	}{
		{
			name:   "syntax",
			body:   "[body\nowner = 1",
			code:   diag.FixtureSyntax,
			record: -1,
		},
		{
			name:   "unknown key",
			body:   header + "colour = \"red\"\n",
			code:   diag.FixtureUnknownKey,
			record: -1,
		},
		{
			name:   "missing owner",
			body:   "[body]\nroot = 1\n",
			code:   diag.FixtureSyntax,
			record: -1,
		},
		{
			name:   "bad scope",
			body:   header + "[[record]]\nop = \"parent\"\nchild = \"block:1\"\nparent = \"node:0\"\ndepth = 1\n",
			code:   diag.FixtureBadScope,
			record: 0,
		},
		{
			name: "duplicate parent",
			body: header +
				"[[record]]\nop = \"parent\"\nchild = \"node:1\"\nparent = \"callsite:0\"\ndepth = 1\n" +
				"[[record]]\nop = \"parent\"\nchild = \"node:1\"\nparent = \"callsite:0\"\ndepth = 1\n",
			code:   diag.FixtureRecordFailed,
			record: 1,
		},
		{
			name:   "self lifetime",
			body:   header + "[[record]]\nop = \"var\"\nvar = 3\nscope = \"node:3\"\n",
			code:   diag.FixtureRecordFailed,
			record: 0,
		},
		{
			name:   "unknown op",
			body:   header + "[[record]]\nop = \"drop\"\n",
			code:   diag.FixtureSyntax,
			record: 0,
		},
		{
			name:   "static with scope",
			body:   header + "[[record]]\nop = \"rvalue\"\nexpr = 3\nstatic = true\nscope = \"node:1\"\n",
			code:   diag.FixtureSyntax,
			record: 0,
		},
		{
			name:   "negative id",
			body:   header + "[[record]]\nop = \"closure\"\ninner = -1\nouter = 0\n",
			code:   diag.FixtureSyntax,
			record: 0,
		},
		{
			name:   "dangling depth",
			body:   header + "[[record]]\nop = \"parent\"\nchild = \"node:2\"\nparent = \"node:1\"\ndepth = 3\n",
			code:   diag.InvariantDepth,
			record: -1,
		},
		{
			name:   "bad span",
			body:   header + "[[nodes]]\nid = 1\nspan = [1, 20, 10]\n",
			code:   diag.FixtureSyntax,
			record: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), writeFixture(t, tt.body))
			if err == nil {
				t.Fatalf("expected an error")
			}
			var fe *Error
			if !errors.As(err, &fe) {
				t.Fatalf("error %v is not a *fixture.Error", err)
			}
			if fe.Code != tt.code || fe.Record != tt.record {
				t.Fatalf("got code %s record %d, want %s record %d (%v)", fe.Code.ID(), fe.Record, tt.code.ID(), tt.record, err)
			}
			if CodeOf(err) != tt.code {
				t.Fatalf("CodeOf() = %s", CodeOf(err).ID())
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.toml"))
	if CodeOf(err) != diag.FixtureSyntax {
		t.Fatalf("Load() = %v", err)
	}
}
