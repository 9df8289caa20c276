package region

import (
	"slices"
	"testing"

	"regions/internal/hir"
	"regions/internal/source"
)

func TestClosureNesting(t *testing.T) {
	tree := NewScopeTree(Options{})
	tree.RecordClosureParent(10, 0)
	tree.RecordClosureParent(20, 10)
	tree.RecordClosureParent(30, 0)

	if outer, ok := tree.ClosureParent(20); !ok || outer != 10 {
		t.Fatalf("ClosureParent(20) = %d, %v", outer, ok)
	}
	if _, ok := tree.ClosureParent(0); ok {
		t.Fatalf("outermost body has no closure parent")
	}

	got := slices.Collect(tree.EnclosingBodies(20))
	if !slices.Equal(got, []hir.ItemLocalID{10, 0}) {
		t.Fatalf("EnclosingBodies(20) = %v", got)
	}

	tests := []struct {
		inner, outer hir.ItemLocalID
		want         bool
	}{
		{20, 0, true},
		{20, 10, true},
		{20, 20, true},
		{0, 20, false},
		{20, 30, false},
	}
	for _, tt := range tests {
		if got := tree.IsClosureNestedIn(tt.inner, tt.outer); got != tt.want {
			t.Errorf("IsClosureNestedIn(%d, %d) = %v, want %v", tt.inner, tt.outer, got, tt.want)
		}
	}
}

func TestRecordClosureParentRejects(t *testing.T) {
	tree := NewScopeTree(Options{})
	tree.RecordClosureParent(10, 0)
	tree.RecordClosureParent(20, 10)

	mustBug(t, "record_closure_parent", func() { tree.RecordClosureParent(5, 5) })
	mustBug(t, "record_closure_parent", func() { tree.RecordClosureParent(20, 0) })
	mustBug(t, "record_closure_parent", func() { tree.RecordClosureParent(0, 20) })
}

func TestRecordSuspensionPointKeepsLatest(t *testing.T) {
	tree := NewScopeTree(Options{})
	s := NodeScope(4)
	span := source.Span{File: 1, Start: 10, End: 20}

	tree.RecordSuspensionPoint(s, YieldData{Span: span, ExprAndPatCount: 3, Source: hir.YieldSourceYield})
	tree.RecordSuspensionPoint(s, YieldData{Span: span, ExprAndPatCount: 7, Source: hir.YieldSourceAwait})
	tree.RecordSuspensionPoint(s, YieldData{Span: span, ExprAndPatCount: 5, Source: hir.YieldSourceYield})

	got, ok := tree.SuspensionPoint(s)
	if !ok || got.ExprAndPatCount != 7 || got.Source != hir.YieldSourceAwait {
		t.Fatalf("SuspensionPoint() = %+v, %v", got, ok)
	}
	if _, ok := tree.SuspensionPoint(NodeScope(5)); ok {
		t.Fatalf("no suspension point in Node(5)")
	}
	mustBug(t, "record_suspension_point", func() {
		tree.RecordSuspensionPoint(s, YieldData{ExprAndPatCount: 0})
	})
}
