package region

import (
	"errors"
	"strings"
	"testing"

	"regions/internal/hir"
	"regions/internal/trace"
)

func TestRecordScopeParentRoundTrip(t *testing.T) {
	tree := blockTree(t)
	for child, parent := range tree.ParentLinks() {
		got, ok := tree.EnclosingScope(child)
		if !ok || got != parent {
			t.Fatalf("EnclosingScope(%v) = %v, %v; want %v", child, got, ok, parent)
		}
		if tree.Depth(parent)+1 != tree.Depth(child) {
			t.Fatalf("depth(%v)=%d, depth(%v)=%d", parent, tree.Depth(parent), child, tree.Depth(child))
		}
	}
	if _, ok := tree.EnclosingScope(CallSiteScope(0)); ok {
		t.Fatalf("root must have no enclosing scope")
	}
	if tree.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", tree.Len())
	}
}

func TestRecordScopeParentDuplicate(t *testing.T) {
	tree := NewScopeTree(Options{})
	tree.RecordScopeParent(NodeScope(2), NodeScope(1), 1)
	be := mustBug(t, "record_scope_parent", func() {
		tree.RecordScopeParent(NodeScope(2), NodeScope(1), 1)
	})
	if !strings.Contains(be.Msg, "already has parent") {
		t.Fatalf("unexpected message %q", be.Msg)
	}
}

func TestRecordScopeParentRejects(t *testing.T) {
	tests := []struct {
		name  string
		build func(*ScopeTree)
	}{
		{
			name: "self parent",
			build: func(tr *ScopeTree) {
				tr.RecordScopeParent(NodeScope(1), NodeScope(1), 1)
			},
		},
		{
			name: "zero depth",
			build: func(tr *ScopeTree) {
				tr.RecordScopeParent(NodeScope(2), NodeScope(1), 0)
			},
		},
		{
			name: "depth skips a level",
			build: func(tr *ScopeTree) {
				tr.RecordScopeParent(NodeScope(2), NodeScope(1), 1)
				tr.RecordScopeParent(NodeScope(3), NodeScope(2), 3)
			},
		},
		{
			name: "siblings disagree on parent depth",
			build: func(tr *ScopeTree) {
				tr.RecordScopeParent(NodeScope(3), NodeScope(2), 2)
				tr.RecordScopeParent(NodeScope(4), NodeScope(2), 5)
			},
		},
		{
			name: "postorder parent at wrong depth",
			build: func(tr *ScopeTree) {
				tr.RecordScopeParent(NodeScope(3), NodeScope(2), 4)
				tr.RecordScopeParent(NodeScope(2), NodeScope(1), 5)
			},
		},
		{
			name: "cycle",
			build: func(tr *ScopeTree) {
				tr.RecordScopeParent(NodeScope(2), NodeScope(1), 2)
				tr.RecordScopeParent(NodeScope(1), NodeScope(2), 1)
			},
		},
		{
			name: "child of a root below depth 1",
			build: func(tr *ScopeTree) {
				tr.RecordRootScope(DestructionScope(1))
				tr.RecordScopeParent(NodeScope(1), DestructionScope(1), 2)
			},
		},
		{
			name: "root recorded as child",
			build: func(tr *ScopeTree) {
				tr.RecordRootScope(DestructionScope(1))
				tr.RecordScopeParent(DestructionScope(1), NodeScope(0), 1)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewScopeTree(Options{})
			mustBug(t, "record_scope_parent", func() { tt.build(tree) })
		})
	}
}

func TestRecordScopeParentPostorder(t *testing.T) {
	tree := NewScopeTree(Options{})
	// leaves first, as a postorder walker would
	tree.RecordScopeParent(NodeScope(5), DestructionScope(5), 4)
	tree.RecordScopeParent(DestructionScope(5), RemainderScope(1, 0), 3)
	tree.RecordScopeParent(RemainderScope(1, 0), NodeScope(1), 2)
	tree.RecordScopeParent(NodeScope(1), CallSiteScope(0), 1)

	if err := tree.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := tree.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if got := tree.NearestCommonAncestor(NodeScope(5), NodeScope(1)); got != NodeScope(1) {
		t.Fatalf("NearestCommonAncestor = %v", got)
	}
}

func TestValidateReportsDanglingDepth(t *testing.T) {
	tree := NewScopeTree(Options{})
	tree.RecordScopeParent(NodeScope(2), NodeScope(1), 3)

	err := tree.Validate()
	if !errors.Is(err, ErrDepth) {
		t.Fatalf("Validate() = %v, want ErrDepth", err)
	}
	if err := tree.Freeze(); err == nil {
		t.Fatalf("Freeze must fail on an invalid tree")
	}
	if tree.Frozen() {
		t.Fatalf("tree must stay in the building phase")
	}
}

func TestRecordRootScopeDestruction(t *testing.T) {
	tree := NewScopeTree(Options{})
	tree.RecordRootScope(DestructionScope(9))
	tree.RecordScopeParent(NodeScope(9), DestructionScope(9), 1)

	got, ok := tree.DestructionScope(9)
	if !ok || got != DestructionScope(9) {
		t.Fatalf("DestructionScope(9) = %v, %v", got, ok)
	}
	roots := tree.Roots()
	if len(roots) != 1 || roots[0] != DestructionScope(9) {
		t.Fatalf("Roots() = %v", roots)
	}
	mustBug(t, "record_root_scope", func() { tree.RecordRootScope(NodeScope(9)) })
}

func TestRecordDestructionScopeIndexes(t *testing.T) {
	tree := blockTree(t)
	for _, n := range []hir.ItemLocalID{2, 4, 5} {
		got, ok := tree.DestructionScope(n)
		if !ok || got != DestructionScope(n) {
			t.Fatalf("DestructionScope(%d) = %v, %v", n, got, ok)
		}
	}
	if _, ok := tree.DestructionScope(3); ok {
		t.Fatalf("node 3 has no destruction scope")
	}
}

func TestFreezeStopsRecording(t *testing.T) {
	tree := blockTree(t)
	if err := tree.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if err := tree.Freeze(); !errors.Is(err, ErrFrozen) {
		t.Fatalf("second Freeze() = %v, want ErrFrozen", err)
	}
	mustBug(t, "record_var_scope", func() { tree.RecordVarScope(7, NodeScope(1)) })
	mustBug(t, "record_scope_parent", func() { tree.RecordScopeParent(NodeScope(7), NodeScope(1), 2) })

	// queries keep working
	if !tree.IsSubscopeOf(NodeScope(3), NodeScope(1)) {
		t.Fatalf("frozen tree lost its links")
	}
}

func TestBodyExprCount(t *testing.T) {
	tree := NewScopeTree(Options{})
	body := hir.BodyID{Value: hirID(1, 4)}
	if _, ok := tree.BodyExprCount(body); ok {
		t.Fatalf("unexpected count")
	}
	tree.RecordBodyExprCount(body, 12)
	if n, ok := tree.BodyExprCount(body); !ok || n != 12 {
		t.Fatalf("BodyExprCount() = %d, %v", n, ok)
	}
	mustBug(t, "record_body_expr_count", func() { tree.RecordBodyExprCount(body, -1) })
}

func TestTreeEmitsDebugEvents(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	tree := NewScopeTree(Options{Tracer: ring})
	tree.RecordScopeParent(NodeScope(2), NodeScope(1), 1)
	tree.TemporaryScope(2)

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Name != "record_scope_parent" || events[0].Detail != "Node(2).parent = Node(1) depth=1" {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if events[1].Name != "temporary_scope" || events[1].Scope != trace.ScopeNode {
		t.Fatalf("unexpected second event %+v", events[1])
	}

	quiet := trace.NewRingTracer(64, trace.LevelDetail)
	tree = NewScopeTree(Options{Tracer: quiet})
	tree.RecordScopeParent(NodeScope(2), NodeScope(1), 1)
	if n := len(quiet.Snapshot()); n != 0 {
		t.Fatalf("detail level must not see node events, got %d", n)
	}
}
