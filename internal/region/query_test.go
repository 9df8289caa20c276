package region

import (
	"testing"

	"regions/internal/hir"
)

func TestIsSubscopeOfReflexive(t *testing.T) {
	tree := blockTree(t)
	for _, s := range blockTreeScopes() {
		if !tree.IsSubscopeOf(s, s) {
			t.Fatalf("%v must be a subscope of itself", s)
		}
	}
	// unknown scopes too
	if !tree.IsSubscopeOf(NodeScope(99), NodeScope(99)) {
		t.Fatalf("unrecorded scope must be a subscope of itself")
	}
}

func TestIsSubscopeOf(t *testing.T) {
	tree := blockTree(t)
	tests := []struct {
		sub, sup Scope
		want     bool
	}{
		{NodeScope(3), NodeScope(2), true},
		{NodeScope(3), DestructionScope(2), true},
		{NodeScope(3), CallSiteScope(0), true},
		{NodeScope(5), RemainderScope(1, 0), true},
		{NodeScope(3), RemainderScope(1, 0), false},
		{NodeScope(1), NodeScope(3), false},
		{NodeScope(6), NodeScope(5), false},
		{NodeScope(99), NodeScope(1), false},
	}
	for _, tt := range tests {
		if got := tree.IsSubscopeOf(tt.sub, tt.sup); got != tt.want {
			t.Errorf("IsSubscopeOf(%v, %v) = %v, want %v", tt.sub, tt.sup, got, tt.want)
		}
	}
}

func TestScopesIntersect(t *testing.T) {
	tree := blockTree(t)
	if !tree.ScopesIntersect(NodeScope(1), NodeScope(6)) || !tree.ScopesIntersect(NodeScope(6), NodeScope(1)) {
		t.Fatalf("nested scopes must intersect both ways")
	}
	if tree.ScopesIntersect(NodeScope(3), NodeScope(6)) {
		t.Fatalf("sibling statements must not intersect")
	}
}

func TestNearestCommonAncestor(t *testing.T) {
	tree := blockTree(t)
	tests := []struct {
		a, b, want Scope
	}{
		{NodeScope(3), NodeScope(6), NodeScope(1)},
		{NodeScope(3), NodeScope(2), NodeScope(2)},
		{NodeScope(6), NodeScope(5), RemainderScope(1, 0)},
		{NodeScope(3), CallSiteScope(0), CallSiteScope(0)},
		{CallSiteScope(0), NodeScope(3), CallSiteScope(0)},
		{NodeScope(4), NodeScope(4), NodeScope(4)},
	}
	for _, tt := range tests {
		if got := tree.NearestCommonAncestor(tt.a, tt.b); got != tt.want {
			t.Errorf("NearestCommonAncestor(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNearestCommonAncestorProperties(t *testing.T) {
	tree := blockTree(t)
	scopes := blockTreeScopes()
	for _, a := range scopes {
		for _, b := range scopes {
			n := tree.NearestCommonAncestor(a, b)
			if m := tree.NearestCommonAncestor(b, a); m != n {
				t.Fatalf("NCA(%v, %v) = %v but NCA(%v, %v) = %v", a, b, n, b, a, m)
			}
			if !tree.IsSubscopeOf(a, n) || !tree.IsSubscopeOf(b, n) {
				t.Fatalf("NCA(%v, %v) = %v does not enclose both", a, b, n)
			}
			for _, c := range scopes {
				if tree.IsSubscopeOf(a, c) && tree.IsSubscopeOf(b, c) && !tree.IsSubscopeOf(n, c) {
					t.Fatalf("NCA(%v, %v) = %v is not minimal: %v encloses both", a, b, n, c)
				}
			}
		}
	}
}

func TestNearestCommonAncestorDisjointTrees(t *testing.T) {
	tree := NewScopeTree(Options{})
	tree.RecordScopeParent(NodeScope(2), CallSiteScope(1), 1)
	tree.RecordScopeParent(NodeScope(12), CallSiteScope(11), 1)
	mustBug(t, "nearest_common_ancestor", func() {
		tree.NearestCommonAncestor(NodeScope(2), NodeScope(12))
	})
}

func TestEnclScope(t *testing.T) {
	tree := blockTree(t)
	if got := tree.EnclScope(NodeScope(6)); got != NodeScope(4) {
		t.Fatalf("EnclScope(Node(6)) = %v", got)
	}
	mustBug(t, "encl_scope", func() { tree.EnclScope(CallSiteScope(0)) })
}

func TestContainingBody(t *testing.T) {
	tree := blockTree(t)
	if body, ok := tree.ContainingBody(NodeScope(6)); !ok || body != 0 {
		t.Fatalf("ContainingBody(Node(6)) = %d, %v", body, ok)
	}
	if body, ok := tree.ContainingBody(CallSiteScope(0)); !ok || body != 0 {
		t.Fatalf("ContainingBody(CallSite(0)) = %d, %v", body, ok)
	}

	orphan := NewScopeTree(Options{})
	orphan.RecordScopeParent(NodeScope(2), NodeScope(1), 1)
	if _, ok := orphan.ContainingBody(NodeScope(2)); ok {
		t.Fatalf("tree without a call site has no containing body")
	}
}

func TestChildrenAndRoots(t *testing.T) {
	tree := blockTree(t)
	kids := tree.Children()[RemainderScope(1, 0)]
	want := []Scope{DestructionScope(4), DestructionScope(5)}
	if len(kids) != len(want) {
		t.Fatalf("Children(rem) = %v", kids)
	}
	for i := range want {
		if kids[i] != want[i] {
			t.Fatalf("Children(rem) = %v, want %v", kids, want)
		}
	}
	roots := tree.Roots()
	if len(roots) != 1 || roots[0] != CallSiteScope(0) {
		t.Fatalf("Roots() = %v", roots)
	}
}

func TestScopeString(t *testing.T) {
	tests := []struct {
		s    Scope
		want string
	}{
		{NodeScope(3), "Node(3)"},
		{CallSiteScope(0), "CallSite(0)"},
		{ArgumentsScope(7), "Arguments(7)"},
		{DestructionScope(4), "Destruction(4)"},
		{RemainderScope(2, 1), "Remainder{block: 2, first_statement_index: 1}"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestScopeHirID(t *testing.T) {
	tree := NewScopeTree(Options{RootBody: hirID(3, 7)})
	if got := NodeScope(4).HirID(tree); got != hirID(3, 4) {
		t.Fatalf("HirID = %v", got)
	}
	if got := NodeScope(4).HirID(NewScopeTree(Options{})); got != hir.DummyHirID {
		t.Fatalf("HirID without root body = %v", got)
	}
}
