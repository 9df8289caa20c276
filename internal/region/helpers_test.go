package region

import (
	"testing"

	"regions/internal/hir"
)

// mustBug runs f and fails unless it panics with a *BugError for op.
func mustBug(t *testing.T, op string, f func()) *BugError {
	t.Helper()
	var got *BugError
	func() {
		defer func() {
			r := recover()
			be, ok := AsBug(r)
			if !ok {
				t.Fatalf("%s: expected *BugError panic, got %v", op, r)
			}
			got = be
		}()
		f()
	}()
	if got.Op != op {
		t.Fatalf("panic from %q, want %q (%v)", got.Op, op, got)
	}
	return got
}

// blockTree builds
//
//	CallSite(0)                      depth 0
//	└─ Node(1)            block B    depth 1
//	   ├─ Destruction(2)             depth 2
//	   │  └─ Node(2)      stmt       depth 3
//	   │     └─ Node(3)   expr       depth 4
//	   └─ Remainder{1,0}             depth 2
//	      ├─ Destruction(4)          depth 3
//	      │  └─ Node(4)   stmt       depth 4
//	      │     └─ Node(6) expr      depth 5
//	      └─ Destruction(5)          depth 3
//	         └─ Node(5)   temp       depth 4
func blockTree(t *testing.T) *ScopeTree {
	t.Helper()
	tree := NewScopeTree(Options{})
	root := CallSiteScope(0)
	b := NodeScope(1)
	rem := RemainderScope(1, 0)

	tree.RecordScopeParent(b, root, 1)
	tree.RecordScopeParent(DestructionScope(2), b, 2)
	tree.RecordScopeParent(NodeScope(2), DestructionScope(2), 3)
	tree.RecordScopeParent(NodeScope(3), NodeScope(2), 4)
	tree.RecordScopeParent(rem, b, 2)
	tree.RecordScopeParent(DestructionScope(4), rem, 3)
	tree.RecordScopeParent(NodeScope(4), DestructionScope(4), 4)
	tree.RecordScopeParent(NodeScope(6), NodeScope(4), 5)
	tree.RecordScopeParent(DestructionScope(5), rem, 3)
	tree.RecordScopeParent(NodeScope(5), DestructionScope(5), 4)
	return tree
}

func blockTreeScopes() []Scope {
	return []Scope{
		CallSiteScope(0),
		NodeScope(1),
		DestructionScope(2), NodeScope(2), NodeScope(3),
		RemainderScope(1, 0),
		DestructionScope(4), NodeScope(4), NodeScope(6),
		DestructionScope(5), NodeScope(5),
	}
}

func hirID(owner hir.OwnerID, local hir.ItemLocalID) hir.HirID {
	return hir.HirID{Owner: owner, Local: local}
}
