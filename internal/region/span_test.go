package region

import (
	"testing"

	"regions/internal/hir"
	"regions/internal/source"
)

func TestScopeSpan(t *testing.T) {
	tbl := hir.NewTable()
	owner := tbl.NewOwner("crate::f")
	block := source.Span{File: 1, Start: 100, End: 200}
	tbl.AddBlock(hirID(owner, 1), block,
		source.Span{File: 1, Start: 110, End: 130},
		source.Span{File: 1, Start: 135, End: 150},
		// expanded from a macro defined elsewhere
		source.Span{File: 1, Start: 500, End: 510},
		source.Span{File: 2, Start: 160, End: 170},
	)
	tbl.AddNode(hirID(owner, 4), source.Span{File: 1, Start: 112, End: 120})

	tree := NewScopeTree(Options{RootBody: hirID(owner, 1)})
	tests := []struct {
		name  string
		scope Scope
		want  source.Span
	}{
		{"block", NodeScope(1), block},
		{"destruction uses the node", DestructionScope(4), source.Span{File: 1, Start: 112, End: 120}},
		{"first remainder", RemainderScope(1, 0), source.Span{File: 1, Start: 130, End: 200}},
		{"second remainder", RemainderScope(1, 1), source.Span{File: 1, Start: 150, End: 200}},
		{"statement outside the block", RemainderScope(1, 2), block},
		{"statement in another file", RemainderScope(1, 3), block},
		{"index past the end", RemainderScope(1, 9), block},
		{"unknown node", NodeScope(77), source.NoSpan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Span(tbl, tree); got != tt.want {
				t.Fatalf("Span() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := NodeScope(1).Span(tbl, NewScopeTree(Options{})); !got.IsNone() {
		t.Fatalf("tree without root body must give no span, got %v", got)
	}
}
