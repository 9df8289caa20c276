package testkit

import (
	"strings"
	"testing"

	"regions/internal/diag"
	"regions/internal/hir"
	"regions/internal/region"
)

func sampleTree() *region.ScopeTree {
	tree := region.NewScopeTree(region.Options{})
	tree.RecordScopeParent(region.NodeScope(1), region.CallSiteScope(0), 1)
	tree.RecordScopeParent(region.DestructionScope(2), region.NodeScope(1), 2)
	tree.RecordScopeParent(region.NodeScope(2), region.DestructionScope(2), 3)
	tree.RecordRootScope(region.DestructionScope(9))
	tree.RecordVarScope(3, region.RemainderScope(1, 0))
	tree.RecordRvalueScope(2, region.NodeScope(1))
	tree.RecordStaticRvalueScope(4)
	tree.RecordClosureParent(10, 0)
	tree.RecordBodyExprCount(hir.BodyID{Value: hir.HirID{Owner: 1, Local: 0}}, 6)
	return tree
}

func TestCheckScopeTreeClean(t *testing.T) {
	tree := sampleTree()
	tree.RecordSuspensionPoint(region.NodeScope(2), region.YieldData{ExprAndPatCount: 6})
	if err := CheckScopeTree(tree); err != nil {
		t.Fatalf("unexpected violations: %v", err)
	}
}

func TestCheckScopeTreeYieldCount(t *testing.T) {
	tree := sampleTree()
	tree.RecordSuspensionPoint(region.NodeScope(2), region.YieldData{ExprAndPatCount: 7})

	vs := Violations(tree)
	codes := Codes(vs)
	if len(codes) != 1 || codes[0] != diag.InvariantYieldCount {
		t.Fatalf("codes = %v", codes)
	}
	err := CheckScopeTree(tree)
	if err == nil || !strings.Contains(err.Error(), "INV3005") {
		t.Fatalf("CheckScopeTree() = %v", err)
	}
}

func TestCheckScopeTreeWithoutBodyCounts(t *testing.T) {
	tree := region.NewScopeTree(region.Options{})
	tree.RecordSuspensionPoint(region.NodeScope(2), region.YieldData{ExprAndPatCount: 100})
	if err := CheckScopeTree(tree); err != nil {
		t.Fatalf("counts are unchecked without body totals: %v", err)
	}
}

func TestCheckScopeTreeNil(t *testing.T) {
	vs := Violations(nil)
	if len(vs) != 1 || vs[0].Code != diag.InvariantInfo {
		t.Fatalf("Violations(nil) = %v", vs)
	}
}
