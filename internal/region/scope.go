package region

import (
	"cmp"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"regions/internal/hir"
	"regions/internal/source"
)

// ScopeKind tags the flavor of a Scope.
type ScopeKind uint8

const (
	// KindNode is the ordinary scope of a syntax construct.
	KindNode ScopeKind = iota
	// KindCallSite is the scope of a function or closure invocation.
	// It outlives both the arguments and the body.
	KindCallSite
	// KindArguments is the scope of the parameters; it outlives the body.
	KindArguments
	// KindDestruction is the scope in which temporaries and bindings of the
	// node are torn down. It is recorded as the parent of the node scope
	// with the same id: the parent relation means "lives at least as long
	// as", not "runs before".
	KindDestruction
	// KindRemainder is the suffix of a block that follows the initializer
	// of the statement at FirstStatement. The initializer is not included.
	KindRemainder
)

func (k ScopeKind) String() string {
	switch k {
	case KindNode:
		return "Node"
	case KindCallSite:
		return "CallSite"
	case KindArguments:
		return "Arguments"
	case KindDestruction:
		return "Destruction"
	case KindRemainder:
		return "Remainder"
	default:
		return fmt.Sprintf("ScopeKind(%d)", uint8(k))
	}
}

// FirstStatementIndex indexes the statement of a block that introduces the
// bindings of a remainder scope.
//
// Given `{ let (a, b) = E1; let c = E2; ... }`, the remainder with index 0 is
// the scope of a and b: it excludes E1 but covers everything after the first
// let. The remainder with index 1 is the scope of c.
type FirstStatementIndex uint32

// Scope is a statically describable region that can bound the lifetime of
// values. Two scopes are equal when id, kind and statement index are equal.
type Scope struct {
	ID   hir.ItemLocalID
	Kind ScopeKind
	// FirstStatement is only meaningful for KindRemainder and zero otherwise.
	FirstStatement FirstStatementIndex
}

func NodeScope(id hir.ItemLocalID) Scope        { return Scope{ID: id, Kind: KindNode} }
func CallSiteScope(id hir.ItemLocalID) Scope    { return Scope{ID: id, Kind: KindCallSite} }
func ArgumentsScope(id hir.ItemLocalID) Scope   { return Scope{ID: id, Kind: KindArguments} }
func DestructionScope(id hir.ItemLocalID) Scope { return Scope{ID: id, Kind: KindDestruction} }

// RemainderScope returns the scope of block following statement first.
func RemainderScope(block hir.ItemLocalID, first FirstStatementIndex) Scope {
	return Scope{ID: block, Kind: KindRemainder, FirstStatement: first}
}

// ItemLocalID returns the node this scope is attached to.
func (s Scope) ItemLocalID() hir.ItemLocalID {
	return s.ID
}

func (s Scope) String() string {
	if s.Kind == KindRemainder {
		return fmt.Sprintf("Remainder{block: %d, first_statement_index: %d}", s.ID, s.FirstStatement)
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.ID)
}

// Compare orders scopes by id, then kind, then statement index.
func Compare(a, b Scope) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.FirstStatement, b.FirstStatement)
}

// HirID resolves the scope to a full node id using the tree's root body.
// It returns hir.DummyHirID when the tree has no root body.
func (s Scope) HirID(tree *ScopeTree) hir.HirID {
	if tree == nil || !tree.RootBody.IsValid() {
		return hir.DummyHirID
	}
	return hir.HirID{Owner: tree.RootBody.Owner, Local: s.ItemLocalID()}
}

// Span returns the source range of the scope. In general it need not match
// the span of any node: a remainder covers the block from the end of its
// statement to the end of the block.
func (s Scope) Span(m hir.Map, tree *ScopeTree) source.Span {
	id := s.HirID(tree)
	if !id.IsValid() || m == nil {
		return source.NoSpan
	}
	span := m.Span(id)
	if s.Kind != KindRemainder {
		return span
	}
	blk, ok := m.Block(id)
	if !ok || int(s.FirstStatement) >= len(blk.Stmts) {
		return span
	}
	stmt := blk.Stmts[s.FirstStatement]
	// Macro-expanded statements may carry spans from elsewhere; only trust
	// the statement when it starts inside the block.
	if stmt.File != span.File || !span.ContainsPos(stmt.Start) {
		return span
	}
	// Starts after the statement, not at it: the remainder excludes the
	// initializer. Keep stmt.End here.
	return span.Suffix(stmt.End)
}

// EncodeMsgpack writes the canonical form used for stable hashing.
func (s Scope) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeUint(uint64(s.ID)); err != nil {
		return err
	}
	if err := enc.EncodeUint(uint64(s.Kind)); err != nil {
		return err
	}
	return enc.EncodeUint(uint64(s.FirstStatement))
}

var _ msgpack.CustomEncoder = Scope{}
