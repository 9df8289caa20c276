package hir

import "regions/internal/source"

// Block is the part of a block node the scope tree needs: its own span and
// the span of each statement in order.
type Block struct {
	Span  source.Span
	Stmts []source.Span
}

// Map exposes the item and body structure owned by the surrounding compiler.
// The scope tree consults it only to turn scopes into locations and to
// resolve which body a lifetime parameter belongs to.
type Map interface {
	// Span returns the full source range of a node, or source.NoSpan.
	Span(id HirID) source.Span
	// Block returns block details when id names a block node.
	Block(id HirID) (Block, bool)
	// DefParent returns the definition that declares def.
	DefParent(def DefID) (DefID, bool)
	// LocalHirID maps a definition declared in this crate to its node.
	LocalHirID(def DefID) (HirID, bool)
	// BodyOwnedBy returns the body of a body-bearing item (fn, closure, const).
	BodyOwnedBy(owner HirID) (BodyID, bool)
}

// DefPaths resolves owners to stable, order-independent names.
type DefPaths interface {
	DefPath(owner OwnerID) (string, bool)
}
