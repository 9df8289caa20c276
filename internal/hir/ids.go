// Package hir provides the identifier vocabulary shared between the body
// walker and the region scope tree.
//
// Every syntax node inside an item is addressed by a HirID: the owning item
// plus a small dense ItemLocalID. Scope trees only store ItemLocalIDs; the
// owner is recovered from the tree's root body when a full HirID is needed
// for diagnostics.
package hir

import "fmt"

// ItemLocalID identifies a node relative to its owner. Dense, starting at 0.
type ItemLocalID uint32

// OwnerID identifies the item that owns a group of nodes.
type OwnerID uint32

// DefID identifies a definition (item, generic parameter, lifetime parameter).
type DefID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoOwnerID OwnerID = 0
	NoDefID   DefID   = 0
)

func (id OwnerID) IsValid() bool { return id != NoOwnerID }
func (id DefID) IsValid() bool   { return id != NoDefID }

// HirID is the full address of a node.
type HirID struct {
	Owner OwnerID
	Local ItemLocalID
}

// DummyHirID is returned when no owner is known.
var DummyHirID = HirID{}

// IsValid reports whether the id has a real owner.
func (id HirID) IsValid() bool { return id.Owner.IsValid() }

func (id HirID) String() string {
	if !id.IsValid() {
		return "HirID(dummy)"
	}
	return fmt.Sprintf("HirID(%d.%d)", id.Owner, id.Local)
}

// BodyID names a body by the HirID of its value expression.
type BodyID struct {
	Value HirID
}

func (id BodyID) IsValid() bool { return id.Value.IsValid() }

func (id BodyID) String() string {
	return fmt.Sprintf("Body(%d.%d)", id.Value.Owner, id.Value.Local)
}

// YieldSource tells which construct introduced a suspension point.
type YieldSource uint8

const (
	YieldSourceYield YieldSource = iota // explicit yield in a generator body
	YieldSourceAwait                    // desugared await
)

func (s YieldSource) String() string {
	switch s {
	case YieldSourceYield:
		return "yield"
	case YieldSourceAwait:
		return "await"
	default:
		return "unknown"
	}
}
