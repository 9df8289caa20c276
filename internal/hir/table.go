package hir

import (
	"fmt"

	"fortio.org/safecast"

	"regions/internal/source"
)

type defEntry struct {
	parent DefID
	node   HirID
	local  bool
}

// Table is an in-memory Map. Tests and the scopetree tool build one by hand;
// a compiler would implement Map over its own node storage instead.
type Table struct {
	owners []string // index 0 reserved for NoOwnerID
	spans  map[HirID]source.Span
	blocks map[HirID]Block
	defs   map[DefID]defEntry
	bodies map[HirID]BodyID
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		owners: make([]string, 1, 8),
		spans:  make(map[HirID]source.Span),
		blocks: make(map[HirID]Block),
		defs:   make(map[DefID]defEntry),
		bodies: make(map[HirID]BodyID),
	}
}

// NewOwner allocates an owner with a def path used for stable hashing.
func (t *Table) NewOwner(path string) OwnerID {
	value, err := safecast.Conv[uint32](len(t.owners))
	if err != nil {
		panic(fmt.Errorf("hir: owner table overflow: %w", err))
	}
	t.owners = append(t.owners, path)
	return OwnerID(value)
}

// Owners reports the number of allocated owners.
func (t *Table) Owners() int { return len(t.owners) - 1 }

// AddNode records the span of a node.
func (t *Table) AddNode(id HirID, span source.Span) {
	t.spans[id] = span
}

// AddBlock records a block node together with its statement spans.
func (t *Table) AddBlock(id HirID, span source.Span, stmts ...source.Span) {
	t.spans[id] = span
	t.blocks[id] = Block{Span: span, Stmts: append([]source.Span(nil), stmts...)}
}

// AddDef records a local definition declared by parent and located at node.
func (t *Table) AddDef(def, parent DefID, node HirID) {
	if !def.IsValid() {
		panic("hir: AddDef with NoDefID")
	}
	t.defs[def] = defEntry{parent: parent, node: node, local: true}
}

// AddForeignDef records a definition from another crate: it has a parent
// but no local node.
func (t *Table) AddForeignDef(def, parent DefID) {
	if !def.IsValid() {
		panic("hir: AddForeignDef with NoDefID")
	}
	t.defs[def] = defEntry{parent: parent}
}

// SetBody marks owner as body-bearing.
func (t *Table) SetBody(owner HirID, body BodyID) {
	t.bodies[owner] = body
}

func (t *Table) Span(id HirID) source.Span {
	if span, ok := t.spans[id]; ok {
		return span
	}
	return source.NoSpan
}

func (t *Table) Block(id HirID) (Block, bool) {
	b, ok := t.blocks[id]
	return b, ok
}

func (t *Table) DefParent(def DefID) (DefID, bool) {
	e, ok := t.defs[def]
	if !ok || !e.parent.IsValid() {
		return NoDefID, false
	}
	return e.parent, true
}

func (t *Table) LocalHirID(def DefID) (HirID, bool) {
	e, ok := t.defs[def]
	if !ok || !e.local {
		return DummyHirID, false
	}
	return e.node, true
}

func (t *Table) BodyOwnedBy(owner HirID) (BodyID, bool) {
	b, ok := t.bodies[owner]
	return b, ok
}

// DefPath implements DefPaths.
func (t *Table) DefPath(owner OwnerID) (string, bool) {
	if !owner.IsValid() || int(owner) >= len(t.owners) {
		return "", false
	}
	return t.owners[owner], true
}

var (
	_ Map      = (*Table)(nil)
	_ DefPaths = (*Table)(nil)
)
