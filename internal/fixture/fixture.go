// Package fixture loads a TOML description of one body's scope structure
// and replays it into a region.ScopeTree, standing in for the walker that
// would normally discover the scopes.
//
// A fixture has four parts:
//
//	[body]      owner def path, root block, optional root_parent and counts
//	[[nodes]]   spans of nodes; nodes with stmts are blocks
//	[[defs]]    definitions with their parents, for free-region queries
//	[[record]]  recording calls, replayed in file order
package fixture

import (
	"errors"
	"fmt"
	"strings"

	"regions/internal/diag"
	"regions/internal/hir"
	"regions/internal/region"
)

// File is the decoded TOML document.
type File struct {
	Body    Body     `toml:"body"`
	Nodes   []Node   `toml:"nodes"`
	Defs    []Def    `toml:"defs"`
	Records []Record `toml:"record"`
}

// Body names the body the tree is built for.
type Body struct {
	Owner string `toml:"owner"`
	Root  int64  `toml:"root"`
	// Parent is the def path of the trait or impl owning the body, if any.
	Parent      string `toml:"parent"`
	ParentLocal int64  `toml:"parent_local"`
	ExprCount   int64  `toml:"expr_count"`
}

// Node gives a node of the body owner its span. Stmts makes it a block.
type Node struct {
	ID    int64     `toml:"id"`
	Span  []int64   `toml:"span"`
	Stmts [][]int64 `toml:"stmts"`
}

// Def is a definition. Local defs live at (Owner, Local); Body marks the
// owner node as body-bearing with the given root block.
type Def struct {
	ID      int64  `toml:"id"`
	Parent  int64  `toml:"parent"`
	Name    string `toml:"name"`
	Index   int64  `toml:"index"`
	Owner   string `toml:"owner"`
	Local   int64  `toml:"local"`
	Body    *int64 `toml:"body"`
	Foreign bool   `toml:"foreign"`
}

// Record is one recording call. Op selects which fields are read:
//
//	parent      child, parent, depth
//	root        scope
//	var         var, scope
//	rvalue      expr, scope | static = true
//	closure     inner, outer
//	yield       scope, count, source, span
//	body_count  body, count
type Record struct {
	Op     string  `toml:"op"`
	Child  string  `toml:"child"`
	Parent string  `toml:"parent"`
	Depth  int64   `toml:"depth"`
	Scope  string  `toml:"scope"`
	Var    int64   `toml:"var"`
	Expr   int64   `toml:"expr"`
	Static bool    `toml:"static"`
	Inner  int64   `toml:"inner"`
	Outer  int64   `toml:"outer"`
	Count  int64   `toml:"count"`
	Source string  `toml:"source"`
	Span   []int64 `toml:"span"`
	Body   int64   `toml:"body"`
}

// Fixture is a loaded and replayed fixture.
type Fixture struct {
	Path  string
	Owner hir.OwnerID
	Table *hir.Table
	Tree  *region.ScopeTree
	// Names maps definitions to their declared names.
	Names map[hir.DefID]string
	defs  map[hir.DefID]Def
}

// EarlyBound describes the lifetime parameter def as an early-bound region.
func (f *Fixture) EarlyBound(def hir.DefID) (hir.EarlyBoundRegion, bool) {
	d, ok := f.defs[def]
	if !ok {
		return hir.EarlyBoundRegion{}, false
	}
	idx, err := toUint32("index", d.Index)
	if err != nil {
		return hir.EarlyBoundRegion{}, false
	}
	return hir.EarlyBoundRegion{Def: def, Index: idx, Name: d.Name}, true
}

// Error is a fixture problem tagged with a diagnostic code.
type Error struct {
	Code diag.Code
	Path string
	// Record is the index of the offending [[record]] entry, or -1.
	Record int
	Err    error
}

func (e *Error) Error() string {
	if e.Record >= 0 {
		return fmt.Sprintf("%s: record %d: %s: %v", e.Path, e.Record, e.Code.ID(), e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Code.ID(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrMissingOwner is reported for fixtures without body.owner.
var ErrMissingOwner = errors.New("body.owner is required")

// CodeOf returns the diagnostic code carried by err, or diag.FixtureInfo.
func CodeOf(err error) diag.Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return diag.FixtureInfo
}

func parseYieldSource(s string) (hir.YieldSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yield":
		return hir.YieldSourceYield, nil
	case "await":
		return hir.YieldSourceAwait, nil
	default:
		return 0, fmt.Errorf("unknown yield source %q", s)
	}
}
