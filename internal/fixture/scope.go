package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"regions/internal/hir"
	"regions/internal/region"
)

var kindPrefixes = map[string]region.ScopeKind{
	"node":     region.KindNode,
	"callsite": region.KindCallSite,
	"args":     region.KindArguments,
	"dtor":     region.KindDestruction,
	"rem":      region.KindRemainder,
}

// ParseScope reads the short scope syntax used in fixtures and on the
// command line: node:4, callsite:0, args:0, dtor:3, rem:2/0.
func ParseScope(s string) (region.Scope, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return region.Scope{}, fmt.Errorf("scope %q: want kind:id", s)
	}
	kind, ok := kindPrefixes[strings.ToLower(prefix)]
	if !ok {
		return region.Scope{}, fmt.Errorf("scope %q: unknown kind %q", s, prefix)
	}
	if kind != region.KindRemainder {
		id, err := ParseID(rest)
		if err != nil {
			return region.Scope{}, fmt.Errorf("scope %q: %w", s, err)
		}
		return region.Scope{ID: id, Kind: kind}, nil
	}

	blockPart, stmtPart, ok := strings.Cut(rest, "/")
	if !ok {
		return region.Scope{}, fmt.Errorf("scope %q: remainder wants rem:block/index", s)
	}
	block, err := ParseID(blockPart)
	if err != nil {
		return region.Scope{}, fmt.Errorf("scope %q: %w", s, err)
	}
	first, err := strconv.ParseUint(stmtPart, 10, 32)
	if err != nil {
		return region.Scope{}, fmt.Errorf("scope %q: bad statement index: %w", s, err)
	}
	return region.RemainderScope(block, region.FirstStatementIndex(first)), nil
}

// ParseID reads a decimal item-local id.
func ParseID(s string) (hir.ItemLocalID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad id %q: %w", s, err)
	}
	return hir.ItemLocalID(n), nil
}

// FormatScope is the inverse of ParseScope.
func FormatScope(s region.Scope) string {
	switch s.Kind {
	case region.KindNode:
		return fmt.Sprintf("node:%d", s.ID)
	case region.KindCallSite:
		return fmt.Sprintf("callsite:%d", s.ID)
	case region.KindArguments:
		return fmt.Sprintf("args:%d", s.ID)
	case region.KindDestruction:
		return fmt.Sprintf("dtor:%d", s.ID)
	case region.KindRemainder:
		return fmt.Sprintf("rem:%d/%d", s.ID, s.FirstStatement)
	default:
		return s.String()
	}
}

func toUint32(field string, n int64) (uint32, error) {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func toLocal(field string, n int64) (hir.ItemLocalID, error) {
	v, err := toUint32(field, n)
	return hir.ItemLocalID(v), err
}

func toDef(field string, n int64) (hir.DefID, error) {
	v, err := toUint32(field, n)
	return hir.DefID(v), err
}
