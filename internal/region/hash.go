package region

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"regions/internal/hir"
)

// fingerprintSchema changes whenever the canonical stream below changes.
const fingerprintSchema = "scopetree/v2"

// Digest is a fixed 256-bit hash.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d is the zero digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// stableEncoder keeps the first error so the walk below stays linear.
type stableEncoder struct {
	enc   *msgpack.Encoder
	paths hir.DefPaths
	err   error
}

func (e *stableEncoder) do(f func(*msgpack.Encoder) error) {
	if e.err != nil {
		return
	}
	e.err = f(e.enc)
}

func (e *stableEncoder) putLen(n int) { e.do(func(enc *msgpack.Encoder) error { return enc.EncodeArrayLen(n) }) }
func (e *stableEncoder) putUint(n uint64) { e.do(func(enc *msgpack.Encoder) error { return enc.EncodeUint(n) }) }
func (e *stableEncoder) putInt(n int64) { e.do(func(enc *msgpack.Encoder) error { return enc.EncodeInt(n) }) }
func (e *stableEncoder) putBool(v bool) { e.do(func(enc *msgpack.Encoder) error { return enc.EncodeBool(v) }) }
func (e *stableEncoder) putStr(s string) { e.do(func(enc *msgpack.Encoder) error { return enc.EncodeString(s) }) }
func (e *stableEncoder) putNil() { e.do(func(enc *msgpack.Encoder) error { return enc.EncodeNil() }) }

func (e *stableEncoder) putValue(v msgpack.CustomEncoder) {
	e.do(v.EncodeMsgpack)
}

// putHirID hashes the owner by def path when one is known, so that trees of
// the same item hash alike regardless of owner numbering.
func (e *stableEncoder) putHirID(id hir.HirID) {
	if !id.IsValid() {
		e.putNil()
		return
	}
	e.putLen(2)
	if e.paths != nil {
		if path, ok := e.paths.DefPath(id.Owner); ok {
			e.putStr(path)
			e.putUint(uint64(id.Local))
			return
		}
	}
	e.putUint(uint64(id.Owner))
	e.putUint(uint64(id.Local))
}

// compareBody orders bodies the way putHirID names them: by def path when
// one is known, so renumbered owners sort alike. Bodies without a path
// follow, by raw owner.
func (e *stableEncoder) compareBody(a, b hir.BodyID) int {
	if e.paths != nil {
		pa, oka := e.paths.DefPath(a.Value.Owner)
		pb, okb := e.paths.DefPath(b.Value.Owner)
		switch {
		case oka && okb:
			if c := cmp.Compare(pa, pb); c != 0 {
				return c
			}
			return cmp.Compare(a.Value.Local, b.Value.Local)
		case oka:
			return -1
		case okb:
			return 1
		}
	}
	return compareBody(a, b)
}

// Fingerprint hashes the whole tree. Every map is hashed as a sequence sorted
// by key, so the result depends on content only and not on the order in which
// the walker recorded it. paths may be nil.
func (t *ScopeTree) Fingerprint(paths hir.DefPaths) (Digest, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	e := &stableEncoder{enc: enc, paths: paths}

	e.putStr(fingerprintSchema)
	e.putHirID(t.RootBody)
	e.putHirID(t.RootParent)

	bodies := slices.SortedFunc(maps.Keys(t.bodyExprCount), e.compareBody)
	e.putLen(len(bodies))
	for _, b := range bodies {
		e.putHirID(b.Value)
		e.putInt(int64(t.bodyExprCount[b]))
	}

	children := slices.SortedFunc(maps.Keys(t.parentMap), Compare)
	e.putLen(len(children))
	for _, c := range children {
		pe := t.parentMap[c]
		e.putValue(c)
		e.putValue(pe.parent)
		e.putUint(uint64(pe.depth))
	}

	roots := slices.SortedFunc(maps.Keys(t.roots), Compare)
	e.putLen(len(roots))
	for _, r := range roots {
		e.putValue(r)
	}

	vars := slices.Sorted(maps.Keys(t.varMap))
	e.putLen(len(vars))
	for _, v := range vars {
		e.putUint(uint64(v))
		e.putValue(t.varMap[v])
	}

	dtors := slices.Sorted(maps.Keys(t.destructionScopes))
	e.putLen(len(dtors))
	for _, n := range dtors {
		e.putUint(uint64(n))
		e.putValue(t.destructionScopes[n])
	}

	rvalues := slices.Sorted(maps.Keys(t.rvalueScopes))
	e.putLen(len(rvalues))
	for _, x := range rvalues {
		o := t.rvalueScopes[x]
		e.putUint(uint64(x))
		e.putBool(o.static)
		if o.static {
			e.putNil()
		} else {
			e.putValue(o.scope)
		}
	}

	closures := slices.Sorted(maps.Keys(t.closureTree))
	e.putLen(len(closures))
	for _, inner := range closures {
		e.putUint(uint64(inner))
		e.putUint(uint64(t.closureTree[inner]))
	}

	yields := slices.SortedFunc(maps.Keys(t.yieldInScope), Compare)
	e.putLen(len(yields))
	for _, s := range yields {
		e.putValue(s)
		e.putValue(t.yieldInScope[s])
	}

	if e.err != nil {
		return Digest{}, fmt.Errorf("fingerprint: %w", e.err)
	}
	return Digest(sha256.Sum256(buf.Bytes())), nil
}
