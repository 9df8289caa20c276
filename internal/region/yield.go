package region

import (
	"github.com/vmihailenco/msgpack/v5"
)

// RecordSuspensionPoint notes that a suspension point occurs inside s.
// Only the one with the highest ExprAndPatCount is kept.
//
// Counts follow the walker's postorder: bindings and temporaries of nodes
// with a lower postorder index than the suspension point are never storage
// live across it, so downstream analysis needs only the latest point.
func (t *ScopeTree) RecordSuspensionPoint(s Scope, data YieldData) {
	const op = "record_suspension_point"
	t.mustBuild(op)
	if data.ExprAndPatCount <= 0 {
		bug(op, "%v: expression count must be positive, got %d", s, data.ExprAndPatCount)
	}
	if prev, ok := t.yieldInScope[s]; ok && prev.ExprAndPatCount >= data.ExprAndPatCount {
		t.debugf(op, "%v keeps %s#%d over #%d", s, prev.Source, prev.ExprAndPatCount, data.ExprAndPatCount)
		return
	}
	t.debugf(op, "%v = %s#%d at %v", s, data.Source, data.ExprAndPatCount, data.Span)
	t.yieldInScope[s] = data
}

// SuspensionPoint returns the latest suspension point recorded in s.
func (t *ScopeTree) SuspensionPoint(s Scope) (YieldData, bool) {
	y, ok := t.yieldInScope[s]
	return y, ok
}

// EncodeMsgpack writes the canonical form used for stable hashing.
func (y YieldData) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(5); err != nil {
		return err
	}
	if err := enc.EncodeUint(uint64(y.Span.File)); err != nil {
		return err
	}
	if err := enc.EncodeUint(uint64(y.Span.Start)); err != nil {
		return err
	}
	if err := enc.EncodeUint(uint64(y.Span.End)); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(y.ExprAndPatCount)); err != nil {
		return err
	}
	return enc.EncodeUint(uint64(y.Source))
}

var _ msgpack.CustomEncoder = YieldData{}
