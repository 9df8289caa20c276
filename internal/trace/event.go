package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower values are coarser.
type Scope uint8

const (
	ScopeTool Scope = iota + 1 // CLI command
	ScopePass                  // load, replay, validate, fingerprint
	ScopeBody                  // one fixture / one analysed body
	ScopeNode                  // single scope tree operation
)

func (s Scope) String() string {
	switch s {
	case ScopeTool:
		return "tool"
	case ScopePass:
		return "pass"
	case ScopeBody:
		return "body"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 if root
	Name     string // e.g. "check", "record_scope_parent"
	Detail   string
	Extra    map[string]string
}
