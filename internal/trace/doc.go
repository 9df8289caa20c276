// Package trace is the tracing layer of the scope tree tooling.
//
// Tracers receive events from the CLI driver (tool scope), from each
// processed fixture or body (body scope) and, at debug level, from every
// recording and query call on a region.ScopeTree (node scope).
//
// # Usage
//
//	scopetree check --trace=- --trace-level=debug body.toml
//
// # Implementations
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only post-mortem ring dumps
//   - LevelPhase: tool and pass boundaries
//   - LevelDetail: per-body events
//   - LevelDebug: everything, including node-level scope tree operations
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "replay", parentID)
//	defer span.End("")
package trace
