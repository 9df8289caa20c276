// Package diag defines the diagnostic model used by the scope tree tooling.
//
// Diagnostic is the central record: Severity, Code, Message, a primary
// source.Span and optional Notes. Producers emit through a Reporter;
// BagReporter collects into a Bag that supports sorting and deduplication.
//
// # Delayed bugs
//
// Some inconsistencies are only bugs if nothing else went wrong: a scope tree
// asked about a lifetime parameter whose owner it does not recognize may be
// looking at code that already failed to type-check. Such findings are
// reported with ReportDelayedBug. A Bag keeps them aside and FlushDelayedBugs
// promotes them to errors only when the bag holds no other error.
package diag
