package diag

import "regions/internal/source"

// Reporter receives diagnostics from producers.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// DelayedBugReporter is implemented by reporters that can hold a finding
// until it is known whether other errors occurred.
type DelayedBugReporter interface {
	Reporter
	DelayBug(d Diagnostic)
}

// ReportDelayedBug hands d to r as a delayed bug. Reporters without delayed
// bug support receive it as a warning so it is never lost.
func ReportDelayedBug(r Reporter, code Code, primary source.Span, msg string) {
	if r == nil {
		return
	}
	if dr, ok := r.(DelayedBugReporter); ok {
		dr.DelayBug(New(SevError, code, primary, msg))
		return
	}
	r.Report(code, SevWarning, primary, msg, nil)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

func (r BagReporter) DelayBug(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.DelayBug(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}
