package diag

import (
	"fmt"

	"fortio.org/safecast"
)

type Bag struct {
	items   []Diagnostic
	delayed []Diagnostic
	max     uint16
}

func NewBag(limit int) *Bag {
	capped, err := safecast.Conv[uint16](limit)
	if err != nil {
		capped = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, capped),
		max:   capped,
	}
}

// Add appends d unless the limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// DelayBug keeps d aside until FlushDelayedBugs.
func (b *Bag) DelayBug(d Diagnostic) {
	b.delayed = append(b.delayed, d)
}

// Delayed returns the pending delayed bugs.
func (b *Bag) Delayed() []Diagnostic {
	return b.delayed
}

// FlushDelayedBugs promotes pending delayed bugs to errors if the bag holds
// no error yet, and drops them otherwise. Reports whether any were promoted.
func (b *Bag) FlushDelayedBugs() bool {
	pending := b.delayed
	b.delayed = nil
	if len(pending) == 0 || b.HasErrors() {
		return false
	}
	for _, d := range pending {
		d.Severity = SevError
		d = d.WithNote(d.Primary, fmt.Sprintf("%s: %s", RegionDelayedBug.ID(), RegionDelayedBug.Title()))
		b.Add(d)
	}
	return true
}

// HasErrors reports whether any diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
