package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file.
// The zero value is NoSpan and means "no location".
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// NoSpan is the sentinel used when a construct has no source location.
var NoSpan = Span{}

// IsNone reports whether the span is the NoSpan sentinel.
func (s Span) IsNone() bool {
	return s == NoSpan
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	if s.IsNone() {
		return "<no-span>"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ContainsPos reports whether pos lies within [Start, End] of s.
// The end bound is inclusive so that a position right at the end still counts.
func (s Span) ContainsPos(pos uint32) bool {
	return s.Start <= pos && pos <= s.End
}

// Suffix returns the tail of s starting at from.
// If from is outside s the span is returned unchanged.
func (s Span) Suffix(from uint32) Span {
	if !s.ContainsPos(from) {
		return s
	}
	return Span{File: s.File, Start: from, End: s.End}
}
