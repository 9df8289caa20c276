package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// scope tree
	RegionInfo                   Code = 1000
	RegionUnrecognizedParamOwner Code = 1001 // lifetime owner is neither the body owner nor root_parent
	RegionDelayedBug             Code = 1002 // delayed bug promoted at flush

	// fixtures
	FixtureInfo         Code = 2000
	FixtureSyntax       Code = 2001
	FixtureUnknownKey   Code = 2002
	FixtureBadScope     Code = 2003
	FixtureRecordFailed Code = 2004 // replay hit a programmer-error assertion

	// tree invariants
	InvariantInfo         Code = 3000
	InvariantDepth        Code = 3001
	InvariantCycle        Code = 3002
	InvariantDestruction  Code = 3003
	InvariantSelfLifetime Code = 3004
	InvariantYieldCount   Code = 3005
	InvariantClosure      Code = 3006
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                  "Unknown error",
		RegionInfo:                   "Scope tree information",
		RegionUnrecognizedParamOwner: "Lifetime owner not recognized by the scope tree",
		RegionDelayedBug:             "Delayed internal error",
		FixtureInfo:                  "Fixture information",
		FixtureSyntax:                "Malformed fixture",
		FixtureUnknownKey:            "Unknown fixture key",
		FixtureBadScope:              "Invalid scope reference",
		FixtureRecordFailed:          "Recording rejected by the scope tree",
		InvariantInfo:                "Invariant check information",
		InvariantDepth:               "Inconsistent scope depth",
		InvariantCycle:               "Cycle in scope parents",
		InvariantDestruction:         "Destruction scope index out of sync",
		InvariantSelfLifetime:        "Node recorded as its own lifetime",
		InvariantYieldCount:          "Suspension point outside body expression count",
		InvariantClosure:             "Invalid closure nesting",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("REG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("FIX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("INV%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
