package region

import (
	"fmt"

	"regions/internal/diag"
	"regions/internal/hir"
	"regions/internal/source"
)

// FreeScopeForEarlyBound returns the outermost scope that the early-bound
// region br outlives: the call-site scope of the body owning the parameter.
//
// Parameters declared on an item without a body can only come from the
// trait or impl enclosing this tree's method, and are in scope for its
// whole body. If the owner is not that recorded root_parent either, a
// delayed bug is reported to rep and the root body is still used.
func (t *ScopeTree) FreeScopeForEarlyBound(m hir.Map, br hir.EarlyBoundRegion, rep diag.Reporter) Scope {
	const op = "free_scope_for_early_bound"
	owner, ok := m.DefParent(br.Def)
	if !ok {
		bug(op, "lifetime parameter %q (def %d) has no owner", br.Name, br.Def)
	}
	ownerID, ok := m.LocalHirID(owner)
	if !ok {
		bug(op, "owner %d of %q is not a local definition", owner, br.Name)
	}
	if body, ok := m.BodyOwnedBy(ownerID); ok {
		return CallSiteScope(body.Value.Local)
	}

	if ownerID != t.RootParent {
		diag.ReportDelayedBug(rep, diag.RegionUnrecognizedParamOwner, source.NoSpan,
			fmt.Sprintf("free scope: def %d not recognized by the region scope tree for %v / %v",
				owner, t.RootParent, t.RootBody))
	}
	if !t.RootBody.IsValid() {
		bug(op, "owner %d of %q has no body and the tree has no root body", owner, br.Name)
	}
	return CallSiteScope(t.RootBody.Local)
}

// FreeScopeForLateBound returns the outermost scope that the late-bound
// region fr outlives. Named late-bound lifetimes must be declared on the
// same function in which they are freed.
func (t *ScopeTree) FreeScopeForLateBound(m hir.Map, fr hir.FreeRegion) Scope {
	const op = "free_scope_for_late_bound"
	owner := fr.Scope
	if fr.Bound.Kind == hir.BoundRegionNamed {
		parent, ok := m.DefParent(fr.Bound.Def)
		if !ok {
			bug(op, "named region %q (def %d) has no owner", fr.Bound.Name, fr.Bound.Def)
		}
		owner = parent
	}
	if owner != fr.Scope {
		bug(op, "region %q declared on def %d but freed in def %d", fr.Bound.Name, owner, fr.Scope)
	}
	ownerID, ok := m.LocalHirID(owner)
	if !ok {
		bug(op, "owner %d is not a local definition", owner)
	}
	body, ok := m.BodyOwnedBy(ownerID)
	if !ok {
		bug(op, "owner %v has no body", ownerID)
	}
	return CallSiteScope(body.Value.Local)
}
