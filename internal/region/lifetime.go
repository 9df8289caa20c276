package region

import "regions/internal/hir"

// RecordVarScope records the scope that bounds the lifetime of binding v.
func (t *ScopeTree) RecordVarScope(v hir.ItemLocalID, lifetime Scope) {
	const op = "record_var_scope"
	t.mustBuild(op)
	t.debugf(op, "sub=%d sup=%v", v, lifetime)
	if v == lifetime.ItemLocalID() {
		bug(op, "binding %d recorded as its own lifetime %v", v, lifetime)
	}
	t.varMap[v] = lifetime
}

// RecordRvalueScope overrides the cleanup scope of the temporary produced
// by expr. Entries exist only for temporaries whose cleanup scope is larger
// than the default innermost terminating scope.
func (t *ScopeTree) RecordRvalueScope(expr hir.ItemLocalID, lifetime Scope) {
	const op = "record_rvalue_scope"
	t.mustBuild(op)
	t.debugf(op, "sub=%d sup=%v", expr, lifetime)
	if expr == lifetime.ItemLocalID() {
		bug(op, "expression %d recorded as its own cleanup scope %v", expr, lifetime)
	}
	t.rvalueScopes[expr] = rvalueOverride{scope: lifetime}
}

// RecordStaticRvalueScope marks the temporary of expr as escaping to the
// outermost lifetime, with no local cleanup scope. Used in constants.
func (t *ScopeTree) RecordStaticRvalueScope(expr hir.ItemLocalID) {
	const op = "record_rvalue_scope"
	t.mustBuild(op)
	t.debugf(op, "sub=%d sup=static", expr)
	t.rvalueScopes[expr] = rvalueOverride{static: true}
}

// VariableScope returns the lifetime scope of binding v. Every binding must
// have been recorded before it is queried.
func (t *ScopeTree) VariableScope(v hir.ItemLocalID) Scope {
	s, ok := t.varMap[v]
	if !ok {
		bug("variable_scope", "no enclosing scope for binding %d", v)
	}
	return s
}

// TemporaryScope returns the scope at whose end the temporary produced by
// expr is cleaned up.
//
// An rvalue override wins, including a static one, which yields ok == false.
// Otherwise the answer is the innermost ancestor of the expression's node
// scope (or that scope itself) whose parent is a destruction scope. Items
// with no enclosing body, such as statics, have none.
func (t *ScopeTree) TemporaryScope(expr hir.ItemLocalID) (Scope, bool) {
	const op = "temporary_scope"
	if o, ok := t.rvalueScopes[expr]; ok {
		if o.static {
			t.debugf(op, "%d = none [custom]", expr)
			return Scope{}, false
		}
		t.debugf(op, "%d = %v [custom]", expr, o.scope)
		return o.scope, true
	}

	id := NodeScope(expr)
	for {
		pe, ok := t.parentMap[id]
		if !ok {
			break
		}
		if pe.parent.Kind == KindDestruction {
			t.debugf(op, "%d = %v [enclosing]", expr, id)
			return id, true
		}
		id = pe.parent
	}
	t.debugf(op, "%d = none", expr)
	return Scope{}, false
}

// RvalueOverride reports the override recorded for expr, if any. static is
// true for temporaries that escape to the outermost lifetime.
func (t *ScopeTree) RvalueOverride(expr hir.ItemLocalID) (lifetime Scope, static, ok bool) {
	o, ok := t.rvalueScopes[expr]
	if !ok {
		return Scope{}, false, false
	}
	return o.scope, o.static, true
}
