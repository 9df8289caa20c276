// Package region records and queries the lexical scope hierarchy of a body.
//
// The walker that discovers scopes calls the Record* methods once per fact,
// typically in postorder. Afterwards lifetime analysis only queries the
// tree: containment, nearest common ancestors, the cleanup scope of a
// temporary, the lifetime of a binding and suspension points.
//
// A small example, for
//
//	let a = f().g('b: { let x = d(); let y = d(); x.h(y) });
//
// the scopes are, innermost to outermost around the labeled block:
//
//	Node(let x)        statement
//	Destruction(let x) temporaries of that statement
//	Remainder{b, 0}    rest of 'b after `let x = d();`
//	Node(let y) ...    and so on up to
//	Destruction(b)     temporaries and bindings of 'b
//	Node(f().g(..))
//	Destruction(let a) temporaries such as the result of f()
//
// Destruction scopes are stored as the parents of the node scope with the
// same id even though destructors run after the node. The parent relation
// is used only to decide whether something lives long enough, so the end
// of each range is what matters, not its start.
package region
