package region

import (
	"errors"
	"fmt"
)

// BugError is the panic payload of a broken invariant in the caller: the
// walker recorded something twice, recorded a node as its own lifetime, or
// queried data it never recorded. There is no recovery path.
type BugError struct {
	Op  string
	Msg string
}

func (e *BugError) Error() string {
	return fmt.Sprintf("region: %s: %s", e.Op, e.Msg)
}

func bug(op, format string, args ...any) {
	panic(&BugError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// AsBug extracts a *BugError from a recovered panic value.
func AsBug(recovered any) (*BugError, bool) {
	err, ok := recovered.(error)
	if !ok {
		return nil, false
	}
	var be *BugError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

var (
	// ErrFrozen is returned when freezing a tree twice.
	ErrFrozen = errors.New("scope tree already frozen")
	// ErrDepth reports an unresolved depth expectation found by Validate.
	ErrDepth = errors.New("inconsistent scope depth")
)
