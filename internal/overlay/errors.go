package overlay

import (
	"errors"
	"fmt"
)

// ErrRootNotTable is returned when the document root is not a table. A
// configuration document is always field/value pairs at the top level.
var ErrRootNotTable = errors.New("configuration root must be a table")

// MissingVariableError reports a required placeholder whose environment
// variable is not set. Multiple instances across one document are collected
// into a single aggregate rather than surfaced one at a time.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

// LookupError reports an environment lookup that failed for a reason other
// than the variable being absent.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("looking up environment variable %q: %v", e.Name, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// OmittedElementError reports an optional placeholder at array-element
// position whose variable is absent. Only table fields can be omitted;
// silently shrinking an array would shift the remaining elements, so the
// construct is rejected instead.
type OmittedElementError struct {
	Name  string
	Index int
}

func (e *OmittedElementError) Error() string {
	return fmt.Sprintf("optional placeholder for %q at array index %d cannot be omitted; only table fields may be optional", e.Name, e.Index)
}
