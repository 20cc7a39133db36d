// Package overlay resolves environment placeholders in a parsed
// configuration tree.
//
// The walk never short-circuits: every field of every table is visited even
// after a failure, so a single run reports every missing required variable
// at once. Optional placeholders whose variables are absent drop their table
// field entirely. The input tree is never mutated; a new tree is built.
package overlay

import (
	"os"
	"sort"

	"go.uber.org/multierr"

	"envoverlay/internal/placeholder"
	"envoverlay/internal/tree"
)

// LookupFunc reads one environment variable. found reports whether the
// variable is set; err is reserved for environment-layer failures other than
// absence. The environment is consulted fresh on every call, never cached,
// so tests that swap variables between loads observe the change.
type LookupFunc func(name string) (value string, found bool, err error)

// OSLookup reads the real process environment.
func OSLookup(name string) (string, bool, error) {
	value, found := os.LookupEnv(name)
	return value, found, nil
}

// Overlayer applies environment values to placeholder strings in a tree.
type Overlayer struct {
	lookup LookupFunc
}

// New returns an Overlayer using the given lookup. A nil lookup means the
// process environment.
func New(lookup LookupFunc) *Overlayer {
	if lookup == nil {
		lookup = OSLookup
	}
	return &Overlayer{lookup: lookup}
}

// Apply resolves every placeholder in root and returns the resolved tree.
// The root must be a table. On failure the returned error aggregates every
// independent resolution failure found during the walk.
func (o *Overlayer) Apply(root tree.Value) (tree.Value, error) {
	table, ok := root.(tree.Table)
	if !ok {
		return nil, ErrRootNotTable
	}
	return o.table(table)
}

// table resolves each field, dropping fields whose optional placeholder is
// absent. Fields are visited in sorted key order so aggregated failures are
// reported deterministically. Failures accumulate across all siblings.
func (o *Overlayer) table(t tree.Table) (tree.Value, error) {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(tree.Table, len(t))
	var errs error
	for _, k := range keys {
		resolved, omitted, err := o.value(t[k])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if omitted != "" {
			continue
		}
		out[k] = resolved
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// array resolves each element in order. Elements are never omittable: an
// absent optional at element position is a failure, recorded alongside any
// sibling failures.
func (o *Overlayer) array(a tree.Array) (tree.Value, error) {
	out := make(tree.Array, 0, len(a))
	var errs error
	for i, elem := range a {
		resolved, omitted, err := o.value(elem)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if omitted != "" {
			errs = multierr.Append(errs, &OmittedElementError{Name: omitted, Index: i})
			continue
		}
		out = append(out, resolved)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// value resolves a single node. omitted carries the variable name of an
// absent optional placeholder; the caller decides whether omission is legal
// at its position.
func (o *Overlayer) value(v tree.Value) (resolved tree.Value, omitted string, err error) {
	switch x := v.(type) {
	case tree.String:
		return o.str(x)
	case tree.Table:
		resolved, err := o.table(x)
		return resolved, "", err
	case tree.Array:
		resolved, err := o.array(x)
		return resolved, "", err
	default:
		// Non-string scalars pass through untouched.
		return v, "", nil
	}
}

func (o *Overlayer) str(s tree.String) (tree.Value, string, error) {
	spec := placeholder.Classify(string(s))
	switch spec.Kind {
	case placeholder.Required:
		value, found, err := o.lookup(spec.Name)
		if err != nil {
			return nil, "", &LookupError{Name: spec.Name, Err: err}
		}
		if !found {
			return nil, "", &MissingVariableError{Name: spec.Name}
		}
		return tree.String(value), "", nil
	case placeholder.Optional:
		value, found, err := o.lookup(spec.Name)
		if err != nil {
			return nil, "", &LookupError{Name: spec.Name, Err: err}
		}
		if !found {
			return nil, spec.Name, nil
		}
		return tree.String(value), "", nil
	default:
		return s, "", nil
	}
}
