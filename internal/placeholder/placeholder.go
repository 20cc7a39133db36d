// Package placeholder recognizes environment placeholder strings in
// configuration values.
//
// A placeholder is only recognized when it is the complete value of a leaf:
// "<<ENV:HOST>>" is a required placeholder for the HOST variable,
// "<<ENV?:HOST>>" an optional one, and "prefix<<ENV:HOST>>" is an ordinary
// literal string.
package placeholder

import "regexp"

// Kind classifies a string value.
type Kind int

const (
	// NotAPlaceholder marks an ordinary literal string.
	NotAPlaceholder Kind = iota
	// Required marks a <<ENV:NAME>> placeholder. An absent variable is an
	// error.
	Required
	// Optional marks a <<ENV?:NAME>> placeholder. An absent variable drops
	// the enclosing table field.
	Optional
)

// Spec is the classification of a single string value. Name is empty unless
// Kind is Required or Optional.
type Spec struct {
	Kind Kind
	Name string
}

// Matching is anchored: the placeholder must span the whole string.
var (
	requiredPattern = regexp.MustCompile(`^<<ENV:([a-zA-Z0-9_]+)>>$`)
	optionalPattern = regexp.MustCompile(`^<<ENV\?:([a-zA-Z0-9_]+)>>$`)
)

// Classify reports whether s is a placeholder and, if so, which variable it
// names.
func Classify(s string) Spec {
	if m := requiredPattern.FindStringSubmatch(s); m != nil {
		return Spec{Kind: Required, Name: m[1]}
	}
	if m := optionalPattern.FindStringSubmatch(s); m != nil {
		return Spec{Kind: Optional, Name: m[1]}
	}
	return Spec{Kind: NotAPlaceholder}
}
