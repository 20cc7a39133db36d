// Package codec adapts document formats to the generic value tree.
//
// A Codec turns document text into a tree.Value, turns a resolved tree back
// into text, and decodes a resolved tree directly into a caller-supplied
// struct. The overlay engine itself is format-agnostic; TOML is the default
// format and YAML is available as an alternate.
package codec

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"envoverlay/internal/tree"
)

// Codec converts between document text, the generic value tree, and typed
// configuration structs.
type Codec interface {
	// Name identifies the format ("toml", "yaml").
	Name() string

	// DefaultFile is the conventional file name looked for in the working
	// directory when no explicit path is given.
	DefaultFile() string

	// Parse converts document text into a value tree.
	Parse(data []byte) (tree.Value, error)

	// Serialize converts a resolved value tree back into document text.
	Serialize(v tree.Value) ([]byte, error)

	// Decode populates target from a resolved value tree. Struct fields are
	// matched using the format's struct tag.
	Decode(v tree.Value, target any) error
}

// ForName returns the codec for a format name.
func ForName(name string) (Codec, error) {
	switch name {
	case "toml":
		return TOML{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown configuration format %q (supported: toml, yaml)", name)
	}
}

// decode maps the tree's plain-Go form onto target, honoring the given
// struct tag. Numeric kinds convert freely; RFC 3339 strings may populate
// time.Time fields, which keeps YAML documents on par with TOML's native
// datetimes.
func decode(v tree.Value, target any, tagName string) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     target,
		TagName:    tagName,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(v.Interface()); err != nil {
		return fmt.Errorf("decoding configuration into %T: %w", target, err)
	}
	return nil
}
