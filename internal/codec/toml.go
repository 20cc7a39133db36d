package codec

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"

	"envoverlay/internal/tree"
)

// TOML is the default document codec.
type TOML struct{}

func (TOML) Name() string        { return "toml" }
func (TOML) DefaultFile() string { return "Config.toml" }

func (TOML) Parse(data []byte) (tree.Value, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing TOML document: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	v, err := tree.FromGo(normalizeTOML(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing TOML document: %w", err)
	}
	return v, nil
}

func (TOML) Serialize(v tree.Value) ([]byte, error) {
	data, err := toml.Marshal(v.Interface())
	if err != nil {
		return nil, fmt.Errorf("serializing TOML document: %w", err)
	}
	return data, nil
}

func (TOML) Decode(v tree.Value, target any) error {
	return decode(v, target, "toml")
}

// normalizeTOML rewrites go-toml's local date/time types into forms the
// value tree understands. Local dates and datetimes become time.Time in the
// local zone; a bare local time has no time.Time equivalent and is kept as
// its text form.
func normalizeTOML(v any) any {
	switch x := v.(type) {
	case toml.LocalDate:
		return x.AsTime(time.Local)
	case toml.LocalDateTime:
		return x.AsTime(time.Local)
	case toml.LocalTime:
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = normalizeTOML(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, elem := range x {
			out[k] = normalizeTOML(elem)
		}
		return out
	default:
		return v
	}
}
