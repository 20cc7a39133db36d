package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"envoverlay/internal/tree"
)

// YAML is an alternate document codec. Null values are rejected: the value
// tree has no null variant, and an explicit null in a config document almost
// always means an optional placeholder was wanted instead.
type YAML struct{}

func (YAML) Name() string        { return "yaml" }
func (YAML) DefaultFile() string { return "config.yaml" }

func (YAML) Parse(data []byte) (tree.Value, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML document: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	v, err := tree.FromGo(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing YAML document: %w", err)
	}
	return v, nil
}

func (YAML) Serialize(v tree.Value) ([]byte, error) {
	data, err := yaml.Marshal(v.Interface())
	if err != nil {
		return nil, fmt.Errorf("serializing YAML document: %w", err)
	}
	return data, nil
}

func (YAML) Decode(v tree.Value, target any) error {
	return decode(v, target, "yaml")
}
