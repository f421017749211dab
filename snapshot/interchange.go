package snapshot

import (
	"fmt"

	"github.com/goccy/go-json"
	"sigs.k8s.io/yaml"
)

// MarshalJSON encodes s as a JSON object with dimCount, keyValues,
// valueKeys and values fields. Key values use the tagged form of key.Value.
func MarshalJSON(s *State) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := *s
	c.normalize()

	return json.Marshal(&c)
}

// UnmarshalJSON decodes and validates a JSON state.
func UnmarshalJSON(data []byte) (*State, error) {
	s := &State{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode json snapshot: %w", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// MarshalYAML encodes s as YAML with the same fields as MarshalJSON.
func MarshalYAML(s *State) ([]byte, error) {
	data, err := MarshalJSON(s)
	if err != nil {
		return nil, err
	}

	return yaml.JSONToYAML(data)
}

// UnmarshalYAML decodes and validates a YAML state.
func UnmarshalYAML(data []byte) (*State, error) {
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decode yaml snapshot: %w", err)
	}

	return UnmarshalJSON(js)
}
