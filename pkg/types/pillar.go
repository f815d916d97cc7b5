package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ContentPillar is a recurring content theme.
type ContentPillar struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// PillarMap is an insertion-ordered mapping of pillar name to description.
// It serializes as a JSON object or YAML mapping in insertion order.
type PillarMap struct {
	entries []ContentPillar
}

// NewPillarMap builds a map from pillars in the given order.
func NewPillarMap(pillars ...ContentPillar) PillarMap {
	var m PillarMap
	for _, pillar := range pillars {
		m.Set(pillar.Name, pillar.Description)
	}
	return m
}

// DefaultPillars returns the three generic pillars used when a calendar
// defines none of its own.
func DefaultPillars() PillarMap {
	return NewPillarMap(
		ContentPillar{Name: "Pillar 1", Description: "Brand Awareness & Thought Leadership"},
		ContentPillar{Name: "Pillar 2", Description: "Product Education & Features"},
		ContentPillar{Name: "Pillar 3", Description: "Community Engagement & Stories"},
	)
}

// Set stores description under name. An existing name keeps its position.
func (m *PillarMap) Set(name, description string) {
	for i := range m.entries {
		if m.entries[i].Name == name {
			m.entries[i].Description = description
			return
		}
	}
	m.entries = append(m.entries, ContentPillar{Name: name, Description: description})
}

// Get returns the description stored under name.
func (m PillarMap) Get(name string) (string, bool) {
	for _, entry := range m.entries {
		if entry.Name == name {
			return entry.Description, true
		}
	}
	return "", false
}

// Len returns the number of pillars.
func (m PillarMap) Len() int {
	return len(m.entries)
}

// Names returns pillar names in insertion order.
func (m PillarMap) Names() []string {
	names := make([]string, len(m.entries))
	for i, entry := range m.entries {
		names[i] = entry.Name
	}
	return names
}

// Entries returns a copy of the pillars in insertion order.
func (m PillarMap) Entries() []ContentPillar {
	entries := make([]ContentPillar, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// MarshalJSON encodes the map as a JSON object preserving order.
func (m PillarMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Description)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the order of its keys.
func (m *PillarMap) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("reading pillars: %w", err)
	}
	if token == nil {
		m.entries = nil
		return nil
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("pillars must be a JSON object")
	}

	m.entries = nil
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("reading pillar name: %w", err)
		}
		name, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("pillar name must be a string")
		}
		var description string
		if err := decoder.Decode(&description); err != nil {
			return fmt.Errorf("reading pillar %q: %w", name, err)
		}
		m.Set(name, description)
	}

	if _, err := decoder.Token(); err != nil {
		return fmt.Errorf("reading pillars: %w", err)
	}
	return nil
}

// MarshalYAML encodes the map as a YAML mapping node preserving order.
func (m PillarMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range m.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Description},
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping the order of its keys.
func (m *PillarMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("pillars must be a YAML mapping, got kind %d", value.Kind)
	}
	m.entries = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		m.Set(value.Content[i].Value, value.Content[i+1].Value)
	}
	return nil
}
