// Package pattern provides the declarative table of regular expressions used
// to locate fields, sections and block headers in generated marketing text.
package pattern

import (
	"fmt"
	"regexp"
	"sort"
)

// patternFlags is prepended to every pattern: matching is case-insensitive and
// ^/$ match at line boundaries.
const patternFlags = "(?im)"

// Set is a named, versioned table of patterns.
type Set struct {
	// Metadata
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Fields are single labelled values inside a block.
	Fields []Field `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Sections are headed regions whose bodies hold text or lists.
	Sections []Section `yaml:"sections,omitempty" json:"sections,omitempty"`

	// Markers delimit blocks and recognize list items.
	Markers []Marker `yaml:"markers,omitempty" json:"markers,omitempty"`

	compiled bool
}

// Field locates one labelled value. Capture group 1 is the first-line value.
type Field struct {
	ID        string `yaml:"id" json:"id"`
	Pattern   string `yaml:"pattern" json:"pattern"`
	Multiline bool   `yaml:"multiline,omitempty" json:"multiline,omitempty"`

	compiled *regexp.Regexp
}

// Section locates a headed region. The body runs from the end of the Start
// match to the first following line that is a heading, a bold field marker,
// or matches Stop. Lines matching Keep never end the section.
type Section struct {
	ID    string `yaml:"id" json:"id"`
	Start string `yaml:"start" json:"start"`
	Stop  string `yaml:"stop,omitempty" json:"stop,omitempty"`
	Keep  string `yaml:"keep,omitempty" json:"keep,omitempty"`

	startCompiled *regexp.Regexp
	stopCompiled  *regexp.Regexp
	keepCompiled  *regexp.Regexp
}

// Marker is a standalone pattern such as a block header or list item.
type Marker struct {
	ID      string `yaml:"id" json:"id"`
	Pattern string `yaml:"pattern" json:"pattern"`

	compiled *regexp.Regexp
}

func compile(expr string) (*regexp.Regexp, error) {
	return regexp.Compile(patternFlags + expr)
}

// Compile compiles every pattern in the set.
// Returns an error if any pattern fails to compile.
func (s *Set) Compile() error {
	for i := range s.Fields {
		field := &s.Fields[i]
		compiled, err := compile(field.Pattern)
		if err != nil {
			return fmt.Errorf("compiling field %q pattern %q: %w", field.ID, field.Pattern, err)
		}
		if compiled.NumSubexp() < 1 {
			return fmt.Errorf("field %q pattern has no capture group", field.ID)
		}
		field.compiled = compiled
	}

	for i := range s.Sections {
		section := &s.Sections[i]
		compiled, err := compile(section.Start)
		if err != nil {
			return fmt.Errorf("compiling section %q start pattern: %w", section.ID, err)
		}
		section.startCompiled = compiled

		section.stopCompiled = nil
		if section.Stop != "" {
			compiled, err := compile(section.Stop)
			if err != nil {
				return fmt.Errorf("compiling section %q stop pattern: %w", section.ID, err)
			}
			section.stopCompiled = compiled
		}

		section.keepCompiled = nil
		if section.Keep != "" {
			compiled, err := compile(section.Keep)
			if err != nil {
				return fmt.Errorf("compiling section %q keep pattern: %w", section.ID, err)
			}
			section.keepCompiled = compiled
		}
	}

	for i := range s.Markers {
		marker := &s.Markers[i]
		compiled, err := compile(marker.Pattern)
		if err != nil {
			return fmt.Errorf("compiling marker %q pattern %q: %w", marker.ID, marker.Pattern, err)
		}
		marker.compiled = compiled
	}

	s.compiled = true
	return nil
}

// IsCompiled returns true if the set has been compiled.
func (s *Set) IsCompiled() bool {
	return s.compiled
}

// Validate checks the set with ValidateSet and returns its errors, if any,
// as a single error.
func (s *Set) Validate() error {
	if errs := ValidateSet(s); len(errs) > 0 {
		return errs
	}
	return nil
}

// Field returns the field with the given id.
func (s *Set) Field(id string) *Field {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i]
		}
	}
	return nil
}

// Section returns the section with the given id.
func (s *Set) Section(id string) *Section {
	for i := range s.Sections {
		if s.Sections[i].ID == id {
			return &s.Sections[i]
		}
	}
	return nil
}

// Marker returns the marker with the given id.
func (s *Set) Marker(id string) *Marker {
	for i := range s.Markers {
		if s.Markers[i].ID == id {
			return &s.Markers[i]
		}
	}
	return nil
}

// Merge returns a new, uncompiled set containing the entries of s with every
// entry of override replacing the entry of the same kind and id. Entries only
// present in override are appended.
func (s *Set) Merge(override *Set) *Set {
	merged := &Set{
		Name:        s.Name,
		Version:     s.Version,
		Description: s.Description,
		Fields:      append([]Field(nil), s.Fields...),
		Sections:    append([]Section(nil), s.Sections...),
		Markers:     append([]Marker(nil), s.Markers...),
	}
	if override == nil {
		return merged
	}
	merged.Name = s.Name + "+" + override.Name

	for _, field := range override.Fields {
		if existing := merged.Field(field.ID); existing != nil {
			*existing = field
			continue
		}
		merged.Fields = append(merged.Fields, field)
	}
	for _, section := range override.Sections {
		if existing := merged.Section(section.ID); existing != nil {
			*existing = section
			continue
		}
		merged.Sections = append(merged.Sections, section)
	}
	for _, marker := range override.Markers {
		if existing := merged.Marker(marker.ID); existing != nil {
			*existing = marker
			continue
		}
		merged.Markers = append(merged.Markers, marker)
	}
	return merged
}

// IDs returns the sorted ids of all entries, prefixed by their kind.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.Fields)+len(s.Sections)+len(s.Markers))
	for _, field := range s.Fields {
		ids = append(ids, "field:"+field.ID)
	}
	for _, section := range s.Sections {
		ids = append(ids, "section:"+section.ID)
	}
	for _, marker := range s.Markers {
		ids = append(ids, "marker:"+marker.ID)
	}
	sort.Strings(ids)
	return ids
}

// Regexp returns the compiled field pattern, or nil before Compile.
func (f *Field) Regexp() *regexp.Regexp {
	return f.compiled
}

// Regexp returns the compiled marker pattern, or nil before Compile.
func (m *Marker) Regexp() *regexp.Regexp {
	return m.compiled
}

// StartRegexp returns the compiled start pattern, or nil before Compile.
func (s *Section) StartRegexp() *regexp.Regexp {
	return s.startCompiled
}

// StopRegexp returns the compiled stop pattern, or nil when none is set.
func (s *Section) StopRegexp() *regexp.Regexp {
	return s.stopCompiled
}

// KeepRegexp returns the compiled keep pattern, or nil when none is set.
func (s *Section) KeepRegexp() *regexp.Regexp {
	return s.keepCompiled
}
