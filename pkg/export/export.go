// Package export writes parsed content plans as JSON and YAML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/contentplan/pkg/backfill"
	"github.com/coolbeans/contentplan/pkg/types"
	"github.com/coolbeans/contentplan/pkg/validate"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a format name ("json", "yaml" or "yml") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json or yaml)", name)
}

// ParseFormats parses a list of format names, dropping repeats.
func ParseFormats(names []string) ([]Format, error) {
	var formats []Format
	seen := make(map[Format]bool)
	for _, name := range names {
		format, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[format] {
			seen[format] = true
			formats = append(formats, format)
		}
	}
	return formats, nil
}

// Bundle is the envelope written by a full run.
type Bundle struct {
	ID             string                  `json:"id" yaml:"id"`
	GeneratedAt    time.Time               `json:"generated_at" yaml:"generated_at"`
	Brand          string                  `json:"brand,omitempty" yaml:"brand,omitempty"`
	Calendar       *types.CalendarResult   `json:"calendar,omitempty" yaml:"calendar,omitempty"`
	Strategies     []types.ContentStrategy `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	Recommendation *types.Recommendation   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Backfill       *backfill.Report        `json:"backfill,omitempty" yaml:"backfill,omitempty"`
	Validation     *validate.GateReport    `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// NewBundle returns an empty bundle with a fresh id and timestamp.
func NewBundle(brand string) *Bundle {
	return &Bundle{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Brand:       brand,
	}
}

// Write encodes v to w in the given format. JSON uses a two-space indent
// and leaves HTML characters unescaped; YAML keeps struct field order.
func Write(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteYAML encodes v as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return encoder.Close()
}

// SaveBundle writes bundle to dir once per format and returns the paths
// written. Files are named after the sanitized brand.
func SaveBundle(dir string, bundle *Bundle, formats []Format) ([]string, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("no output formats given")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	base := "content_plan"
	if bundle.Brand != "" {
		base = SanitizeFilename(bundle.Brand) + "_content_plan"
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := filepath.Join(dir, base+"."+string(format))
		if err := saveFile(path, format, bundle); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func saveFile(path string, format Format, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(file, format, v); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

const maxFilenameLength = 100

// SanitizeFilename makes value safe to use as a file name: reserved
// characters become "_", the result is cut to 100 bytes and stripped of
// surrounding spaces and dots. An empty result becomes "document".
func SanitizeFilename(value string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(value, "_")
	if len(sanitized) > maxFilenameLength {
		sanitized = sanitized[:maxFilenameLength]
		for len(sanitized) > 0 && !utf8.ValidString(sanitized) {
			sanitized = sanitized[:len(sanitized)-1]
		}
	}
	sanitized = strings.Trim(sanitized, " .")
	if sanitized == "" {
		return "document"
	}
	return sanitized
}
