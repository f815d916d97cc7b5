// Package types provides the value objects produced by the content parser.
package types

import (
	"strings"
	"unicode"
)

// Level grades effort or engagement for a content piece.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// DefaultLevel is used whenever a level is missing or unrecognized.
const DefaultLevel = LevelMedium

// IsValid reports whether l is one of Low, Medium or High.
func (l Level) IsValid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// NormalizeLevel maps free text such as "high", "H", "Low (2 hours)" or
// "Medium-High" to a Level by its first word. Unrecognized input, including
// values like "Extreme", yields DefaultLevel.
func NormalizeLevel(text string) Level {
	firstWord := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(firstWord) == 0 {
		return DefaultLevel
	}

	switch strings.ToLower(firstWord[0]) {
	case "low", "l":
		return LevelLow
	case "medium", "med", "m", "moderate":
		return LevelMedium
	case "high", "h":
		return LevelHigh
	}
	return DefaultLevel
}
