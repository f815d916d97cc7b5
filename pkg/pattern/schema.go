package pattern

import (
	"fmt"
	"strings"
)

// ValidationError represents a pattern set validation error with context
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no errors"
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(errs), strings.Join(messages, "\n  - "))
}

// ValidateSet checks a pattern set and reports every problem found:
// missing metadata, malformed ids, duplicate ids, patterns that do not
// compile and field patterns without a capture group.
func ValidateSet(s *Set) ValidationErrors {
	var errs ValidationErrors

	if s.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "required field is missing",
		})
	}

	if s.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: "required field is missing",
		})
	} else if !isValidVersion(s.Version) {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: "must be semantic version (X.Y.Z)",
			Value:   s.Version,
		})
	}

	if len(s.Fields)+len(s.Sections)+len(s.Markers) == 0 {
		errs = append(errs, ValidationError{
			Field:   "fields",
			Message: "a pattern set must define at least one field, section or marker",
		})
	}

	seen := make(map[string]bool)
	for i, field := range s.Fields {
		prefix := fmt.Sprintf("fields[%d]", i)
		errs = append(errs, validateID(prefix, "field", field.ID, seen)...)
		errs = append(errs, validateExpr(prefix+".pattern", field.Pattern, true, 1)...)
	}
	for i, section := range s.Sections {
		prefix := fmt.Sprintf("sections[%d]", i)
		errs = append(errs, validateID(prefix, "section", section.ID, seen)...)
		errs = append(errs, validateExpr(prefix+".start", section.Start, true, 0)...)
		errs = append(errs, validateExpr(prefix+".stop", section.Stop, false, 0)...)
		errs = append(errs, validateExpr(prefix+".keep", section.Keep, false, 0)...)
	}
	for i, marker := range s.Markers {
		prefix := fmt.Sprintf("markers[%d]", i)
		errs = append(errs, validateID(prefix, "marker", marker.ID, seen)...)
		errs = append(errs, validateExpr(prefix+".pattern", marker.Pattern, true, 0)...)
	}

	return errs
}

func validateID(prefix, kind, id string, seen map[string]bool) ValidationErrors {
	var errs ValidationErrors
	switch {
	case id == "":
		errs = append(errs, ValidationError{
			Field:   prefix + ".id",
			Message: "required field is missing",
		})
	case !isValidID(id):
		errs = append(errs, ValidationError{
			Field:   prefix + ".id",
			Message: "must be lowercase alphanumeric with underscores",
			Value:   id,
		})
	case seen[kind+":"+id]:
		errs = append(errs, ValidationError{
			Field:   prefix + ".id",
			Message: fmt.Sprintf("duplicate %s id", kind),
			Value:   id,
		})
	}
	seen[kind+":"+id] = true
	return errs
}

func validateExpr(field, expr string, required bool, minGroups int) ValidationErrors {
	if expr == "" {
		if !required {
			return nil
		}
		return ValidationErrors{{Field: field, Message: "required field is missing"}}
	}

	compiled, err := compile(expr)
	if err != nil {
		return ValidationErrors{{
			Field:   field,
			Message: "invalid regex",
			Value:   err.Error(),
		}}
	}
	if compiled.NumSubexp() < minGroups {
		return ValidationErrors{{
			Field:   field,
			Message: fmt.Sprintf("must have at least %d capture group", minGroups),
			Value:   expr,
		}}
	}
	return nil
}

func isValidID(id string) bool {
	if len(id) == 0 {
		return false
	}
	// Must start with lowercase letter
	if id[0] < 'a' || id[0] > 'z' {
		return false
	}
	// Rest must be lowercase alphanumeric or underscore
	for _, c := range id[1:] {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}

func isValidVersion(v string) bool {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if len(part) == 0 {
			return false
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}
