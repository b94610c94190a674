package signup

import "strings"

// Field names a form input.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
	FieldName     Field = "name"
	FieldLocation Field = "location"
	FieldBio      Field = "bio"
	// FieldServices is free text, not a list.
	FieldServices Field = "services"
)

// Fields lists every input in render order; bio is the multi-line one.
var Fields = []Field{FieldEmail, FieldPassword, FieldName, FieldLocation, FieldServices, FieldBio}

// RequiredFields must be non-empty before a submission reaches the services.
var RequiredFields = []Field{FieldEmail, FieldPassword, FieldName, FieldServices}

// FormState maps each field to its current value. All fields start out empty.
type FormState map[Field]string

func NewFormState() FormState {
	s := make(FormState, len(Fields))
	for _, f := range Fields {
		s[f] = ""
	}
	return s
}

// Set stores value under name and reports whether name is a known field.
func (s FormState) Set(name Field, value string) bool {
	if _, ok := s[name]; !ok {
		return false
	}
	s[name] = value
	return true
}

// Missing returns the required fields that are empty, in declaration order.
func (s FormState) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if s[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Label is the placeholder shown for a field.
func (f Field) Label() string {
	if f == FieldBio {
		return "Short Bio"
	}
	s := string(f)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// MissingFieldError reports a required field left empty.
type MissingFieldError struct {
	Field Field
}

func (e *MissingFieldError) Error() string {
	return string(e.Field) + " is required"
}
